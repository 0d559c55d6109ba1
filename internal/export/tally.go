package export

import (
	"bytes"
	"encoding/xml"

	"gstexport/internal/ledger"
)

// tallyEncoder emits a Tally import document: ledger-creation masters for
// the party, GST and expense ledgers, followed by one purchase voucher per
// invoice. Whether Tally's importer deduplicates masters on repeated import
// is the host system's concern; this encoder only guarantees deterministic,
// collision-free ledger names and creation envelopes.
type tallyEncoder struct {
	separate bool // one envelope per voucher instead of a combined file
}

func newTallyEncoder(separate bool) *tallyEncoder {
	return &tallyEncoder{separate: separate}
}

func (e *tallyEncoder) Kind() Kind          { return KindTallyXML }
func (e *tallyEncoder) ContentType() string { return "application/xml" }
func (e *tallyEncoder) Extension() string   { return "xml" }

type tallyEnvelope struct {
	XMLName xml.Name   `xml:"ENVELOPE"`
	Header  tallyHead  `xml:"HEADER"`
	Body    tallyBody  `xml:"BODY"`
}

type tallyHead struct {
	TallyRequest string `xml:"TALLYREQUEST"`
}

type tallyBody struct {
	ImportData tallyImportData `xml:"IMPORTDATA"`
}

type tallyImportData struct {
	RequestDesc tallyRequestDesc `xml:"REQUESTDESC"`
	RequestData tallyRequestData `xml:"REQUESTDATA"`
}

type tallyRequestDesc struct {
	ReportName string `xml:"REPORTNAME"`
}

type tallyRequestData struct {
	Messages []tallyMessage `xml:"TALLYMESSAGE"`
}

type tallyMessage struct {
	UDF     string        `xml:"xmlns:UDF,attr"`
	Ledger  *tallyLedger  `xml:"LEDGER,omitempty"`
	Voucher *tallyVoucher `xml:"VOUCHER,omitempty"`
}

type tallyLedger struct {
	NameAttr string `xml:"NAME,attr"`
	Action   string `xml:"ACTION,attr"`
	Name     string `xml:"NAME"`
	Parent   string `xml:"PARENT"`
}

type tallyVoucher struct {
	VchType         string       `xml:"VCHTYPE,attr"`
	Action          string       `xml:"ACTION,attr"`
	Date            string       `xml:"DATE"`
	VoucherTypeName string       `xml:"VOUCHERTYPENAME"`
	VoucherNumber   string       `xml:"VOUCHERNUMBER"`
	PartyLedgerName string       `xml:"PARTYLEDGERNAME"`
	PlaceOfSupply   string       `xml:"PLACEOFSUPPLY,omitempty"`
	Narration       string       `xml:"NARRATION,omitempty"`
	Entries         []tallyEntry `xml:"ALLLEDGERENTRIES.LIST"`
}

// tallyEntry follows Tally's sign convention: credits are positive amounts
// with ISDEEMEDPOSITIVE No, debits negative with ISDEEMEDPOSITIVE Yes.
type tallyEntry struct {
	LedgerName       string `xml:"LEDGERNAME"`
	IsDeemedPositive string `xml:"ISDEEMEDPOSITIVE"`
	Amount           string `xml:"AMOUNT"`
}

// tallyFragment is the per-invoice intermediate: the masters the voucher
// references plus the voucher itself.
type tallyFragment struct {
	masters []tallyLedger
	voucher tallyVoucher
}

func (e *tallyEncoder) EncodeInvoice(inv *EnrichedInvoice) (Fragment, error) {
	if err := checkRequired(e.Kind(), "vendor_name", inv.VendorName); err != nil {
		return nil, err
	}
	if err := checkRequired(e.Kind(), "invoice_number", inv.InvoiceNumber); err != nil {
		return nil, err
	}
	for _, f := range []struct{ name, value string }{
		{"vendor_name", inv.VendorName},
		{"invoice_number", inv.InvoiceNumber},
		{"notes", inv.Notes},
	} {
		if err := checkField(e.Kind(), f.name, f.value); err != nil {
			return nil, err
		}
	}

	frag := tallyFragment{}
	for _, l := range ledgerList(inv) {
		frag.masters = append(frag.masters, tallyLedger{
			NameAttr: l.Name,
			Action:   "Create",
			Name:     l.Name,
			Parent:   l.Group,
		})
	}

	voucher := tallyVoucher{
		VchType:         "Purchase",
		Action:          "Create",
		Date:            inv.InvoiceDate.Format("20060102"),
		VoucherTypeName: "Purchase",
		VoucherNumber:   inv.InvoiceNumber,
		PartyLedgerName: inv.Ledgers.Party.Name,
		PlaceOfSupply:   inv.PlaceName,
		Narration:       inv.Notes,
		Entries: []tallyEntry{
			{
				LedgerName:       inv.Ledgers.Party.Name,
				IsDeemedPositive: "No",
				Amount:           formatPaise(inv.GrandTotal),
			},
		},
	}

	// One debit per line item against its rate's purchase ledger.
	for _, li := range inv.LineItems {
		voucher.Entries = append(voucher.Entries, tallyEntry{
			LedgerName:       ledger.ExpenseLedgerName(li.TaxPct),
			IsDeemedPositive: "Yes",
			Amount:           formatPaise(-li.LineTotal),
		})
	}

	// GST debits per distinct rate, reconciled against the invoice totals.
	for _, b := range splitByRate(inv) {
		if b.CGST > 0 {
			voucher.Entries = append(voucher.Entries, tallyEntry{
				LedgerName:       ledger.CGSTLedgerName(b.RateBP),
				IsDeemedPositive: "Yes",
				Amount:           formatPaise(-b.CGST),
			})
		}
		if b.SGST > 0 {
			voucher.Entries = append(voucher.Entries, tallyEntry{
				LedgerName:       ledger.SGSTLedgerName(b.RateBP),
				IsDeemedPositive: "Yes",
				Amount:           formatPaise(-b.SGST),
			})
		}
		if b.IGST > 0 {
			voucher.Entries = append(voucher.Entries, tallyEntry{
				LedgerName:       ledger.IGSTLedgerName(b.RateBP),
				IsDeemedPositive: "Yes",
				Amount:           formatPaise(-b.IGST),
			})
		}
	}

	if inv.DiscountTotal > 0 {
		voucher.Entries = append(voucher.Entries, tallyEntry{
			LedgerName:       ledger.DiscountLedger,
			IsDeemedPositive: "No",
			Amount:           formatPaise(inv.DiscountTotal),
		})
	}

	frag.voucher = voucher
	return frag, nil
}

func (e *tallyEncoder) Assemble(frags []Fragment) ([]byte, error) {
	var buf bytes.Buffer

	if e.separate {
		for _, f := range frags {
			frag := f.(tallyFragment)
			if err := writeEnvelope(&buf, e.messages([]tallyFragment{frag})); err != nil {
				return nil, err
			}
		}
		return buf.Bytes(), nil
	}

	typed := make([]tallyFragment, len(frags))
	for i, f := range frags {
		typed[i] = f.(tallyFragment)
	}
	if err := writeEnvelope(&buf, e.messages(typed)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// messages lays out masters first (deduplicated by name, first occurrence
// wins) then vouchers in input order.
func (e *tallyEncoder) messages(frags []tallyFragment) []tallyMessage {
	var msgs []tallyMessage
	seen := make(map[string]bool)

	for _, frag := range frags {
		for i := range frag.masters {
			if seen[frag.masters[i].Name] {
				continue
			}
			seen[frag.masters[i].Name] = true
			m := frag.masters[i]
			msgs = append(msgs, tallyMessage{UDF: "TallyUDF", Ledger: &m})
		}
	}
	for _, frag := range frags {
		v := frag.voucher
		msgs = append(msgs, tallyMessage{UDF: "TallyUDF", Voucher: &v})
	}

	return msgs
}

func writeEnvelope(buf *bytes.Buffer, msgs []tallyMessage) error {
	env := tallyEnvelope{
		Header: tallyHead{TallyRequest: "Import Data"},
		Body: tallyBody{
			ImportData: tallyImportData{
				RequestDesc: tallyRequestDesc{ReportName: "Vouchers"},
				RequestData: tallyRequestData{Messages: msgs},
			},
		},
	}

	data, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return &SystemError{Op: "tally marshal", Err: err}
	}

	buf.WriteString(xml.Header)
	buf.Write(data)
	buf.WriteByte('\n')
	return nil
}

// ledgerList flattens the invoice's ledger set, party first, then GST and
// expense ledgers, plus the discount ledger when the invoice carries one.
func ledgerList(inv *EnrichedInvoice) []ledger.Ledger {
	out := []ledger.Ledger{inv.Ledgers.Party}
	out = append(out, inv.Ledgers.GST...)
	out = append(out, inv.Ledgers.Expense...)
	if inv.DiscountTotal > 0 {
		out = append(out, ledger.Ledger{Name: ledger.DiscountLedger, Group: ledger.GroupIndirectIncomes})
	}
	return out
}
