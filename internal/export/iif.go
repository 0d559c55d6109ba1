package export

import (
	"bytes"
	"fmt"
	"strings"

	"gstexport/internal/ledger"
)

// iifEncoder emits QuickBooks Desktop's tab-delimited !TRNS/!SPL/!ENDTRNS
// schema: one TRNS credit to Accounts Payable for the grand total and one
// SPL debit per expense and tax ledger. Every block is balance-checked in
// paise before it is emitted; an unbalanced block is an error, never an
// inconsistent ledger entry.
type iifEncoder struct{}

func newIIFEncoder() *iifEncoder { return &iifEncoder{} }

func (e *iifEncoder) Kind() Kind          { return KindQuickBooksIIF }
func (e *iifEncoder) ContentType() string { return "text/plain" }
func (e *iifEncoder) Extension() string   { return "iif" }

var iifHeader = []string{
	"!TRNS\tTRNSTYPE\tDATE\tACCNT\tNAME\tAMOUNT\tDOCNUM\tMEMO",
	"!SPL\tTRNSTYPE\tDATE\tACCNT\tNAME\tAMOUNT\tDOCNUM\tMEMO",
	"!ENDTRNS",
}

// iifFragment is one complete TRNS..ENDTRNS block.
type iifFragment []string

func (e *iifEncoder) EncodeInvoice(inv *EnrichedInvoice) (Fragment, error) {
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
		if err := e.checkCharset(f.name, f.value); err != nil {
			return nil, err
		}
	}

	type split struct {
		account string
		amount  int64 // paise, debit positive
	}

	var splits []split
	for _, b := range splitByRate(inv) {
		splits = append(splits, split{ledger.ExpenseLedgerName(b.RateBP), b.Taxable})
		if b.CGST > 0 {
			splits = append(splits, split{ledger.CGSTLedgerName(b.RateBP), b.CGST})
		}
		if b.SGST > 0 {
			splits = append(splits, split{ledger.SGSTLedgerName(b.RateBP), b.SGST})
		}
		if b.IGST > 0 {
			splits = append(splits, split{ledger.IGSTLedgerName(b.RateBP), b.IGST})
		}
	}
	if inv.DiscountTotal > 0 {
		splits = append(splits, split{ledger.DiscountLedger, -inv.DiscountTotal})
	}

	// The block must balance exactly in minor units before anything is
	// emitted.
	var debits int64
	for _, s := range splits {
		debits += s.amount
	}
	if debits != inv.GrandTotal {
		return nil, NewEncodingError(e.Kind(), "grand_total",
			fmt.Errorf("%w: debits %s vs credit %s",
				ErrUnbalancedEntry, formatPaise(debits), formatPaise(inv.GrandTotal)))
	}

	date := inv.InvoiceDate.Format("02/01/2006")
	vendor := inv.Ledgers.Party.Name

	frag := iifFragment{
		strings.Join([]string{
			"TRNS", "BILL", date, ledger.AccountsPayable, vendor,
			formatPaise(-inv.GrandTotal), inv.InvoiceNumber, inv.Notes,
		}, "\t"),
	}
	for _, s := range splits {
		frag = append(frag, strings.Join([]string{
			"SPL", "BILL", date, s.account, vendor,
			formatPaise(s.amount), inv.InvoiceNumber, "",
		}, "\t"))
	}
	frag = append(frag, "ENDTRNS")

	return frag, nil
}

func (e *iifEncoder) Assemble(frags []Fragment) ([]byte, error) {
	var buf bytes.Buffer
	for _, h := range iifHeader {
		buf.WriteString(h)
		buf.WriteString("\r\n")
	}
	for _, f := range frags {
		for _, line := range f.(iifFragment) {
			buf.WriteString(line)
			buf.WriteString("\r\n")
		}
	}
	return buf.Bytes(), nil
}

// checkCharset enforces the IIF charset: no control characters (tabs are
// structural) and nothing beyond Latin-1.
func (e *iifEncoder) checkCharset(field, value string) error {
	if err := checkField(e.Kind(), field, value); err != nil {
		return err
	}
	for i, r := range value {
		if r > 0xFF {
			return NewEncodingError(e.Kind(), field,
				fmt.Errorf("%w: non-Latin-1 character %q at offset %d", ErrUnsupportedCharacter, r, i))
		}
	}
	return nil
}
