package export

import (
	"gstexport/internal/gst"
	"gstexport/pkg/models"
)

// zohoCSVColumns is Zoho Books' 37-column import contract: 12 header
// fields, 15 line-item fields, 6 address fields and 4 total fields, in this
// exact order. One row is emitted per line item with invoice-level fields
// repeated, dates formatted DD-MMM-YYYY.
var zohoCSVColumns = []string{
	// Header fields (12)
	"Invoice Number",
	"Invoice Date",
	"Due Date",
	"GST Treatment",
	"GST Identification Number (GSTIN)",
	"Place of Supply",
	"Currency Code",
	"Exchange Rate",
	"Payment Terms",
	"Payment Terms Label",
	"Notes",
	"Terms & Conditions",
	// Line-item fields (15)
	"Item Name",
	"Item Description",
	"HSN/SAC",
	"Quantity",
	"Usage Unit",
	"Item Price",
	"Discount(%)",
	"Item Tax",
	"Item Tax %",
	"Item Tax Type",
	"Item Tax Exemption Reason",
	"CGST",
	"SGST",
	"IGST",
	"Item Total",
	// Address fields (6)
	"Billing Address",
	"Billing City",
	"Billing State",
	"Billing Country",
	"Billing Code",
	"Shipping Address",
	// Total fields (4)
	"Sub Total",
	"Discount Total",
	"Tax Total",
	"Total",
}

const zohoDateFormat = "02-Jan-2006"

type zohoCSVEncoder struct{}

func newZohoCSVEncoder() *zohoCSVEncoder { return &zohoCSVEncoder{} }

func (e *zohoCSVEncoder) Kind() Kind          { return KindZohoCSV }
func (e *zohoCSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }
func (e *zohoCSVEncoder) Extension() string   { return "csv" }

func (e *zohoCSVEncoder) EncodeInvoice(inv *EnrichedInvoice) (Fragment, error) {
	if err := checkRequired(e.Kind(), "invoice_number", inv.InvoiceNumber); err != nil {
		return nil, err
	}
	if err := checkRequired(e.Kind(), "vendor_name", inv.VendorName); err != nil {
		return nil, err
	}
	if err := checkField(e.Kind(), "vendor_name", inv.VendorName); err != nil {
		return nil, err
	}

	dueDate := ""
	if inv.DueDate != nil {
		dueDate = inv.DueDate.Format(zohoDateFormat)
	}
	taxTotal := inv.CGST + inv.SGST + inv.IGST

	rows := make(csvFragment, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		if err := checkField(e.Kind(), "description", li.Description); err != nil {
			return nil, err
		}

		cgst, sgst, igst := lineTax(inv.TaxMode, li)
		rows = append(rows, []string{
			// Header fields
			inv.InvoiceNumber,
			inv.InvoiceDate.Format(zohoDateFormat),
			dueDate,
			zohoGSTTreatment(inv),
			inv.VendorGSTIN,
			zohoPlaceOfSupply(inv),
			"INR",
			"1.00",
			inv.PaymentTerms,
			inv.PaymentTerms,
			inv.Notes,
			"",
			// Line-item fields
			li.Description,
			li.Description,
			li.HSNSACCode,
			formatQuantity(li.Quantity),
			li.Unit,
			formatPaise(li.Rate),
			pctOrEmpty(li.DiscountPct),
			formatPaise(cgst + sgst + igst),
			pctOrEmpty(li.TaxPct),
			zohoTaxType(inv.TaxMode, li),
			zohoExemptionReason(li),
			formatPaise(cgst),
			formatPaise(sgst),
			formatPaise(igst),
			formatPaise(li.LineTotal + cgst + sgst + igst),
			// Address fields: the canonical record carries no addresses;
			// the state is the only locatable component.
			"",
			"",
			inv.PlaceName,
			"India",
			"",
			"",
			// Total fields
			formatPaise(inv.Subtotal),
			formatPaise(inv.DiscountTotal),
			formatPaise(taxTotal),
			formatPaise(inv.GrandTotal),
		})
	}

	return rows, nil
}

func (e *zohoCSVEncoder) Assemble(frags []Fragment) ([]byte, error) {
	rows := [][]string{zohoCSVColumns}
	for _, f := range frags {
		rows = append(rows, f.(csvFragment)...)
	}
	return writeCSV(rows)
}

func zohoGSTTreatment(inv *EnrichedInvoice) string {
	switch {
	case inv.TaxMode == gst.NonGST:
		return "out_of_scope"
	case inv.VendorGSTIN != "":
		return "business_gst"
	default:
		return "business_none"
	}
}

// zohoPlaceOfSupply renders the state code with its name, e.g. "KA" style
// codes are not used by GSTIN; Zoho accepts the numeric code.
func zohoPlaceOfSupply(inv *EnrichedInvoice) string {
	if inv.PlaceName == "" {
		return string(inv.PlaceOfSupply)
	}
	return inv.PlaceName
}

func zohoTaxType(mode gst.TaxMode, li models.LineItem) string {
	if li.TaxPct == 0 {
		return ""
	}
	if mode == gst.Interstate {
		return "IGST"
	}
	return "GST"
}

func zohoExemptionReason(li models.LineItem) string {
	if li.TaxPct == 0 {
		return "NON-GST SUPPLY"
	}
	return ""
}
