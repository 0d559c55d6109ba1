package export

import (
	"gstexport/internal/gst"
	"gstexport/internal/ledger"
	"gstexport/pkg/models"
)

// quickBooksCSVColumns is QuickBooks Online's import contract: order and
// header names are fixed, one row per line item with invoice-level fields
// repeated. Any change here is a breaking change for the importer.
var quickBooksCSVColumns = []string{
	"Invoice No",
	"Invoice Date",
	"Vendor Name",
	"GST Treatment",
	"GSTIN",
	"Place of Supply",
	"HSN Code",
	"Description",
	"Quantity",
	"Unit",
	"Rate",
	"Discount %",
	"Tax %",
	"Taxable Amount",
	"CGST",
	"SGST",
	"IGST",
	"Line Total",
	"Grand Total",
}

type quickBooksCSVEncoder struct{}

func newQuickBooksCSVEncoder() *quickBooksCSVEncoder { return &quickBooksCSVEncoder{} }

func (e *quickBooksCSVEncoder) Kind() Kind          { return KindQuickBooksCSV }
func (e *quickBooksCSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }
func (e *quickBooksCSVEncoder) Extension() string   { return "csv" }

// csvFragment is the data rows one invoice contributes.
type csvFragment [][]string

func (e *quickBooksCSVEncoder) EncodeInvoice(inv *EnrichedInvoice) (Fragment, error) {
	if err := checkRequired(e.Kind(), "invoice_number", inv.InvoiceNumber); err != nil {
		return nil, err
	}
	if err := checkRequired(e.Kind(), "vendor_name", inv.VendorName); err != nil {
		return nil, err
	}
	if err := checkField(e.Kind(), "vendor_name", inv.VendorName); err != nil {
		return nil, err
	}

	date := inv.InvoiceDate.Format("02/01/2006")
	treatment := gstTreatment(inv)

	rows := make(csvFragment, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		if err := checkField(e.Kind(), "description", li.Description); err != nil {
			return nil, err
		}

		cgst, sgst, igst := lineTax(inv.TaxMode, li)
		rows = append(rows, []string{
			inv.InvoiceNumber,
			date,
			inv.VendorName,
			treatment,
			inv.VendorGSTIN,
			string(inv.PlaceOfSupply),
			li.HSNSACCode,
			li.Description,
			formatQuantity(li.Quantity),
			li.Unit,
			formatPaise(li.Rate),
			pctOrEmpty(li.DiscountPct),
			pctOrEmpty(li.TaxPct),
			formatPaise(li.LineTotal),
			formatPaise(cgst),
			formatPaise(sgst),
			formatPaise(igst),
			formatPaise(li.LineTotal + cgst + sgst + igst),
			formatPaise(inv.GrandTotal),
		})
	}

	return rows, nil
}

func (e *quickBooksCSVEncoder) Assemble(frags []Fragment) ([]byte, error) {
	rows := [][]string{quickBooksCSVColumns}
	for _, f := range frags {
		rows = append(rows, f.(csvFragment)...)
	}
	return writeCSV(rows)
}

// gstTreatment classifies the transaction the way the QuickBooks importer
// expects.
func gstTreatment(inv *EnrichedInvoice) string {
	switch {
	case inv.TaxMode == gst.NonGST:
		return "out_of_scope"
	case inv.BuyerGSTIN != "":
		return "registered_business"
	default:
		return "consumer"
	}
}

// lineTax computes the informational per-line GST amounts for CSV rows.
// Rounding reconciliation against the invoice totals only matters for the
// ledger-based targets; these columns reflect the line's own rate.
func lineTax(mode gst.TaxMode, li models.LineItem) (cgst, sgst, igst int64) {
	if li.TaxPct == 0 {
		return 0, 0, 0
	}
	switch mode {
	case gst.Intrastate:
		half := roundDiv(li.LineTotal*li.TaxPct, 20000)
		return half, half, 0
	case gst.Interstate:
		return 0, 0, roundDiv(li.LineTotal*li.TaxPct, 10000)
	default:
		return 0, 0, 0
	}
}

// pctOrEmpty renders a basis-point percentage, or an empty cell for zero.
func pctOrEmpty(bp int64) string {
	if bp == 0 {
		return ""
	}
	return ledger.FormatPct(bp)
}
