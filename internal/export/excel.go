package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gstexport/internal/ledger"
)

// excelEncoder builds a review workbook: a Summary sheet, per-invoice and
// per-line detail sheets, a GST analysis by rate, and a Reconciliation sheet
// whose difference column is computed by spreadsheet formulas. The formulas
// recompute inside the spreadsheet tool, so a reviewer can verify totals
// without trusting the generator.
type excelEncoder struct{}

func newExcelEncoder() *excelEncoder { return &excelEncoder{} }

func (e *excelEncoder) Kind() Kind { return KindExcel }
func (e *excelEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (e *excelEncoder) Extension() string { return "xlsx" }

const (
	sheetSummary        = "Summary"
	sheetInvoiceDetails = "Invoice Details"
	sheetLineItems      = "Line Items"
	sheetGSTAnalysis    = "GST Analysis"
	sheetReconciliation = "Reconciliation"
)

// excelFragment carries one invoice's rows for every sheet. Amounts are in
// rupees because spreadsheet cells hold display values, not minor units.
type excelFragment struct {
	invoice excelInvoiceRow
	items   []excelItemRow
	gst     []excelGSTRow
}

type excelInvoiceRow struct {
	Number        string
	Date          string
	Vendor        string
	GSTIN         string
	PlaceOfSupply string
	TaxMode       string
	Subtotal      float64
	Discount      float64
	CGST          float64
	SGST          float64
	IGST          float64
	GrandTotal    float64
}

type excelItemRow struct {
	Invoice     string
	Description string
	HSN         string
	Quantity    string
	Unit        string
	Rate        float64
	DiscountPct string
	TaxPct      string
	LineTotal   float64
}

type excelGSTRow struct {
	Invoice string
	RatePct string
	Taxable float64
	CGST    float64
	SGST    float64
	IGST    float64
}

func (e *excelEncoder) EncodeInvoice(inv *EnrichedInvoice) (Fragment, error) {
	if err := checkRequired(e.Kind(), "invoice_number", inv.InvoiceNumber); err != nil {
		return nil, err
	}
	if err := checkRequired(e.Kind(), "vendor_name", inv.VendorName); err != nil {
		return nil, err
	}
	for _, f := range []struct{ name, value string }{
		{"vendor_name", inv.VendorName},
		{"invoice_number", inv.InvoiceNumber},
	} {
		if err := checkField(e.Kind(), f.name, f.value); err != nil {
			return nil, err
		}
	}

	frag := excelFragment{
		invoice: excelInvoiceRow{
			Number:        inv.InvoiceNumber,
			Date:          inv.InvoiceDate.Format("2006-01-02"),
			Vendor:        inv.VendorName,
			GSTIN:         inv.VendorGSTIN,
			PlaceOfSupply: string(inv.PlaceOfSupply),
			TaxMode:       string(inv.TaxMode),
			Subtotal:      paiseToRupees(inv.Subtotal),
			Discount:      paiseToRupees(inv.DiscountTotal),
			CGST:          paiseToRupees(inv.CGST),
			SGST:          paiseToRupees(inv.SGST),
			IGST:          paiseToRupees(inv.IGST),
			GrandTotal:    paiseToRupees(inv.GrandTotal),
		},
	}

	for _, li := range inv.LineItems {
		frag.items = append(frag.items, excelItemRow{
			Invoice:     inv.InvoiceNumber,
			Description: li.Description,
			HSN:         li.HSNSACCode,
			Quantity:    formatQuantity(li.Quantity),
			Unit:        li.Unit,
			Rate:        paiseToRupees(li.Rate),
			DiscountPct: pctOrEmpty(li.DiscountPct),
			TaxPct:      pctOrEmpty(li.TaxPct),
			LineTotal:   paiseToRupees(li.LineTotal),
		})
	}

	for _, b := range splitByRate(inv) {
		frag.gst = append(frag.gst, excelGSTRow{
			Invoice: inv.InvoiceNumber,
			RatePct: ledger.FormatPct(b.RateBP),
			Taxable: paiseToRupees(b.Taxable),
			CGST:    paiseToRupees(b.CGST),
			SGST:    paiseToRupees(b.SGST),
			IGST:    paiseToRupees(b.IGST),
		})
	}

	return frag, nil
}

func (e *excelEncoder) Assemble(frags []Fragment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, name := range []string{sheetSummary, sheetInvoiceDetails, sheetLineItems, sheetGSTAnalysis, sheetReconciliation} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, &SystemError{Op: "excel sheet", Err: err}
		}
	}
	f.DeleteSheet("Sheet1")

	typed := make([]excelFragment, len(frags))
	for i, fr := range frags {
		typed[i] = fr.(excelFragment)
	}

	if err := e.writeInvoiceDetails(f, typed); err != nil {
		return nil, err
	}
	if err := e.writeLineItems(f, typed); err != nil {
		return nil, err
	}
	if err := e.writeGSTAnalysis(f, typed); err != nil {
		return nil, err
	}
	if err := e.writeReconciliation(f, typed); err != nil {
		return nil, err
	}
	if err := e.writeSummary(f, typed); err != nil {
		return nil, err
	}

	idx, err := f.GetSheetIndex(sheetSummary)
	if err != nil {
		return nil, &SystemError{Op: "excel sheet index", Err: err}
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &SystemError{Op: "excel write", Err: err}
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return &SystemError{Op: "excel cell", Err: err}
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return &SystemError{Op: "excel row", Err: err}
	}
	return nil
}

func (e *excelEncoder) writeInvoiceDetails(f *excelize.File, frags []excelFragment) error {
	if err := setRow(f, sheetInvoiceDetails, 1, []interface{}{
		"Invoice Number", "Invoice Date", "Vendor", "GSTIN", "Place of Supply",
		"Tax Mode", "Subtotal", "Discount", "CGST", "SGST", "IGST", "Grand Total",
	}); err != nil {
		return err
	}

	for i, fr := range frags {
		r := fr.invoice
		if err := setRow(f, sheetInvoiceDetails, i+2, []interface{}{
			r.Number, r.Date, r.Vendor, r.GSTIN, r.PlaceOfSupply,
			r.TaxMode, r.Subtotal, r.Discount, r.CGST, r.SGST, r.IGST, r.GrandTotal,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *excelEncoder) writeLineItems(f *excelize.File, frags []excelFragment) error {
	if err := setRow(f, sheetLineItems, 1, []interface{}{
		"Invoice Number", "Description", "HSN/SAC", "Quantity", "Unit",
		"Rate", "Discount %", "Tax %", "Line Total",
	}); err != nil {
		return err
	}

	row := 2
	for _, fr := range frags {
		for _, it := range fr.items {
			if err := setRow(f, sheetLineItems, row, []interface{}{
				it.Invoice, it.Description, it.HSN, it.Quantity, it.Unit,
				it.Rate, it.DiscountPct, it.TaxPct, it.LineTotal,
			}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (e *excelEncoder) writeGSTAnalysis(f *excelize.File, frags []excelFragment) error {
	if err := setRow(f, sheetGSTAnalysis, 1, []interface{}{
		"Invoice Number", "Tax Rate %", "Taxable Amount", "CGST", "SGST", "IGST",
	}); err != nil {
		return err
	}

	row := 2
	for _, fr := range frags {
		for _, g := range fr.gst {
			if err := setRow(f, sheetGSTAnalysis, row, []interface{}{
				g.Invoice, g.RatePct, g.Taxable, g.CGST, g.SGST, g.IGST,
			}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

// writeReconciliation recomputes each invoice's grand total with a formula
// over the detail columns. A nonzero Difference cell flags an invoice whose
// stored totals disagree with its components.
func (e *excelEncoder) writeReconciliation(f *excelize.File, frags []excelFragment) error {
	if err := setRow(f, sheetReconciliation, 1, []interface{}{
		"Invoice Number", "Recorded Grand Total", "Computed Grand Total", "Difference",
	}); err != nil {
		return err
	}

	for i, fr := range frags {
		row := i + 2
		if err := setRow(f, sheetReconciliation, row, []interface{}{
			fr.invoice.Number, fr.invoice.GrandTotal,
		}); err != nil {
			return err
		}

		// Subtotal - Discount + CGST + SGST + IGST from the detail sheet.
		detail := fmt.Sprintf("'%s'!", sheetInvoiceDetails)
		computed := fmt.Sprintf("%[1]sG%[2]d-%[1]sH%[2]d+%[1]sI%[2]d+%[1]sJ%[2]d+%[1]sK%[2]d", detail, row)
		if err := f.SetCellFormula(sheetReconciliation, fmt.Sprintf("C%d", row), computed); err != nil {
			return &SystemError{Op: "excel formula", Err: err}
		}
		if err := f.SetCellFormula(sheetReconciliation, fmt.Sprintf("D%d", row),
			fmt.Sprintf("B%d-C%d", row, row)); err != nil {
			return &SystemError{Op: "excel formula", Err: err}
		}
	}
	return nil
}

func (e *excelEncoder) writeSummary(f *excelize.File, frags []excelFragment) error {
	n := len(frags)
	last := n + 1

	rows := []struct {
		label   string
		value   interface{}
		formula string
	}{
		{label: "Invoice Count", value: n},
		{label: "Subtotal", formula: sumFormula(sheetInvoiceDetails, "G", last)},
		{label: "Discount Total", formula: sumFormula(sheetInvoiceDetails, "H", last)},
		{label: "CGST Total", formula: sumFormula(sheetInvoiceDetails, "I", last)},
		{label: "SGST Total", formula: sumFormula(sheetInvoiceDetails, "J", last)},
		{label: "IGST Total", formula: sumFormula(sheetInvoiceDetails, "K", last)},
		{label: "Grand Total", formula: sumFormula(sheetInvoiceDetails, "L", last)},
	}

	for i, r := range rows {
		row := i + 1
		if err := f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), r.label); err != nil {
			return &SystemError{Op: "excel summary", Err: err}
		}
		if r.formula != "" {
			if err := f.SetCellFormula(sheetSummary, fmt.Sprintf("B%d", row), r.formula); err != nil {
				return &SystemError{Op: "excel formula", Err: err}
			}
			continue
		}
		if err := f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), r.value); err != nil {
			return &SystemError{Op: "excel summary", Err: err}
		}
	}
	return nil
}

func sumFormula(sheet, col string, lastRow int) string {
	if lastRow < 2 {
		return "0"
	}
	return fmt.Sprintf("SUM('%s'!%s2:%s%d)", sheet, col, col, lastRow)
}
