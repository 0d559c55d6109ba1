package export

import (
	"fmt"
	"sort"

	"gstexport/internal/ledger"
	"gstexport/pkg/models"
)

// engineVersion is stamped into the universal CSV audit trail. It changes
// only when the section layout or field semantics change, never per run, so
// identical input always yields identical bytes.
const engineVersion = "gstexport/1.0"

// universalField resolves one mapped source path against an invoice and the
// current line item.
type universalField func(inv *EnrichedInvoice, li models.LineItem) string

// universalFields is the full set of addressable source paths. Invoice-level
// paths repeat per row; line_item paths vary per row.
var universalFields = map[string]universalField{
	"invoice.vendor_name": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return inv.VendorName
	},
	"invoice.vendor_gstin": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return inv.VendorGSTIN
	},
	"invoice.buyer_gstin": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return inv.BuyerGSTIN
	},
	"invoice.invoice_number": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return inv.InvoiceNumber
	},
	"invoice.invoice_date": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return inv.InvoiceDate.Format("2006-01-02")
	},
	"invoice.due_date": func(inv *EnrichedInvoice, _ models.LineItem) string {
		if inv.DueDate == nil {
			return ""
		}
		return inv.DueDate.Format("2006-01-02")
	},
	"invoice.place_of_supply": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return string(inv.PlaceOfSupply)
	},
	"invoice.tax_mode": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return string(inv.TaxMode)
	},
	"invoice.payment_terms": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return inv.PaymentTerms
	},
	"invoice.notes": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return inv.Notes
	},
	"invoice.subtotal": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return formatPaise(inv.Subtotal)
	},
	"invoice.cgst": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return formatPaise(inv.CGST)
	},
	"invoice.sgst": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return formatPaise(inv.SGST)
	},
	"invoice.igst": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return formatPaise(inv.IGST)
	},
	"invoice.discount_total": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return formatPaise(inv.DiscountTotal)
	},
	"invoice.grand_total": func(inv *EnrichedInvoice, _ models.LineItem) string {
		return formatPaise(inv.GrandTotal)
	},
	"line_item.description": func(_ *EnrichedInvoice, li models.LineItem) string {
		return li.Description
	},
	"line_item.hsn_sac_code": func(_ *EnrichedInvoice, li models.LineItem) string {
		return li.HSNSACCode
	},
	"line_item.quantity": func(_ *EnrichedInvoice, li models.LineItem) string {
		return formatQuantity(li.Quantity)
	},
	"line_item.unit": func(_ *EnrichedInvoice, li models.LineItem) string {
		return li.Unit
	},
	"line_item.rate": func(_ *EnrichedInvoice, li models.LineItem) string {
		return formatPaise(li.Rate)
	},
	"line_item.discount_pct": func(_ *EnrichedInvoice, li models.LineItem) string {
		return pctOrEmpty(li.DiscountPct)
	},
	"line_item.tax_pct": func(_ *EnrichedInvoice, li models.LineItem) string {
		return pctOrEmpty(li.TaxPct)
	},
	"line_item.line_total": func(_ *EnrichedInvoice, li models.LineItem) string {
		return formatPaise(li.LineTotal)
	},
}

// mappedColumn pairs a target column header with its resolved source field.
type mappedColumn struct {
	header  string
	resolve universalField
}

// defaultUniversalMapping is the built-in line-item column set, used when no
// mapping file is configured.
var defaultUniversalMapping = []struct{ header, path string }{
	{"Description", "line_item.description"},
	{"HSN/SAC", "line_item.hsn_sac_code"},
	{"Quantity", "line_item.quantity"},
	{"Unit", "line_item.unit"},
	{"Rate", "line_item.rate"},
	{"Discount %", "line_item.discount_pct"},
	{"Tax %", "line_item.tax_pct"},
	{"Line Total", "line_item.line_total"},
}

// universalCSVEncoder emits the system-neutral sectioned CSV layout: eight
// titled sections per invoice, with the Line Items section's columns driven
// by the configured mapping. Output contains no timestamps or per-run
// identifiers, so encoding the same batch twice yields identical bytes.
type universalCSVEncoder struct {
	columns []mappedColumn
}

func newUniversalCSVEncoder(mapping map[string]string) (*universalCSVEncoder, error) {
	e := &universalCSVEncoder{}

	if len(mapping) == 0 {
		for _, m := range defaultUniversalMapping {
			e.columns = append(e.columns, mappedColumn{header: m.header, resolve: universalFields[m.path]})
		}
		return e, nil
	}

	// Custom mappings are keyed by target column name; column order is the
	// sorted header order so the artifact stays deterministic.
	headers := make([]string, 0, len(mapping))
	for h := range mapping {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	for _, h := range headers {
		path := mapping[h]
		resolve, ok := universalFields[path]
		if !ok {
			return nil, &ConfigurationError{
				Op:  "newUniversalCSVEncoder",
				Err: fmt.Errorf("%w: column %q references unknown field %q", ErrInvalidMapping, h, path),
			}
		}
		e.columns = append(e.columns, mappedColumn{header: h, resolve: resolve})
	}

	return e, nil
}

func (e *universalCSVEncoder) Kind() Kind          { return KindUniversalCSV }
func (e *universalCSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }
func (e *universalCSVEncoder) Extension() string   { return "csv" }

func (e *universalCSVEncoder) EncodeInvoice(inv *EnrichedInvoice) (Fragment, error) {
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

	var rows csvFragment

	section := func(title string, body ...[]string) {
		rows = append(rows, []string{"[" + title + "]"})
		rows = append(rows, body...)
		rows = append(rows, []string{})
	}

	section("Invoice Summary",
		[]string{"Invoice Number", inv.InvoiceNumber},
		[]string{"Invoice Date", inv.InvoiceDate.Format("2006-01-02")},
		[]string{"Due Date", universalFields["invoice.due_date"](inv, models.LineItem{})},
		[]string{"Tax Mode", string(inv.TaxMode)},
	)

	section("Vendor Details",
		[]string{"Vendor Name", inv.VendorName},
		[]string{"Vendor GSTIN", inv.VendorGSTIN},
		[]string{"Buyer GSTIN", inv.BuyerGSTIN},
		[]string{"Place of Supply", string(inv.PlaceOfSupply)},
		[]string{"Place of Supply Name", inv.PlaceName},
	)

	header := make([]string, len(e.columns))
	for i, c := range e.columns {
		header[i] = c.header
	}
	items := [][]string{header}
	for _, li := range inv.LineItems {
		if err := checkField(e.Kind(), "description", li.Description); err != nil {
			return nil, err
		}
		row := make([]string, len(e.columns))
		for i, c := range e.columns {
			row[i] = c.resolve(inv, li)
		}
		items = append(items, row)
	}
	section("Line Items", items...)

	breakdown := [][]string{{"Tax Rate %", "Taxable Amount", "CGST", "SGST", "IGST"}}
	for _, b := range splitByRate(inv) {
		breakdown = append(breakdown, []string{
			ledger.FormatPct(b.RateBP),
			formatPaise(b.Taxable),
			formatPaise(b.CGST),
			formatPaise(b.SGST),
			formatPaise(b.IGST),
		})
	}
	section("GST Breakdown", breakdown...)

	section("Payment Terms",
		[]string{"Payment Terms", inv.PaymentTerms},
	)

	section("Totals",
		[]string{"Subtotal", formatPaise(inv.Subtotal)},
		[]string{"Discount Total", formatPaise(inv.DiscountTotal)},
		[]string{"CGST", formatPaise(inv.CGST)},
		[]string{"SGST", formatPaise(inv.SGST)},
		[]string{"IGST", formatPaise(inv.IGST)},
		[]string{"Grand Total", formatPaise(inv.GrandTotal)},
	)

	section("Notes",
		[]string{"Notes", inv.Notes},
	)

	section("Audit Trail",
		[]string{"Engine", engineVersion},
		[]string{"Source Invoice", inv.InvoiceNumber},
		[]string{"Line Item Count", fmt.Sprintf("%d", len(inv.LineItems))},
	)

	return rows, nil
}

func (e *universalCSVEncoder) Assemble(frags []Fragment) ([]byte, error) {
	var rows [][]string
	for _, f := range frags {
		rows = append(rows, f.(csvFragment)...)
	}
	return writeCSV(rows)
}
