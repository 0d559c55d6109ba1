package export

import (
	"gstexport/internal/gst"
	"gstexport/pkg/models"
)

// subtotalTolerance is the rounding slack, in paise, allowed between the
// sum of line totals and the invoice subtotal.
const subtotalTolerance = 1

// Validate checks every invariant on a canonical invoice and returns all
// violations at once, so the caller can report a complete error list per
// invoice. A nil result means the invoice is exportable.
//
// A missing buyer GSTIN is deliberately not an error here; the jurisdiction
// resolver falls back to the vendor state and surfaces a warning instead.
func Validate(inv *models.CanonicalInvoice) []error {
	var errs []error

	if inv.VendorName == "" {
		errs = append(errs, NewValidationError("vendor_name", nil, "vendor name is required"))
	}
	if inv.InvoiceNumber == "" {
		errs = append(errs, NewValidationError("invoice_number", nil, "invoice number is required"))
	}
	if inv.InvoiceDate.IsZero() {
		errs = append(errs, NewValidationError("invoice_date", nil, "invoice date is required"))
	}
	if len(inv.LineItems) == 0 {
		errs = append(errs, NewValidationError("line_items", nil, "at least one line item is required"))
	}

	if inv.VendorGSTIN != "" && !gst.ValidGSTIN(inv.VendorGSTIN) {
		errs = append(errs, NewValidationError("vendor_gstin", inv.VendorGSTIN, "malformed GSTIN"))
	}
	if inv.BuyerGSTIN != "" && !gst.ValidGSTIN(inv.BuyerGSTIN) {
		errs = append(errs, NewValidationError("buyer_gstin", inv.BuyerGSTIN, "malformed GSTIN"))
	}

	// Line totals must reconcile with the subtotal within one paisa.
	var lineSum int64
	for _, li := range inv.LineItems {
		lineSum += li.LineTotal
	}
	if len(inv.LineItems) > 0 && abs(lineSum-inv.Subtotal) > subtotalTolerance {
		errs = append(errs, NewValidationError("subtotal", formatPaise(inv.Subtotal),
			"line item totals sum to "+formatPaise(lineSum)))
	}

	// Taxes must reconcile against the totals exactly.
	taxSum := inv.CGST + inv.SGST + inv.IGST
	expected := inv.GrandTotal - inv.Subtotal + inv.DiscountTotal
	if taxSum != expected {
		errs = append(errs, NewValidationError("grand_total", formatPaise(inv.GrandTotal),
			"taxes "+formatPaise(taxSum)+" do not reconcile with totals (expected "+formatPaise(expected)+")"))
	}

	errs = append(errs, validateTaxSplit(inv)...)

	return errs
}

// validateTaxSplit enforces the CGST/SGST vs IGST exclusivity rule: exactly
// one of the two patterns holds per invoice, unless the invoice is Non-GST,
// in which case all three amounts must be zero.
func validateTaxSplit(inv *models.CanonicalInvoice) []error {
	var errs []error

	intra := inv.CGST > 0 || inv.SGST > 0
	inter := inv.IGST > 0

	if inv.TaxFree() {
		if intra || inter {
			errs = append(errs, NewValidationError("tax_pct", nil,
				"all line items are zero-rated but the invoice carries GST amounts"))
		}
		return errs
	}

	switch {
	case intra && inter:
		errs = append(errs, NewValidationError("igst", formatPaise(inv.IGST),
			"invoice carries both CGST/SGST and IGST"))
	case !intra && !inter:
		errs = append(errs, NewValidationError("cgst", nil,
			"taxed line items present but no GST amounts on the invoice"))
	case intra && (inv.CGST == 0 || inv.SGST == 0):
		errs = append(errs, NewValidationError("sgst", nil,
			"intrastate invoices must carry both CGST and SGST"))
	}

	return errs
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
