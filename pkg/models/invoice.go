package models

import "time"

// CanonicalInvoice is the input data contract for the export engine. It is
// produced by the extraction pipeline, consumed once per export request and
// never mutated by the engine.
//
// All monetary fields are minor-unit integers (paise) to avoid float drift.
type CanonicalInvoice struct {
	// Parties
	VendorName  string `json:"vendor_name"`
	VendorGSTIN string `json:"vendor_gstin"` // 15 characters or empty

	// Buyer location, both optional
	BuyerGSTIN            string `json:"buyer_gstin,omitempty"`
	DeclaredPlaceOfSupply string `json:"declared_place_of_supply,omitempty"` // 2-digit state code

	// Identifiers and dates
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   time.Time  `json:"invoice_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`

	LineItems []LineItem `json:"line_items"`

	// Totals in paise
	Subtotal      int64 `json:"subtotal"`
	CGST          int64 `json:"cgst"`
	SGST          int64 `json:"sgst"`
	IGST          int64 `json:"igst"`
	DiscountTotal int64 `json:"discount_total"`
	GrandTotal    int64 `json:"grand_total"`

	// Optional metadata
	PaymentTerms string `json:"payment_terms,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// LineItem is a single invoice line.
//
// Quantity is stored in thousandths of a unit, Rate and LineTotal in paise,
// and the percentage fields in basis points (18% == 1800). LineTotal is the
// taxable value of the line, before GST.
type LineItem struct {
	Description string `json:"description"`
	HSNSACCode  string `json:"hsn_sac_code"`
	Quantity    int64  `json:"quantity"`
	Unit        string `json:"unit"`
	Rate        int64  `json:"rate"`
	DiscountPct int64  `json:"discount_pct"`
	TaxPct      int64  `json:"tax_pct"`
	LineTotal   int64  `json:"line_total"`
}

// TaxFree reports whether every line item carries a zero tax rate, which
// classifies the invoice as Non-GST.
func (inv *CanonicalInvoice) TaxFree() bool {
	for _, li := range inv.LineItems {
		if li.TaxPct != 0 {
			return false
		}
	}
	return true
}
