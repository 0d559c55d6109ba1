package export

import (
	"time"

	"gstexport/internal/gst"
	"gstexport/pkg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// intrastateInvoice has two tax rates (18% and 12%) within Karnataka, so it
// exercises per-rate ledger splitting and the CGST/SGST halving.
func intrastateInvoice() *models.CanonicalInvoice {
	return &models.CanonicalInvoice{
		VendorName:    "acme industrial supplies",
		VendorGSTIN:   "29ABCDE1234F1Z5",
		BuyerGSTIN:    "29PQRST5678G1Z3",
		InvoiceNumber: "INV-2025-0042",
		InvoiceDate:   date(2025, time.April, 15),
		LineItems: []models.LineItem{
			{
				Description: "Steel rods",
				HSNSACCode:  "7214",
				Quantity:    10000,
				Unit:        "NOS",
				Rate:        10000,
				TaxPct:      1800,
				LineTotal:   100000,
			},
			{
				Description: "Cement bags",
				HSNSACCode:  "2523",
				Quantity:    5000,
				Unit:        "BAG",
				Rate:        8000,
				TaxPct:      1200,
				LineTotal:   40000,
			},
		},
		Subtotal:   140000,
		CGST:       11400,
		SGST:       11400,
		GrandTotal: 162800,
	}
}

// interstateInvoice ships from Karnataka to Maharashtra, so it carries IGST.
func interstateInvoice() *models.CanonicalInvoice {
	return &models.CanonicalInvoice{
		VendorName:    "Bharat Traders",
		VendorGSTIN:   "29ABCDE1234F1Z5",
		BuyerGSTIN:    "27LMNOP9876H1Z8",
		InvoiceNumber: "BT/1107",
		InvoiceDate:   date(2025, time.May, 2),
		Notes:         "Freight included",
		LineItems: []models.LineItem{
			{
				Description: "Packaging machine",
				HSNSACCode:  "8422",
				Quantity:    1000,
				Unit:        "NOS",
				Rate:        250000,
				TaxPct:      1800,
				LineTotal:   250000,
			},
		},
		Subtotal:   250000,
		IGST:       45000,
		GrandTotal: 295000,
	}
}

// nonGSTInvoice is entirely zero-rated.
func nonGSTInvoice() *models.CanonicalInvoice {
	return &models.CanonicalInvoice{
		VendorName:    "City Fuel Depot",
		VendorGSTIN:   "29FUELS1234D1Z2",
		InvoiceNumber: "FD-889",
		InvoiceDate:   date(2025, time.June, 20),
		LineItems: []models.LineItem{
			{
				Description: "Diesel",
				HSNSACCode:  "2710",
				Quantity:    50000,
				Unit:        "LTR",
				Rate:        1000,
				TaxPct:      0,
				LineTotal:   50000,
			},
		},
		Subtotal:   50000,
		GrandTotal: 50000,
	}
}

// discountedInvoice carries an invoice-level discount so the grand total is
// subtotal minus discount plus taxes.
func discountedInvoice() *models.CanonicalInvoice {
	return &models.CanonicalInvoice{
		VendorName:    "Acme Industrial Supplies",
		VendorGSTIN:   "29ABCDE1234F1Z5",
		BuyerGSTIN:    "29PQRST5678G1Z3",
		InvoiceNumber: "INV-2025-0050",
		InvoiceDate:   date(2025, time.July, 1),
		LineItems: []models.LineItem{
			{
				Description: "Steel rods",
				HSNSACCode:  "7214",
				Quantity:    10000,
				Unit:        "NOS",
				Rate:        10000,
				TaxPct:      1800,
				LineTotal:   100000,
			},
		},
		Subtotal:      100000,
		CGST:          9000,
		SGST:          9000,
		DiscountTotal: 5000,
		GrandTotal:    113000,
	}
}

func enrich(inv *models.CanonicalInvoice) *EnrichedInvoice {
	enriched, _ := NewEnricher(gst.DefaultStateTable()).Enrich(inv)
	return enriched
}
