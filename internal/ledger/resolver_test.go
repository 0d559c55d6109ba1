package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstexport/internal/gst"
	"gstexport/pkg/models"
)

func TestResolve_IntrastateTwoRates(t *testing.T) {
	inv := &models.CanonicalInvoice{
		VendorName: "acme   industrial supplies",
		LineItems: []models.LineItem{
			{Description: "Steel rods", TaxPct: 1800, LineTotal: 100000},
			{Description: "Cement bags", TaxPct: 1200, LineTotal: 40000},
		},
	}

	set := Resolve(inv, gst.Intrastate)

	assert.Equal(t, "Acme Industrial Supplies", set.Party.Name)
	assert.Equal(t, GroupSundryCreditors, set.Party.Group)

	require.Len(t, set.Expense, 2)
	assert.Equal(t, "Purchase @12%", set.Expense[0].Name)
	assert.Equal(t, "Purchase @18%", set.Expense[1].Name)
	assert.Equal(t, GroupPurchaseAccounts, set.Expense[0].Group)

	require.Len(t, set.GST, 4)
	assert.Equal(t, "CGST @6%", set.GST[0].Name)
	assert.Equal(t, "SGST @6%", set.GST[1].Name)
	assert.Equal(t, "CGST @9%", set.GST[2].Name)
	assert.Equal(t, "SGST @9%", set.GST[3].Name)
	for _, l := range set.GST {
		assert.Equal(t, GroupDutiesAndTaxes, l.Group)
	}
}

func TestResolve_Interstate(t *testing.T) {
	inv := &models.CanonicalInvoice{
		VendorName: "Bharat Traders",
		LineItems: []models.LineItem{
			{Description: "Machinery", TaxPct: 1800, LineTotal: 250000},
		},
	}

	set := Resolve(inv, gst.Interstate)

	require.Len(t, set.GST, 1)
	assert.Equal(t, "IGST @18%", set.GST[0].Name)
	require.Len(t, set.Expense, 1)
	assert.Equal(t, "Purchase @18%", set.Expense[0].Name)
}

func TestResolve_NonGSTUsesSingleLedger(t *testing.T) {
	inv := &models.CanonicalInvoice{
		VendorName: "Fuel Depot",
		LineItems: []models.LineItem{
			{Description: "Diesel", TaxPct: 0, LineTotal: 50000},
		},
	}

	set := Resolve(inv, gst.NonGST)

	assert.Empty(t, set.GST)
	require.Len(t, set.Expense, 1)
	assert.Equal(t, NonGSTPurchaseLedger, set.Expense[0].Name)
}

func TestResolve_MixedZeroRatedLine(t *testing.T) {
	inv := &models.CanonicalInvoice{
		VendorName: "Mixed Cart",
		LineItems: []models.LineItem{
			{Description: "Exempt item", TaxPct: 0, LineTotal: 10000},
			{Description: "Taxed item", TaxPct: 500, LineTotal: 20000},
		},
	}

	set := Resolve(inv, gst.Intrastate)

	require.Len(t, set.Expense, 2)
	assert.Equal(t, NonGSTPurchaseLedger, set.Expense[0].Name)
	assert.Equal(t, "Purchase @5%", set.Expense[1].Name)
	require.Len(t, set.GST, 2)
	assert.Equal(t, "CGST @2.5%", set.GST[0].Name)
	assert.Equal(t, "SGST @2.5%", set.GST[1].Name)
}

func TestResolve_Deterministic(t *testing.T) {
	inv := &models.CanonicalInvoice{
		VendorName: "  Acme  SUPPLIES  ",
		LineItems: []models.LineItem{
			{TaxPct: 2800, LineTotal: 10000},
			{TaxPct: 500, LineTotal: 20000},
			{TaxPct: 2800, LineTotal: 30000},
		},
	}

	first := Resolve(inv, gst.Interstate)
	second := Resolve(inv, gst.Interstate)

	assert.Equal(t, first, second)
	require.Len(t, first.GST, 2)
	assert.Equal(t, "IGST @5%", first.GST[0].Name)
	assert.Equal(t, "IGST @28%", first.GST[1].Name)
}

func TestPartyName(t *testing.T) {
	assert.Equal(t, "Acme Supplies", PartyName("acme supplies"))
	assert.Equal(t, "Acme Supplies", PartyName("  ACME   SUPPLIES  "))
	assert.Equal(t, "Sri Ram & Co", PartyName("sri ram & co"))
}

func TestFormatPct(t *testing.T) {
	assert.Equal(t, "18", FormatPct(1800))
	assert.Equal(t, "2.5", FormatPct(250))
	assert.Equal(t, "0.25", FormatPct(25))
	assert.Equal(t, "0", FormatPct(0))
}
