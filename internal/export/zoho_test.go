package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZohoCSV_ExactColumnContract(t *testing.T) {
	require.Len(t, zohoCSVColumns, 37)

	enc := newZohoCSVEncoder()
	frag, err := enc.EncodeInvoice(enrich(intrastateInvoice()))
	require.NoError(t, err)

	data, err := enc.Assemble([]Fragment{frag})
	require.NoError(t, err)

	rows := csvRows(t, data)
	require.Len(t, rows, 3) // header + one row per line item
	assert.Equal(t, zohoCSVColumns, rows[0])
	for _, row := range rows[1:] {
		assert.Len(t, row, 37)
	}
}

func TestZohoCSV_HeaderAndLineFields(t *testing.T) {
	inv := intrastateInvoice()
	due := date(2025, time.May, 15)
	inv.DueDate = &due
	inv.PaymentTerms = "Net 30"

	enc := newZohoCSVEncoder()
	frag, err := enc.EncodeInvoice(enrich(inv))
	require.NoError(t, err)
	data, err := enc.Assemble([]Fragment{frag})
	require.NoError(t, err)

	rows := csvRows(t, data)
	steel := rows[1]

	assert.Equal(t, "INV-2025-0042", steel[0])
	assert.Equal(t, "15-Apr-2025", steel[1])
	assert.Equal(t, "15-May-2025", steel[2])
	assert.Equal(t, "business_gst", steel[3])
	assert.Equal(t, "29ABCDE1234F1Z5", steel[4])
	assert.Equal(t, "Karnataka", steel[5])
	assert.Equal(t, "INR", steel[6])
	assert.Equal(t, "1.00", steel[7])
	assert.Equal(t, "Net 30", steel[8])

	// Line-item block.
	assert.Equal(t, "Steel rods", steel[12])
	assert.Equal(t, "7214", steel[14])
	assert.Equal(t, "10", steel[15])
	assert.Equal(t, "NOS", steel[16])
	assert.Equal(t, "100.00", steel[17])
	assert.Equal(t, "180.00", steel[19]) // total line tax at 18%
	assert.Equal(t, "18", steel[20])
	assert.Equal(t, "GST", steel[21])
	assert.Equal(t, "90.00", steel[23]) // CGST
	assert.Equal(t, "90.00", steel[24]) // SGST
	assert.Equal(t, "0.00", steel[25])  // IGST
	assert.Equal(t, "1180.00", steel[26])

	// Address block carries the resolved state.
	assert.Equal(t, "Karnataka", steel[29])
	assert.Equal(t, "India", steel[30])

	// Totals block repeats per row.
	assert.Equal(t, "1400.00", steel[33])
	assert.Equal(t, "0.00", steel[34])
	assert.Equal(t, "228.00", steel[35])
	assert.Equal(t, "1628.00", steel[36])
}

func TestZohoCSV_InterstateTaxType(t *testing.T) {
	enc := newZohoCSVEncoder()
	frag, err := enc.EncodeInvoice(enrich(interstateInvoice()))
	require.NoError(t, err)
	data, err := enc.Assemble([]Fragment{frag})
	require.NoError(t, err)

	rows := csvRows(t, data)
	row := rows[1]
	assert.Equal(t, "IGST", row[21])
	assert.Equal(t, "450.00", row[25])
	assert.Equal(t, "0.00", row[23])
}

func TestZohoCSV_NonGSTExemptionReason(t *testing.T) {
	enc := newZohoCSVEncoder()
	frag, err := enc.EncodeInvoice(enrich(nonGSTInvoice()))
	require.NoError(t, err)
	data, err := enc.Assemble([]Fragment{frag})
	require.NoError(t, err)

	rows := csvRows(t, data)
	row := rows[1]
	assert.Equal(t, "out_of_scope", row[3])
	assert.Equal(t, "", row[21])
	assert.Equal(t, "NON-GST SUPPLY", row[22])
}
