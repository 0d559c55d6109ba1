package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func universalOutput(t *testing.T, mapping map[string]string, invs ...*EnrichedInvoice) [][]string {
	t.Helper()

	enc, err := newUniversalCSVEncoder(mapping)
	require.NoError(t, err)

	var frags []Fragment
	for _, inv := range invs {
		frag, err := enc.EncodeInvoice(inv)
		require.NoError(t, err)
		frags = append(frags, frag)
	}

	data, err := enc.Assemble(frags)
	require.NoError(t, err)
	return csvRows(t, data)
}

func sectionTitles(rows [][]string) []string {
	var titles []string
	for _, row := range rows {
		if len(row) == 1 && len(row[0]) > 2 && row[0][0] == '[' {
			titles = append(titles, row[0])
		}
	}
	return titles
}

func TestUniversalCSV_AllSectionsPresent(t *testing.T) {
	rows := universalOutput(t, nil, enrich(intrastateInvoice()))

	assert.Equal(t, []string{
		"[Invoice Summary]",
		"[Vendor Details]",
		"[Line Items]",
		"[GST Breakdown]",
		"[Payment Terms]",
		"[Totals]",
		"[Notes]",
		"[Audit Trail]",
	}, sectionTitles(rows))
}

func TestUniversalCSV_DefaultLineItemColumns(t *testing.T) {
	rows := universalOutput(t, nil, enrich(intrastateInvoice()))

	var header []string
	for i, row := range rows {
		if len(row) == 1 && row[0] == "[Line Items]" {
			header = rows[i+1]
			break
		}
	}

	assert.Equal(t, []string{
		"Description", "HSN/SAC", "Quantity", "Unit",
		"Rate", "Discount %", "Tax %", "Line Total",
	}, header)
}

func TestUniversalCSV_CustomMapping(t *testing.T) {
	mapping := map[string]string{
		"Item":    "line_item.description",
		"Amount":  "line_item.line_total",
		"Account": "invoice.vendor_name",
	}

	rows := universalOutput(t, mapping, enrich(interstateInvoice()))

	var header, first []string
	for i, row := range rows {
		if len(row) == 1 && row[0] == "[Line Items]" {
			header = rows[i+1]
			first = rows[i+2]
			break
		}
	}

	// Columns come out in sorted header order.
	require.Equal(t, []string{"Account", "Amount", "Item"}, header)
	assert.Equal(t, []string{"Bharat Traders", "2500.00", "Packaging machine"}, first)
}

func TestUniversalCSV_UnknownFieldPathRejected(t *testing.T) {
	_, err := newUniversalCSVEncoder(map[string]string{
		"Item": "line_item.colour",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMapping)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestUniversalCSV_GSTBreakdownReconciles(t *testing.T) {
	rows := universalOutput(t, nil, enrich(intrastateInvoice()))

	var breakdown [][]string
	inSection := false
	for _, row := range rows {
		if len(row) == 1 && row[0] == "[GST Breakdown]" {
			inSection = true
			continue
		}
		if inSection {
			// Blank separator lines are dropped by the CSV reader, so the
			// next section title ends the block.
			if len(row) == 1 && len(row[0]) > 0 && row[0][0] == '[' {
				break
			}
			breakdown = append(breakdown, row)
		}
	}

	require.Len(t, breakdown, 3) // header + two rates
	assert.Equal(t, []string{"Tax Rate %", "Taxable Amount", "CGST", "SGST", "IGST"}, breakdown[0])
	assert.Equal(t, []string{"12", "400.00", "24.00", "24.00", "0.00"}, breakdown[1])
	assert.Equal(t, []string{"18", "1000.00", "90.00", "90.00", "0.00"}, breakdown[2])
}

func TestUniversalCSV_DeterministicAuditTrail(t *testing.T) {
	first := universalOutput(t, nil, enrich(intrastateInvoice()))
	second := universalOutput(t, nil, enrich(intrastateInvoice()))

	assert.Equal(t, first, second)
}
