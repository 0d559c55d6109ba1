package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func excelWorkbook(t *testing.T, invs ...*EnrichedInvoice) *excelize.File {
	t.Helper()

	enc := newExcelEncoder()
	var frags []Fragment
	for _, inv := range invs {
		frag, err := enc.EncodeInvoice(inv)
		require.NoError(t, err)
		frags = append(frags, frag)
	}

	data, err := enc.Assemble(frags)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExcel_WorkbookSheets(t *testing.T) {
	f := excelWorkbook(t, enrich(intrastateInvoice()))

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{
		sheetSummary, sheetInvoiceDetails, sheetLineItems, sheetGSTAnalysis, sheetReconciliation,
	}, sheets)
}

func TestExcel_InvoiceDetailRow(t *testing.T) {
	f := excelWorkbook(t, enrich(intrastateInvoice()))

	number, err := f.GetCellValue(sheetInvoiceDetails, "A2")
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0042", number)

	mode, err := f.GetCellValue(sheetInvoiceDetails, "F2")
	require.NoError(t, err)
	assert.Equal(t, "intrastate", mode)

	grand, err := f.GetCellValue(sheetInvoiceDetails, "L2")
	require.NoError(t, err)
	assert.Equal(t, "1628", grand)
}

func TestExcel_LineItemsAcrossInvoices(t *testing.T) {
	f := excelWorkbook(t, enrich(intrastateInvoice()), enrich(interstateInvoice()))

	rows, err := f.GetRows(sheetLineItems)
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 + 1 line items

	assert.Equal(t, "Steel rods", rows[1][1])
	assert.Equal(t, "Cement bags", rows[2][1])
	assert.Equal(t, "Packaging machine", rows[3][1])
	assert.Equal(t, "BT/1107", rows[3][0])
}

func TestExcel_ReconciliationFormulas(t *testing.T) {
	f := excelWorkbook(t, enrich(discountedInvoice()))

	computed, err := f.GetCellFormula(sheetReconciliation, "C2")
	require.NoError(t, err)
	assert.Contains(t, computed, "'Invoice Details'!G2")
	assert.Contains(t, computed, "-'Invoice Details'!H2")

	diff, err := f.GetCellFormula(sheetReconciliation, "D2")
	require.NoError(t, err)
	assert.Equal(t, "B2-C2", diff)
}

func TestExcel_SummaryFormulas(t *testing.T) {
	f := excelWorkbook(t, enrich(intrastateInvoice()), enrich(interstateInvoice()))

	count, err := f.GetCellValue(sheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	total, err := f.GetCellFormula(sheetSummary, "B7")
	require.NoError(t, err)
	assert.Equal(t, "SUM('Invoice Details'!L2:L3)", total)
}
