package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iifOutput(t *testing.T, invs ...*EnrichedInvoice) string {
	t.Helper()

	enc := newIIFEncoder()
	var frags []Fragment
	for _, inv := range invs {
		frag, err := enc.EncodeInvoice(inv)
		require.NoError(t, err)
		frags = append(frags, frag)
	}

	data, err := enc.Assemble(frags)
	require.NoError(t, err)
	return string(data)
}

func TestIIF_HeaderAndBlockLayout(t *testing.T) {
	out := iifOutput(t, enrich(interstateInvoice()))
	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\r\n")

	require.GreaterOrEqual(t, len(lines), 7)
	assert.Equal(t, "!TRNS\tTRNSTYPE\tDATE\tACCNT\tNAME\tAMOUNT\tDOCNUM\tMEMO", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "!SPL\t"))
	assert.Equal(t, "!ENDTRNS", lines[2])

	assert.Equal(t, "TRNS\tBILL\t02/05/2025\tAccounts Payable\tBharat Traders\t-2950.00\tBT/1107\tFreight included", lines[3])
	assert.Equal(t, "SPL\tBILL\t02/05/2025\tPurchase @18%\tBharat Traders\t2500.00\tBT/1107\t", lines[4])
	assert.Equal(t, "SPL\tBILL\t02/05/2025\tIGST @18%\tBharat Traders\t450.00\tBT/1107\t", lines[5])
	assert.Equal(t, "ENDTRNS", lines[6])
}

func TestIIF_DebitsEqualCreditExactly(t *testing.T) {
	out := iifOutput(t, enrich(intrastateInvoice()), enrich(discountedInvoice()), enrich(nonGSTInvoice()))

	var debits, credits int64
	for _, line := range strings.Split(out, "\r\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 6 {
			continue
		}
		switch fields[0] {
		case "TRNS":
			credits += parsePaise(t, fields[5])
		case "SPL":
			debits += parsePaise(t, fields[5])
		}
	}

	assert.Equal(t, -credits, debits)
}

func TestIIF_DiscountIsNegativeDebit(t *testing.T) {
	out := iifOutput(t, enrich(discountedInvoice()))

	assert.Contains(t, out, "SPL\tBILL\t01/07/2025\tDiscount Received\tAcme Industrial Supplies\t-50.00\tINV-2025-0050\t")
}

func TestIIF_UnbalancedEntryRejected(t *testing.T) {
	// A one-paisa subtotal drift passes validation but cannot produce a
	// balanced ledger block.
	inv := intrastateInvoice()
	inv.Subtotal = 139999
	inv.GrandTotal = 162799
	require.Empty(t, Validate(inv))

	_, err := newIIFEncoder().EncodeInvoice(enrich(inv))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnbalancedEntry)
}

func TestIIF_NonLatin1Rejected(t *testing.T) {
	inv := intrastateInvoice()
	inv.VendorName = "Acme ₹ Supplies"

	_, err := newIIFEncoder().EncodeInvoice(enrich(inv))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedCharacter)
}

func parsePaise(t *testing.T, s string) int64 {
	t.Helper()

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.SplitN(s, ".", 2)
	require.Len(t, parts, 2)

	var v int64
	for _, r := range parts[0] + parts[1] {
		require.True(t, r >= '0' && r <= '9')
		v = v*10 + int64(r-'0')
	}
	if neg {
		v = -v
	}
	return v
}
