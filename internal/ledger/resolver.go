// Package ledger derives deterministic ledger names and groupings for the
// ledger-based export targets (Tally, QuickBooks Desktop). Identical input
// always yields identical names, so repeated imports into the accounting
// system never create duplicate ledgers.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gstexport/internal/gst"
	"gstexport/pkg/models"
)

// Ledger groups in the target chart of accounts.
const (
	GroupSundryCreditors  = "Sundry Creditors"
	GroupDutiesAndTaxes   = "Duties & Taxes"
	GroupPurchaseAccounts = "Purchase Accounts"
)

// Accounts payable control account used by the QuickBooks IIF target.
const AccountsPayable = "Accounts Payable"

// DiscountLedger receives the discount credit when an invoice carries a
// discount total. It is grouped under indirect incomes.
const (
	DiscountLedger       = "Discount Received"
	GroupIndirectIncomes = "Indirect Incomes"
)

// Ledger is an account name and its group in the chart of accounts.
type Ledger struct {
	Name  string
	Group string
}

// Set holds all ledgers an invoice posts to.
type Set struct {
	Party   Ledger
	GST     []Ledger // one per distinct nonzero tax rate, rate-ascending
	Expense []Ledger // one per distinct tax rate, rate-ascending
}

var titleCaser = cases.Title(language.English)

// Resolve derives the ledger set for an invoice under the given tax mode.
func Resolve(inv *models.CanonicalInvoice, mode gst.TaxMode) Set {
	set := Set{
		Party: Ledger{
			Name:  PartyName(inv.VendorName),
			Group: GroupSundryCreditors,
		},
	}

	if mode == gst.NonGST {
		set.Expense = []Ledger{{Name: NonGSTPurchaseLedger, Group: GroupPurchaseAccounts}}
		return set
	}

	// A taxed invoice can still carry zero-rated lines; those post to the
	// Non-GST purchase ledger.
	for _, li := range inv.LineItems {
		if li.TaxPct == 0 {
			set.Expense = append(set.Expense, Ledger{Name: NonGSTPurchaseLedger, Group: GroupPurchaseAccounts})
			break
		}
	}

	for _, rate := range distinctRates(inv.LineItems) {
		set.Expense = append(set.Expense, Ledger{
			Name:  ExpenseLedgerName(rate),
			Group: GroupPurchaseAccounts,
		})
		switch mode {
		case gst.Intrastate:
			set.GST = append(set.GST,
				Ledger{Name: CGSTLedgerName(rate), Group: GroupDutiesAndTaxes},
				Ledger{Name: SGSTLedgerName(rate), Group: GroupDutiesAndTaxes},
			)
		case gst.Interstate:
			set.GST = append(set.GST,
				Ledger{Name: IGSTLedgerName(rate), Group: GroupDutiesAndTaxes},
			)
		}
	}

	return set
}

// NonGSTPurchaseLedger is the expense ledger for zero-rated purchases.
const NonGSTPurchaseLedger = "Purchase - Non-GST"

// ExpenseLedgerName returns the purchase ledger name for a tax rate in
// basis points.
func ExpenseLedgerName(rateBP int64) string {
	if rateBP == 0 {
		return NonGSTPurchaseLedger
	}
	return fmt.Sprintf("Purchase @%s%%", FormatPct(rateBP))
}

// CGSTLedgerName returns the CGST ledger for a full tax rate; CGST carries
// half the rate.
func CGSTLedgerName(rateBP int64) string {
	return fmt.Sprintf("CGST @%s%%", FormatPct(rateBP/2))
}

// SGSTLedgerName returns the SGST ledger for a full tax rate; SGST carries
// half the rate.
func SGSTLedgerName(rateBP int64) string {
	return fmt.Sprintf("SGST @%s%%", FormatPct(rateBP/2))
}

// IGSTLedgerName returns the IGST ledger for a full tax rate.
func IGSTLedgerName(rateBP int64) string {
	return fmt.Sprintf("IGST @%s%%", FormatPct(rateBP))
}

// PartyName normalizes a vendor name into its ledger name: whitespace
// collapsed, title-cased.
func PartyName(vendor string) string {
	return titleCaser.String(strings.Join(strings.Fields(vendor), " "))
}

// FormatPct renders a basis-point rate as a percentage string without
// trailing zeros: 1800 -> "18", 250 -> "2.5".
func FormatPct(bp int64) string {
	whole := bp / 100
	frac := bp % 100
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	s := fmt.Sprintf("%d.%02d", whole, frac)
	return strings.TrimRight(s, "0")
}

// distinctRates returns the distinct nonzero tax rates across line items in
// ascending order.
func distinctRates(items []models.LineItem) []int64 {
	seen := make(map[int64]bool)
	var rates []int64
	for _, li := range items {
		if li.TaxPct == 0 || seen[li.TaxPct] {
			continue
		}
		seen[li.TaxPct] = true
		rates = append(rates, li.TaxPct)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i] < rates[j] })
	return rates
}
