package export

import (
	"sort"

	"github.com/rs/zerolog"

	"gstexport/internal/gst"
	"gstexport/internal/ledger"
	"gstexport/internal/logger"
	"gstexport/pkg/models"
)

// EnrichedInvoice is a canonical invoice plus everything the encoders need:
// resolved jurisdiction and deterministic ledger names. It is built fresh
// per export call and never mutated afterward.
type EnrichedInvoice struct {
	models.CanonicalInvoice

	PlaceOfSupply gst.StateCode
	PlaceName     string
	TaxMode       gst.TaxMode
	Ledgers       ledger.Set
}

// Enricher turns validated canonical invoices into enriched ones.
type Enricher struct {
	resolver *gst.Resolver
	log      zerolog.Logger
}

// NewEnricher creates an enricher backed by the given state table.
func NewEnricher(states gst.StateTable) *Enricher {
	return &Enricher{
		resolver: gst.NewResolver(states),
		log:      logger.WithComponent("enricher"),
	}
}

// Enrich resolves jurisdiction and ledger names for one invoice. Warnings
// (e.g. a vendor-state fallback for a missing buyer GSTIN) are returned for
// the batch report; enrichment itself never fails a valid invoice.
func (e *Enricher) Enrich(inv *models.CanonicalInvoice) (*EnrichedInvoice, []string) {
	jur, warnings := e.resolver.Resolve(inv)

	return &EnrichedInvoice{
		CanonicalInvoice: *inv,
		PlaceOfSupply:    jur.PlaceOfSupply,
		PlaceName:        jur.PlaceName,
		TaxMode:          jur.TaxMode,
		Ledgers:          ledger.Resolve(inv, jur.TaxMode),
	}, warnings
}

// rateBucket aggregates the taxable base and allocated tax amounts for one
// distinct tax rate. The ledger-based encoders post one expense entry and
// one set of GST entries per bucket.
type rateBucket struct {
	RateBP  int64 // tax rate in basis points; 0 for Non-GST
	Taxable int64 // sum of line totals at this rate, paise
	CGST    int64
	SGST    int64
	IGST    int64
}

// splitByRate groups line items by tax rate and allocates the invoice-level
// GST totals across the rates in proportion to each rate's expected tax.
// Rounding remainders land in the bucket with the largest taxable base, so
// the bucket sums always reconcile exactly with the invoice totals.
func splitByRate(inv *EnrichedInvoice) []rateBucket {
	byRate := make(map[int64]int64)
	for _, li := range inv.LineItems {
		byRate[li.TaxPct] += li.LineTotal
	}

	rates := make([]int64, 0, len(byRate))
	for r := range byRate {
		rates = append(rates, r)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i] < rates[j] })

	buckets := make([]rateBucket, len(rates))
	for i, r := range rates {
		buckets[i] = rateBucket{RateBP: r, Taxable: byRate[r]}
	}

	switch inv.TaxMode {
	case gst.Intrastate:
		allocate(buckets, inv.CGST, func(b *rateBucket, v int64) { b.CGST = v }, halfRateTax)
		allocate(buckets, inv.SGST, func(b *rateBucket, v int64) { b.SGST = v }, halfRateTax)
	case gst.Interstate:
		allocate(buckets, inv.IGST, func(b *rateBucket, v int64) { b.IGST = v }, fullRateTax)
	}

	return buckets
}

func fullRateTax(b rateBucket) int64 {
	return roundDiv(b.Taxable*b.RateBP, 10000)
}

func halfRateTax(b rateBucket) int64 {
	return roundDiv(b.Taxable*b.RateBP, 20000)
}

// allocate distributes total across buckets using expected as the raw
// per-bucket amount, then pushes the rounding remainder into the bucket
// with the largest taxable base.
func allocate(buckets []rateBucket, total int64, set func(*rateBucket, int64), expected func(rateBucket) int64) {
	if total == 0 {
		return
	}

	var sum int64
	largest := -1
	for i := range buckets {
		if buckets[i].RateBP == 0 {
			continue
		}
		v := expected(buckets[i])
		set(&buckets[i], v)
		sum += v
		if largest < 0 || buckets[i].Taxable > buckets[largest].Taxable {
			largest = i
		}
	}

	if diff := total - sum; diff != 0 && largest >= 0 {
		set(&buckets[largest], expected(buckets[largest])+diff)
	}
}

// roundDiv divides with round-half-up semantics on non-negative input.
func roundDiv(n, d int64) int64 {
	return (n + d/2) / d
}
