package gst

import (
	"fmt"

	"github.com/rs/zerolog"

	"gstexport/internal/logger"
	"gstexport/pkg/models"
)

// TaxMode classifies how GST applies to an invoice.
type TaxMode string

const (
	// Intrastate transactions are taxed as CGST + SGST.
	Intrastate TaxMode = "intrastate"
	// Interstate transactions are taxed as IGST.
	Interstate TaxMode = "interstate"
	// NonGST invoices carry a zero tax rate on every line item.
	NonGST TaxMode = "non-gst"
)

// Jurisdiction is the resolved place of supply and tax classification for
// one invoice.
type Jurisdiction struct {
	PlaceOfSupply StateCode
	PlaceName     string
	VendorState   StateCode
	TaxMode       TaxMode
}

// Resolver derives the place of supply and the intra-/inter-state tax split
// from GSTIN state codes. It is pure and safe for concurrent use; the state
// table is read-only.
type Resolver struct {
	states StateTable
	log    zerolog.Logger
}

// NewResolver creates a jurisdiction resolver backed by the given state
// table.
func NewResolver(states StateTable) *Resolver {
	return &Resolver{
		states: states,
		log:    logger.WithComponent("gst-resolver"),
	}
}

// Resolve determines the place of supply and tax mode for an invoice.
//
// Precedence: an explicit declared place of supply always wins since it
// reflects business intent (billing vs. shipping divergence); the buyer
// GSTIN prefix comes next; the vendor's own state is the last resort and is
// flagged with a warning rather than failing the export. GST compliance
// nuances surface as reviewable warnings, never as aborts.
func (r *Resolver) Resolve(inv *models.CanonicalInvoice) (Jurisdiction, []string) {
	var warnings []string

	vendorState := GSTINState(inv.VendorGSTIN)

	var place StateCode
	switch {
	case inv.DeclaredPlaceOfSupply != "":
		place = StateCode(inv.DeclaredPlaceOfSupply)
	case inv.BuyerGSTIN != "":
		place = GSTINState(inv.BuyerGSTIN)
	case vendorState != "":
		place = vendorState
		warnings = append(warnings,
			"no buyer GSTIN or declared place of supply; assuming vendor state "+string(vendorState))
	default:
		warnings = append(warnings,
			"place of supply could not be resolved: no declared place of supply, buyer GSTIN or vendor GSTIN")
	}

	if place != "" && !r.states.Known(place) {
		warnings = append(warnings, fmt.Sprintf("unrecognized state code %q", place))
	}

	mode := r.taxMode(inv, place, vendorState, &warnings)

	r.log.Debug().
		Str("invoice_number", inv.InvoiceNumber).
		Str("place_of_supply", string(place)).
		Str("tax_mode", string(mode)).
		Int("warnings", len(warnings)).
		Msg("Resolved jurisdiction")

	return Jurisdiction{
		PlaceOfSupply: place,
		PlaceName:     r.states.Name(place),
		VendorState:   vendorState,
		TaxMode:       mode,
	}, warnings
}

// taxMode classifies the invoice. When the vendor state is unknown the
// comparison against the place of supply is impossible, so the tax amounts
// on the invoice itself decide the mode, with a warning.
func (r *Resolver) taxMode(inv *models.CanonicalInvoice, place, vendorState StateCode, warnings *[]string) TaxMode {
	if inv.TaxFree() {
		return NonGST
	}
	if vendorState == "" || place == "" {
		*warnings = append(*warnings,
			"vendor state unknown; tax mode inferred from invoice tax amounts")
		if inv.IGST > 0 {
			return Interstate
		}
		return Intrastate
	}
	if place == vendorState {
		return Intrastate
	}
	return Interstate
}
