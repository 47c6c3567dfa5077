// Package split computes each participant's monetary share of a split bill
// and orchestrates split-bill persistence.
package split

import (
	"github.com/shopspring/decimal"

	"github.com/onevault/onevault/internal/models"
)

// Share is one participant's computed cost, all in minor units.
// Base is the pre-surcharge sum of assigned item costs; Tax and Fee are the
// proportional surcharges, rounded individually for display; Total is the
// final share, rounded once from the exact value.
type Share struct {
	Base  int64 `json:"base"`
	Tax   int64 `json:"tax"`
	Fee   int64 `json:"fee"`
	Total int64 `json:"total"`
}

var hundred = decimal.NewFromInt(100)

// Allocate computes every participant's share of the bill.
//
// base(p) is the sum over items of price × the quantity assigned to p.
// The final share is base(p) × (1 + tax/100 + fee/100), rounded half-up to
// the minor unit once, at the end — never on the intermediate base. Item
// quantity not assigned to anyone contributes to nobody's base; a partially
// assigned item is a legal mid-edit state, not an error.
//
// The engine assumes non-negative quantities (the callers clamp) and never
// fails: with no participants the result is simply empty, and a participant
// with nothing assigned gets a zero share. Rounding remainders against the
// grand total are not reconciled; callers needing exact conservation have
// the per-participant breakdown to do it themselves.
func Allocate(items []models.SplitItem, participants []string, taxPercent, feePercent decimal.Decimal) map[string]Share {
	bases := make(map[string]int64, len(participants))
	for _, name := range participants {
		bases[name] = 0
	}

	for _, item := range items {
		for name, qty := range item.Quantities {
			if _, ok := bases[name]; !ok {
				continue // quantity assigned to someone not on the bill
			}
			bases[name] += item.Price * qty
		}
	}

	taxRate := taxPercent.Div(hundred)
	feeRate := feePercent.Div(hundred)
	multiplier := decimal.NewFromInt(1).Add(taxRate).Add(feeRate)

	shares := make(map[string]Share, len(bases))
	for name, base := range bases {
		b := decimal.NewFromInt(base)
		shares[name] = Share{
			Base: base,
			// decimal's Round is half away from zero, which is
			// half-up for these non-negative amounts.
			Tax:   b.Mul(taxRate).Round(0).IntPart(),
			Fee:   b.Mul(feeRate).Round(0).IntPart(),
			Total: b.Mul(multiplier).Round(0).IntPart(),
		}
	}
	return shares
}

// SurchargedTotal is the bill's item total with tax and fee applied, rounded
// half-up to the minor unit. Unassigned quantity is excluded by construction
// since item totals count only assigned quantities.
func SurchargedTotal(items []models.SplitItem, taxPercent, feePercent decimal.Decimal) int64 {
	var total int64
	for _, item := range items {
		total += item.TotalValue()
	}
	multiplier := decimal.NewFromInt(1).Add(taxPercent.Div(hundred)).Add(feePercent.Div(hundred))
	return decimal.NewFromInt(total).Mul(multiplier).Round(0).IntPart()
}
