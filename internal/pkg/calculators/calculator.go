// Package calculators implements the stake-tier and minimum-acceptable-odds
// computations of spec §4.2, selected per sharp bookmaker id through a
// registry — adding a new sharp is a new registry entry, following the
// shape of the teacher's parser registry (internal/parser/parsers/registry.go
// in the source corpus).
package calculators

import (
	"fmt"
	"math"

	"github.com/surepulse/surepulse/internal/pkg/valuetypes"
)

// Calculator computes the minimum soft odds a pick must clear, given the
// sharp side's odds.
type Calculator interface {
	// MinAcceptableOdds returns the raw minimum and its two-decimal,
	// round-half-up display value. Returns an error if the computed
	// value is non-positive or non-finite ("sharp too skewed").
	MinAcceptableOdds(sharpOdds valuetypes.Odds) (raw float64, display valuetypes.Odds, err error)
}

// tolerance is the accepted -1% margin the formula in spec §4.2 bakes in.
const tolerance = 1.01

// formulaCalculator implements the single formula spec §4.2 defines.
// It is not actually sharp-specific — every registry entry currently
// resolves to the same implementation — but the registry exists so a
// future sharp with a different formula is a pure addition (see
// SPEC_FULL.md §4, decision 5).
type formulaCalculator struct{}

func (formulaCalculator) MinAcceptableOdds(sharpOdds valuetypes.Odds) (float64, valuetypes.Odds, error) {
	raw := 1 / (tolerance - 1/sharpOdds.Value())
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
		return 0, valuetypes.Odds{}, fmt.Errorf("calculators: sharp odds %s too skewed for calculator", sharpOdds)
	}
	displayValue := roundHalfUp2(raw)
	display, err := valuetypes.NewOdds(displayValue)
	if err != nil {
		// The rounded display value fell outside the legal Odds range
		// (e.g. the raw minimum exceeds 1000); the pick is still
		// "too skewed" from the caller's perspective.
		return 0, valuetypes.Odds{}, fmt.Errorf("calculators: sharp odds %s produced an unrepresentable minimum: %w", sharpOdds, err)
	}
	return raw, display, nil
}

func roundHalfUp2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Registry resolves a sharp bookmaker id to the Calculator it should use.
type Registry struct {
	byBookmaker map[string]Calculator
	fallback    Calculator
}

// NewRegistry builds an empty registry backed by the default formula
// calculator as fallback.
func NewRegistry() *Registry {
	return &Registry{
		byBookmaker: make(map[string]Calculator),
		fallback:    formulaCalculator{},
	}
}

// Register associates bookmakerID with calc. Registering under an
// already-registered id replaces the prior entry.
func (r *Registry) Register(bookmakerID string, calc Calculator) {
	r.byBookmaker[bookmakerID] = calc
}

// For returns the Calculator registered for bookmakerID, falling back to
// the default formula calculator if none was registered (SPEC_FULL.md
// §4, decision 5).
func (r *Registry) For(bookmakerID string) Calculator {
	if c, ok := r.byBookmaker[bookmakerID]; ok {
		return c
	}
	return r.fallback
}
