// Package valuetypes implements the validated primitive types the rest of
// the pipeline is built on: Odds, Profit, Market and EventTime. None of
// these carry any I/O; every constructor fails closed on an out-of-range
// or malformed input.
package valuetypes

import (
	"fmt"
	"math"
)

const (
	minOdds = 1.01
	maxOdds = 1000.0
)

// Odds is a positive decimal price, always within [1.01, 1000].
type Odds struct {
	value float64
}

// NewOdds validates v and returns an Odds wrapping it.
func NewOdds(v float64) (Odds, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Odds{}, fmt.Errorf("valuetypes: odds %v is not finite", v)
	}
	if v < minOdds || v > maxOdds {
		return Odds{}, fmt.Errorf("valuetypes: odds %v outside [%v, %v]", v, minOdds, maxOdds)
	}
	return Odds{value: v}, nil
}

// Value returns the underlying decimal price.
func (o Odds) Value() float64 { return o.value }

// ImpliedProbability returns 1/value.
func (o Odds) ImpliedProbability() float64 { return 1 / o.value }

func (o Odds) String() string { return fmt.Sprintf("%.2f", o.value) }
