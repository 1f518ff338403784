package valuetypes

import (
	"fmt"
	"math"
)

const (
	minProfit = -100.0
	maxProfit = 100.0
)

// Profit is a signed percentage edge, carrying no unit beyond "percent".
type Profit struct {
	value float64
}

// NewProfit validates p and returns a Profit wrapping it.
func NewProfit(p float64) (Profit, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Profit{}, fmt.Errorf("valuetypes: profit %v is not finite", p)
	}
	if p < minProfit || p > maxProfit {
		return Profit{}, fmt.Errorf("valuetypes: profit %v outside [%v, %v]", p, minProfit, maxProfit)
	}
	return Profit{value: p}, nil
}

// Value returns the raw percentage.
func (p Profit) Value() float64 { return p.value }

// InRange reports whether p falls within [min, max], inclusive.
func (p Profit) InRange(min, max float64) bool {
	return p.value >= min && p.value <= max
}

func (p Profit) String() string { return fmt.Sprintf("%.2f%%", p.value) }
