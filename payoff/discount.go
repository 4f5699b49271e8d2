package payoff

import (
	"fmt"
	"math"
)

// Discounted scales both evaluation forms of a payoff by a constant factor, typically exp(-rT).
type Discounted struct {
	Payoff Payoff
	Factor float64
}

// NewDiscounted wraps p with the factor exp(-rate*t).
func NewDiscounted(p Payoff, rate, t float64) (*Discounted, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: payoff is required", ErrInvalidContract)
	}
	if !(t >= 0) || math.IsNaN(rate) {
		return nil, fmt.Errorf("%w: cannot discount at rate %g over %g years", ErrInvalidContract, rate, t)
	}
	return &Discounted{Payoff: p, Factor: math.Exp(-rate * t)}, nil
}

func (d *Discounted) Payout(s float64) float64 { return d.Factor * d.Payoff.Payout(s) }

func (d *Discounted) PathPayout(path []float64) float64 { return d.Factor * d.Payoff.PathPayout(path) }

func (d *Discounted) PathDependent() bool { return d.Payoff.PathDependent() }
