package payoff

import (
	"fmt"
	"math"
)

// Barrier is a knock-in or knock-out option. The barrier is monitored on the
// terminal price only: an up barrier is hit when S_T >= Level, a down barrier
// when S_T <= Level.
type Barrier struct {
	Strike float64
	Level  float64
	IsCall bool
	IsUp   bool
	IsIn   bool
}

// NewBarrier creates a barrier option.
func NewBarrier(k, level float64, isCall, isUp, isIn bool) (*Barrier, error) {
	if err := checkStrike(k); err != nil {
		return nil, err
	}
	if !(level > 0) || math.IsInf(level, 0) {
		return nil, fmt.Errorf("%w: barrier must be positive, got %g", ErrInvalidContract, level)
	}
	return &Barrier{Strike: k, Level: level, IsCall: isCall, IsUp: isUp, IsIn: isIn}, nil
}

func (b *Barrier) hit(s float64) bool {
	if b.IsUp {
		return s >= b.Level
	}
	return s <= b.Level
}

func (b *Barrier) Payout(s float64) float64 {
	if b.hit(s) != b.IsIn {
		return 0
	}
	return Vanilla(s, b.Strike, b.IsCall)
}

func (b *Barrier) PathPayout(path []float64) float64 { return b.Payout(last(path)) }

func (b *Barrier) PathDependent() bool { return false }
