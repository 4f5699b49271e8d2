// Package payoff implements contract payouts evaluated on simulated price paths.
package payoff

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidContract is returned by constructors given unusable contract terms.
var ErrInvalidContract = errors.New("invalid contract")

// Payoff is the contract interface consumed by the mc solver.
type Payoff interface {
	Payout(s float64) float64
	PathPayout(path []float64) float64
	PathDependent() bool
}

// Vanilla returns max(s-k, 0) for a call and max(k-s, 0) for a put.
func Vanilla(s, k float64, isCall bool) float64 {
	if isCall {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

func checkStrike(k float64) error {
	if !(k >= 0) || math.IsInf(k, 0) {
		return fmt.Errorf("%w: strike must be non-negative, got %g", ErrInvalidContract, k)
	}
	return nil
}

func last(path []float64) float64 {
	if len(path) == 0 {
		return math.NaN()
	}
	return path[len(path)-1]
}
