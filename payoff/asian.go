package payoff

import "gonum.org/v1/gonum/stat"

// Asian pays on the geometric average of every price on the path, S0 included.
type Asian struct {
	Strike float64
	IsCall bool
}

// NewAsian creates a geometric average Asian option.
func NewAsian(k float64, isCall bool) (*Asian, error) {
	if err := checkStrike(k); err != nil {
		return nil, err
	}
	return &Asian{Strike: k, IsCall: isCall}, nil
}

// Payout is zero: the average is undefined without the path.
func (a *Asian) Payout(float64) float64 { return 0 }

func (a *Asian) PathPayout(path []float64) float64 {
	if len(path) == 0 {
		return 0
	}
	return Vanilla(stat.GeometricMean(path, nil), a.Strike, a.IsCall)
}

func (a *Asian) PathDependent() bool { return true }
