package mc

import "fmt"

// Payoff evaluates a contract on a simulated path.
// PathDependent reports which of the two forms the solver should call; it must not change
// during a run.
type Payoff interface {
	// Payout on the terminal price only
	Payout(s float64) float64
	// PathPayout on the full path of N+1 prices, path[0] = S0
	PathPayout(path []float64) float64
	PathDependent() bool
}

// Config bundles everything a run needs. Build it with NewConfig.
type Config struct {
	Model  Model
	Scheme Scheme
	Source RandomSource
	Payoff Payoff
	// Initial asset price
	S0 float64
	// Maturity in years
	T float64
	// Number of time steps
	N int
	// Number of simulated paths
	M int
}

// NewConfig validates the components and returns a configuration ready to solve.
func NewConfig(model Model, scheme Scheme, source RandomSource, payoff Payoff, s0, T float64, N, M int) (*Config, error) {
	cfg := &Config{Model: model, Scheme: scheme, Source: source, Payoff: payoff, S0: s0, T: T, N: N, M: M}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that no component is missing and all scalars are positive.
func (c *Config) Validate() error {
	switch {
	case c.Model == nil:
		return fmt.Errorf("%w: model is required", ErrConstruction)
	case c.Scheme == nil:
		return fmt.Errorf("%w: scheme is required", ErrConstruction)
	case c.Source == nil:
		return fmt.Errorf("%w: random source is required", ErrConstruction)
	case c.Payoff == nil:
		return fmt.Errorf("%w: payoff is required", ErrConstruction)
	case !(c.S0 > 0):
		return fmt.Errorf("%w: initial price must be positive, got %g", ErrConstruction, c.S0)
	case !(c.T > 0):
		return fmt.Errorf("%w: maturity must be positive, got %g", ErrConstruction, c.T)
	case c.N <= 0:
		return fmt.Errorf("%w: steps must be positive, got %d", ErrConstruction, c.N)
	case c.M <= 0:
		return fmt.Errorf("%w: paths must be positive, got %d", ErrConstruction, c.M)
	}
	return nil
}
