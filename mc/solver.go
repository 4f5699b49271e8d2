package mc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"
)

// Estimate is the outcome of a Monte Carlo run.
type Estimate struct {
	// Undiscounted sample mean of the payoff
	Price float64
	// Standard error of Price
	StdErr float64
	Paths  int
	Steps  int
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger used for run level events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgress calls fn with the number of completed paths every `every` paths and once at the end.
func WithProgress(every int, fn func(done int)) Option {
	return func(s *Solver) {
		if every > 0 && fn != nil {
			s.every = every
			s.progress = fn
		}
	}
}

// Solver simulates paths for a single configuration.
type Solver struct {
	cfg      *Config
	logger   *slog.Logger
	every    int
	progress func(done int)
}

// NewSolver creates a solver for cfg.
func NewSolver(cfg *Config, opts ...Option) *Solver {
	s := &Solver{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve runs cfg and returns the undiscounted Monte Carlo price.
func Solve(cfg *Config) (float64, error) {
	est, err := NewSolver(cfg).Estimate(context.Background())
	if err != nil {
		return 0, err
	}
	return est.Price, nil
}

// Estimate runs the simulation. Paths are simulated one after another from the shared
// random source, drawing N variates per path. ctx is checked between paths.
func (sv *Solver) Estimate(ctx context.Context) (Estimate, error) {
	cfg := sv.cfg
	if cfg == nil {
		return Estimate{}, fmt.Errorf("%w: configuration is required", ErrConstruction)
	}
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	dt := cfg.T / float64(cfg.N)
	if !(dt > 0) || math.IsInf(dt, 0) {
		return Estimate{}, fmt.Errorf("%w: T=%g N=%d gives dt=%g", ErrInvalidConfiguration, cfg.T, cfg.N, dt)
	}
	sqdt := math.Sqrt(dt)
	pathDependent := cfg.Payoff.PathDependent()

	sv.logger.Debug("simulation started",
		slog.Int("paths", cfg.M),
		slog.Int("steps", cfg.N),
		slog.String("scheme", cfg.Scheme.Name()),
		slog.Bool("path_dependent", pathDependent),
	)
	start := time.Now()

	path := make([]float64, cfg.N+1)
	var sum, mean, m2 float64
	for i := 0; i < cfg.M; i++ {
		if err := ctx.Err(); err != nil {
			return Estimate{}, err
		}

		s := cfg.S0
		path[0] = s
		for j := 0; j < cfg.N; j++ {
			dW := sqdt * cfg.Source.Generate()
			next, err := cfg.Scheme.Advance(cfg.Model, s, float64(j)*dt, dt, dW)
			if err != nil {
				return Estimate{}, err
			}
			if next < 0 {
				return Estimate{}, fmt.Errorf("%w: path %d step %d reached %g", ErrNegativeAssetPrice, i, j+1, next)
			}
			s = next
			path[j+1] = s
		}

		var x float64
		if pathDependent {
			x = cfg.Payoff.PathPayout(path)
		} else {
			x = cfg.Payoff.Payout(path[cfg.N])
		}
		sum += x

		// Welford update for the standard error
		d := x - mean
		mean += d / float64(i+1)
		m2 += d * (x - mean)

		if sv.progress != nil && (i+1)%sv.every == 0 {
			sv.progress(i + 1)
		}
	}
	if sv.progress != nil && cfg.M%sv.every != 0 {
		sv.progress(cfg.M)
	}

	est := Estimate{Price: sum / float64(cfg.M), Paths: cfg.M, Steps: cfg.N}
	if cfg.M > 1 {
		est.StdErr = math.Sqrt(m2 / float64(cfg.M-1) / float64(cfg.M))
	}

	sv.logger.Debug("simulation finished",
		slog.Float64("price", est.Price),
		slog.Float64("std_err", est.StdErr),
		slog.Duration("elapsed", time.Since(start)),
	)
	return est, nil
}
