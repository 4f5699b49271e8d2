// Package runner executes scenarios and times them.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/banachtech/sdepricer/analytic"
	"github.com/banachtech/sdepricer/config"
	"github.com/banachtech/sdepricer/mc"
	"github.com/banachtech/sdepricer/report"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runner prices scenarios.
type Runner struct {
	logger      *slog.Logger
	parallelism int
}

// New creates a runner that prices at most parallelism scenarios at once.
func New(logger *slog.Logger, parallelism int) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Runner{logger: logger, parallelism: parallelism}
}

// Run builds and solves one scenario. opts are passed to the solver.
func (r *Runner) Run(ctx context.Context, sc config.Scenario, opts ...mc.Option) (report.Result, error) {
	cfg, err := config.Build(sc)
	if err != nil {
		return report.Result{}, err
	}

	res := report.Result{
		RunID:     uuid.NewString(),
		Name:      sc.Name,
		Group:     sc.Group,
		Model:     fmt.Sprint(cfg.Model),
		Scheme:    cfg.Scheme.Name(),
		Payoff:    strings.ToLower(sc.Payoff.Type),
		Reference: Reference(sc),
	}
	if src, ok := cfg.Source.(*mc.NormalSource); ok {
		seed := src.Seed()
		res.Seed = &seed
	}

	logger := r.logger.With(slog.String("run_id", res.RunID), slog.String("scenario", sc.Name))
	solverOpts := append([]mc.Option{mc.WithLogger(logger)}, opts...)

	start := time.Now()
	est, err := mc.NewSolver(cfg, solverOpts...).Estimate(ctx)
	res.Elapsed = time.Since(start)
	if err != nil {
		logger.Warn("scenario failed", slog.Any("error", err), slog.Duration("elapsed", res.Elapsed))
		return res, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	res.Price, res.StdErr = est.Price, est.StdErr
	res.Paths, res.Steps = est.Paths, est.Steps
	logger.Info("scenario priced",
		slog.Float64("price", res.Price),
		slog.Float64("std_err", res.StdErr),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// RunAll prices independent scenarios concurrently, each with its own random source.
// Results keep the input order. The first failure cancels the remaining runs.
func (r *Runner) RunAll(ctx context.Context, scenarios []config.Scenario) ([]report.Result, error) {
	results := make([]report.Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i := range scenarios {
		i := i
		g.Go(func() error {
			res, err := r.Run(ctx, scenarios[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Reference returns the closed form price of a GBM scenario for European and
// geometric Asian payoffs, including any discounting. It is nil otherwise.
func Reference(sc config.Scenario) *float64 {
	if strings.ToLower(sc.Model.Type) != config.ModelGBM {
		return nil
	}
	m, p, T := sc.Model, sc.Payoff, sc.Maturity
	df := math.Exp(-p.DiscountRate * T)

	kind := strings.ToLower(p.Type)
	isCall := strings.HasSuffix(kind, "call")
	var v float64
	switch kind {
	case "european-call", "european-put":
		// BlackScholes discounts at the drift; undo it to get the expectation
		v = analytic.BlackScholes(sc.S0, p.Strike, m.Mu, m.Sigma, T, isCall) * math.Exp(m.Mu*T)
	case "asian-call", "asian-put":
		v = analytic.GeometricAsian(sc.S0, p.Strike, m.Mu, m.Sigma, T, sc.Steps, isCall)
	default:
		return nil
	}
	v *= df
	return &v
}
