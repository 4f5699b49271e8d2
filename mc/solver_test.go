package mc

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/banachtech/sdepricer/analytic"
	mockmc "github.com/banachtech/sdepricer/mc/mock"
	"github.com/banachtech/sdepricer/payoff"
	"github.com/banachtech/sdepricer/util"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newCall(t *testing.T, k float64) *payoff.Call {
	c, err := payoff.NewCall(k)
	require.NoError(t, err)
	return c
}

func estimate(t *testing.T, m Model, s Scheme, seed uint64, p Payoff, s0, T float64, N, M int) Estimate {
	cfg, err := NewConfig(m, s, NewNormalSource(seed), p, s0, T, N, M)
	require.NoError(t, err)
	est, err := NewSolver(cfg).Estimate(context.Background())
	require.NoError(t, err)
	return est
}

func TestSolveDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		seed := util.RandomSeed()
		m := NewGBM(util.RandomFloat(0, 0.1), util.RandomFloat(0.05, 0.5))
		N := util.RandomInt(1, 20)

		var prices []float64
		for run := 0; run < 2; run++ {
			cfg, err := NewConfig(m, Milstein{}, NewNormalSource(seed), newCall(t, 100), 100, 1, N, 500)
			require.NoError(t, err)
			p, err := Solve(cfg)
			require.NoError(t, err)
			prices = append(prices, p)
		}
		require.Equal(t, prices[0], prices[1])
	}
}

func TestZeroVolatilityForward(t *testing.T) {
	m := NewGBM(0.05, 0)
	forward := analytic.Forward(100, 0.05, 1)
	for _, scheme := range []Scheme{Euler{}, Milstein{}, PredictorCorrector{}} {
		t.Run(scheme.Name(), func(t *testing.T) {
			a := estimate(t, m, scheme, 1, newCall(t, 0), 100, 1, 100, 10)
			b := estimate(t, m, scheme, 2, newCall(t, 0), 100, 1, 100, 10)
			require.Equal(t, a.Price, b.Price)
			require.Zero(t, a.StdErr)
			require.InEpsilon(t, forward, a.Price, 1e-3)
		})
	}
}

func TestSchemesAgree(t *testing.T) {
	m := NewGBM(0.05, 0.2)
	var ests []Estimate
	for _, scheme := range []Scheme{Euler{}, Milstein{}, PredictorCorrector{}} {
		ests = append(ests, estimate(t, m, scheme, 11, newCall(t, 100), 100, 1, 50, 20000))
	}
	for i := 1; i < len(ests); i++ {
		tol := 4 * math.Hypot(ests[0].StdErr, ests[i].StdErr)
		require.InDelta(t, ests[0].Price, ests[i].Price, tol)
	}
}

func TestBlackScholesConvergence(t *testing.T) {
	d, err := payoff.NewDiscounted(newCall(t, 100), 0.05, 1)
	require.NoError(t, err)

	est := estimate(t, NewGBM(0.05, 0.2), Euler{}, 42, d, 100, 1, 50, 50000)
	bs := analytic.BlackScholes(100, 100, 0.05, 0.2, 1, true)
	require.InDelta(t, bs, est.Price, 4*est.StdErr+0.05)
}

func TestGeometricAsianConvergence(t *testing.T) {
	asian, err := payoff.NewAsian(100, true)
	require.NoError(t, err)

	est := estimate(t, NewGBM(0.05, 0.2), Euler{}, 5, asian, 100, 1, 50, 20000)
	want := analytic.GeometricAsian(100, 100, 0.05, 0.2, 1, 50, true)
	require.InDelta(t, want, est.Price, 4*est.StdErr+0.05)
}

func TestPutCallParity(t *testing.T) {
	const r, T, K = 0.05, 1.0, 100.0
	m := NewGBM(r, 0.2)

	call, err := payoff.NewDiscounted(newCall(t, K), r, T)
	require.NoError(t, err)
	vanillaPut, err := payoff.NewPut(K)
	require.NoError(t, err)
	put, err := payoff.NewDiscounted(vanillaPut, r, T)
	require.NoError(t, err)
	fwd, err := payoff.NewDiscounted(newCall(t, 0), r, T)
	require.NoError(t, err)

	c := estimate(t, m, Euler{}, 99, call, 100, T, 20, 20000)
	p := estimate(t, m, Euler{}, 99, put, 100, T, 20, 20000)
	f := estimate(t, m, Euler{}, 99, fwd, 100, T, 20, 20000)

	// identical paths make parity exact up to rounding
	require.InDelta(t, f.Price-K*math.Exp(-r*T), c.Price-p.Price, 1e-9)
	require.InDelta(t, 100-K*math.Exp(-r*T), c.Price-p.Price, 4*f.StdErr+0.01)
}

func TestBarrierParity(t *testing.T) {
	m := NewCEV(0.05, 0.2, 0.5)
	vanilla := estimate(t, m, Euler{}, 3, newCall(t, 100), 100, 1, 20, 5000)
	for _, isUp := range []bool{true, false} {
		in, err := payoff.NewBarrier(100, 110, true, isUp, true)
		require.NoError(t, err)
		out, err := payoff.NewBarrier(100, 110, true, isUp, false)
		require.NoError(t, err)

		a := estimate(t, m, Euler{}, 3, in, 100, 1, 20, 5000)
		b := estimate(t, m, Euler{}, 3, out, 100, 1, 20, 5000)
		require.InDelta(t, vanilla.Price, a.Price+b.Price, 1e-9)
	}
}

func TestAsianSingleStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mockmc.NewMockRandomSource(ctrl)
	src.EXPECT().Generate().Times(3).Return(0.5)

	asian, err := payoff.NewAsian(100, true)
	require.NoError(t, err)
	cfg, err := NewConfig(NewGBM(0.05, 0.2), Euler{}, src, asian, 100, 1, 1, 3)
	require.NoError(t, err)

	// S1 = 100 + 5 + 20*0.5
	price, err := Solve(cfg)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(100*115)-100, price, 1e-9)
}

type recordedStep struct {
	t, dt, dW float64
}

type recordingScheme struct {
	Euler
	steps []recordedStep
}

func (r *recordingScheme) Advance(m Model, s, t, dt, dW float64) (float64, error) {
	r.steps = append(r.steps, recordedStep{t, dt, dW})
	return r.Euler.Advance(m, s, t, dt, dW)
}

type recordingPayoff struct {
	paths [][]float64
}

func (r *recordingPayoff) Payout(float64) float64 { return 0 }

func (r *recordingPayoff) PathPayout(path []float64) float64 {
	r.paths = append(r.paths, append([]float64(nil), path...))
	return path[len(path)-1]
}

func (r *recordingPayoff) PathDependent() bool { return true }

func TestPathMajorDrawOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mockmc.NewMockRandomSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Generate().Return(0.1),
		src.EXPECT().Generate().Return(0.2),
		src.EXPECT().Generate().Return(0.3),
		src.EXPECT().Generate().Return(0.4),
	)

	scheme := &recordingScheme{}
	rec := &recordingPayoff{}
	// constant diffusion without drift: S moves by dW exactly
	cfg, err := NewConfig(NewCEV(0, 1, 0), scheme, src, rec, 100, 1, 2, 2)
	require.NoError(t, err)
	_, err = Solve(cfg)
	require.NoError(t, err)

	h := math.Sqrt(0.5)
	require.Len(t, scheme.steps, 4)
	for i, step := range scheme.steps {
		require.Equal(t, float64(i%2)*0.5, step.t)
		require.Equal(t, 0.5, step.dt)
		require.InDelta(t, h*0.1*float64(i+1), step.dW, 1e-15)
	}

	require.Len(t, rec.paths, 2)
	require.InDeltaSlice(t, []float64{100, 100 + 0.1*h, 100 + 0.3*h}, rec.paths[0], 1e-12)
	require.InDeltaSlice(t, []float64{100, 100 + 0.3*h, 100 + 0.7*h}, rec.paths[1], 1e-12)
}

func TestNegativeAssetPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mockmc.NewMockRandomSource(ctrl)
	src.EXPECT().Generate().Times(1).Return(-1.0)

	m := NewCIR(0.1, 0.001, 2.0)
	cfg, err := NewConfig(m, Euler{}, src, newCall(t, 1), 1, 10, 1, 5)
	require.NoError(t, err)
	_, err = Solve(cfg)
	require.ErrorIs(t, err, ErrNegativeAssetPrice)

	cfg, err = NewConfig(m, Euler{}, NewNormalSource(8), newCall(t, 1), 1, 10, 1, 1000)
	require.NoError(t, err)
	_, err = Solve(cfg)
	require.ErrorIs(t, err, ErrNegativeAssetPrice)
}

func TestInvalidConfiguration(t *testing.T) {
	cfg, err := NewConfig(NewGBM(0.05, 0.2), Euler{}, NewNormalSource(1), newCall(t, 100), 100, math.SmallestNonzeroFloat64, 4, 10)
	require.NoError(t, err)
	_, err = Solve(cfg)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewConfigErrors(t *testing.T) {
	m, s, src, p := NewGBM(0.05, 0.2), Euler{}, NewNormalSource(1), newCall(t, 100)
	for _, test := range []struct {
		name  string
		build func() (*Config, error)
	}{
		{"NoModel", func() (*Config, error) { return NewConfig(nil, s, src, p, 100, 1, 10, 10) }},
		{"NoScheme", func() (*Config, error) { return NewConfig(m, nil, src, p, 100, 1, 10, 10) }},
		{"NoSource", func() (*Config, error) { return NewConfig(m, s, nil, p, 100, 1, 10, 10) }},
		{"NoPayoff", func() (*Config, error) { return NewConfig(m, s, src, nil, 100, 1, 10, 10) }},
		{"ZeroSpot", func() (*Config, error) { return NewConfig(m, s, src, p, 0, 1, 10, 10) }},
		{"NegativeMaturity", func() (*Config, error) { return NewConfig(m, s, src, p, 100, -1, 10, 10) }},
		{"NaNMaturity", func() (*Config, error) { return NewConfig(m, s, src, p, 100, math.NaN(), 10, 10) }},
		{"ZeroSteps", func() (*Config, error) { return NewConfig(m, s, src, p, 100, 1, 0, 10) }},
		{"ZeroPaths", func() (*Config, error) { return NewConfig(m, s, src, p, 100, 1, 10, 0) }},
	} {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := test.build()
			require.ErrorIs(t, err, ErrConstruction)
			require.Nil(t, cfg)
		})
	}

	_, err := Solve(nil)
	require.ErrorIs(t, err, ErrConstruction)
}

func TestSolverProgressAndLogging(t *testing.T) {
	var done []int
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := NewConfig(NewGBM(0.05, 0.2), Euler{}, NewNormalSource(1), newCall(t, 100), 100, 1, 5, 10)
	require.NoError(t, err)
	est, err := NewSolver(cfg, WithLogger(logger), WithProgress(3, func(n int) { done = append(done, n) })).Estimate(context.Background())
	require.NoError(t, err)

	require.Equal(t, []int{3, 6, 9, 10}, done)
	require.Equal(t, 10, est.Paths)
	require.Equal(t, 5, est.Steps)
	require.Contains(t, buf.String(), "simulation finished")
}

func TestSolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg, err := NewConfig(NewGBM(0.05, 0.2), Euler{}, NewNormalSource(1), newCall(t, 100), 100, 1, 5, 10)
	require.NoError(t, err)
	_, err = NewSolver(cfg).Estimate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
