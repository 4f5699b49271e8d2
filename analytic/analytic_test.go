package analytic

import (
	"math"
	"testing"

	"github.com/banachtech/sdepricer/util"
	"github.com/stretchr/testify/require"
)

func TestBlackScholes(t *testing.T) {
	require.InDelta(t, 10.4506, BlackScholes(100, 100, 0.05, 0.2, 1, true), 1e-4)
	require.InDelta(t, 5.5735, BlackScholes(100, 100, 0.05, 0.2, 1, false), 1e-4)
}

func TestPutCallParity(t *testing.T) {
	for i := 0; i < 50; i++ {
		s0 := util.RandomFloat(50, 150)
		k := util.RandomFloat(50, 150)
		r := util.RandomFloat(0, 0.1)
		sigma := util.RandomFloat(0.05, 0.6)
		T := util.RandomFloat(0.1, 3)

		c := BlackScholes(s0, k, r, sigma, T, true)
		p := BlackScholes(s0, k, r, sigma, T, false)
		require.InDelta(t, s0-k*math.Exp(-r*T), c-p, 1e-9)
	}
}

func TestZeroVolatility(t *testing.T) {
	require.InDelta(t, 100-90*math.Exp(-0.05), BlackScholes(100, 90, 0.05, 0, 1, true), 1e-12)
	require.Zero(t, BlackScholes(100, 90, 0.05, 0, 1, false))
	require.InDelta(t, 100*math.Exp(0.05), GeometricAsian(100, 0, 0.05, 0, 2, 10, true), 1e-9)
}

func TestGeometricAsian(t *testing.T) {
	// with one monitoring step the average is sqrt(S0*S1)
	n := 1
	got := GeometricAsian(100, 0, 0.05, 0.2, 1, n, true)
	want := math.Sqrt(100) * math.Sqrt(100) * math.Exp(0.5*(0.05-0.02)+0.5*0.04*0.25)
	require.InDelta(t, want, got, 1e-9)

	c := GeometricAsian(100, 100, 0.05, 0.2, 1, 500, true)
	p := GeometricAsian(100, 100, 0.05, 0.2, 1, 500, false)
	f := GeometricAsian(100, 0, 0.05, 0.2, 1, 500, true)
	require.InDelta(t, f-100, c-p, 1e-9)
	require.Less(t, c, BlackScholes(100, 100, 0.05, 0.2, 1, true)*math.Exp(0.05))
}
