package mc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModelCoefficients(t *testing.T) {
	for _, test := range []struct {
		name           string
		m              Model
		s              float64
		drift, diffuse float64
	}{
		{"GBM", NewGBM(0.05, 0.2), 100, 5, 20},
		{"CEV", NewCEV(0.05, 0.2, 0.5), 100, 5, 2},
		{"CEVUnitElasticity", NewCEV(0.05, 0.2, 1), 100, 5, 20},
		{"CIR", NewCIR(0.1, 0.2, 0.3), 0.04, 0.016, 0.06},
		{"CIRAtZero", NewCIR(0.1, 0.2, 0.3), 0, 0.02, 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			require.InDelta(t, test.drift, test.m.Drift(test.s, 0.5), 1e-12)
			require.InDelta(t, test.diffuse, test.m.Diffusion(test.s, 0.5), 1e-12)
		})
	}
}

func TestCIRNegativeStateIsUndefined(t *testing.T) {
	require.True(t, math.IsNaN(NewCIR(0.1, 0.2, 0.3).Diffusion(-1, 0)))
}
