// Package analytic provides closed form reference prices under geometric Brownian motion.
package analytic

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Forward returns S0*exp(mu*t), the expected GBM price at t.
func Forward(s0, mu, t float64) float64 {
	return s0 * math.Exp(mu*t)
}

// BlackScholes returns the discounted Black-Scholes price of a European option.
func BlackScholes(s0, k, r, sigma, t float64, isCall bool) float64 {
	df := math.Exp(-r * t)
	f := Forward(s0, r, t)
	v := sigma * math.Sqrt(t)
	return df * lognormalOption(f, k, v*v, isCall)
}

// GeometricAsian returns the undiscounted expected payoff of an option on the geometric
// average of S over the n+1 equally spaced dates 0, t/n, ..., t under GBM(mu, sigma).
func GeometricAsian(s0, k, mu, sigma, t float64, n int, isCall bool) float64 {
	m := math.Log(s0) + 0.5*(mu-0.5*sigma*sigma)*t
	v := sigma * sigma * t * float64(2*n+1) / float64(6*(n+1))
	return lognormalOption(math.Exp(m+0.5*v), k, v, isCall)
}

// lognormalOption is E[(X-k)+] (or E[(k-X)+]) for a lognormal X with mean f and log variance v.
func lognormalOption(f, k, v float64, isCall bool) float64 {
	if v <= 0 {
		if isCall {
			return math.Max(f-k, 0)
		}
		return math.Max(k-f, 0)
	}
	if k <= 0 {
		if isCall {
			return f
		}
		return 0
	}
	sd := math.Sqrt(v)
	d1 := (math.Log(f/k) + 0.5*v) / sd
	d2 := d1 - sd
	if isCall {
		return f*distuv.UnitNormal.CDF(d1) - k*distuv.UnitNormal.CDF(d2)
	}
	return k*distuv.UnitNormal.CDF(-d2) - f*distuv.UnitNormal.CDF(-d1)
}
