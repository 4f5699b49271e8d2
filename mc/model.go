package mc

import (
	"fmt"
	"math"
)

// Model interface to be satisfied by stochastic model types.
// A model describes dS = a(S,t)dt + b(S,t)dW through its coefficients.
type Model interface {
	// Drift coefficient a(S,t)
	Drift(s, t float64) float64
	// Diffusion coefficient b(S,t)
	Diffusion(s, t float64) float64
}

// Define GBM model.
type GBM struct {
	Mu, Sigma float64
}

// Constructor for GBM model
func NewGBM(mu, sigma float64) GBM {
	return GBM{Mu: mu, Sigma: sigma}
}

func (m GBM) Drift(s, _ float64) float64 { return m.Mu * s }

func (m GBM) Diffusion(s, _ float64) float64 { return m.Sigma * s }

func (m GBM) String() string {
	return fmt.Sprintf("GBM(mu=%g, sigma=%g)", m.Mu, m.Sigma)
}

// Define CEV model. Gamma is the elasticity of the diffusion.
type CEV struct {
	Mu, Sigma, Gamma float64
}

// Constructor for CEV model
func NewCEV(mu, sigma, gamma float64) CEV {
	return CEV{Mu: mu, Sigma: sigma, Gamma: gamma}
}

func (m CEV) Drift(s, _ float64) float64 { return m.Mu * s }

func (m CEV) Diffusion(s, _ float64) float64 { return m.Sigma * math.Pow(s, m.Gamma) }

func (m CEV) String() string {
	return fmt.Sprintf("CEV(mu=%g, sigma=%g, gamma=%g)", m.Mu, m.Sigma, m.Gamma)
}

// Define CIR model. Kappa is the mean reversion speed and Theta the long run level.
// The diffusion is only defined for s >= 0; the solver stops a run before a negative state reaches it.
type CIR struct {
	Kappa, Theta, Sigma float64
}

// Constructor for CIR model
func NewCIR(kappa, theta, sigma float64) CIR {
	return CIR{Kappa: kappa, Theta: theta, Sigma: sigma}
}

func (m CIR) Drift(s, _ float64) float64 { return m.Kappa * (m.Theta - s) }

func (m CIR) Diffusion(s, _ float64) float64 { return m.Sigma * math.Sqrt(s) }

func (m CIR) String() string {
	return fmt.Sprintf("CIR(kappa=%g, theta=%g, sigma=%g)", m.Kappa, m.Theta, m.Sigma)
}
