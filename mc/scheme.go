package mc

import "fmt"

// milsteinBump is the forward difference step used to estimate the diffusion derivative.
const milsteinBump = 1e-5

// Scheme advances the state of a model by one time step.
// dW is the Wiener increment for the step, already scaled by sqrt(dt).
type Scheme interface {
	Advance(m Model, s, t, dt, dW float64) (float64, error)
	Name() string
}

func checkStep(dt float64) error {
	if !(dt > 0) {
		return fmt.Errorf("%w: dt=%g", ErrInvalidStepSize, dt)
	}
	return nil
}

// Euler is the Euler-Maruyama scheme.
type Euler struct{}

func (Euler) Name() string { return "euler" }

func (Euler) Advance(m Model, s, t, dt, dW float64) (float64, error) {
	if err := checkStep(dt); err != nil {
		return 0, err
	}
	return s + m.Drift(s, t)*dt + m.Diffusion(s, t)*dW, nil
}

// Milstein adds the first correction term of the Ito-Taylor expansion to Euler.
// The diffusion derivative is taken by forward difference.
type Milstein struct{}

func (Milstein) Name() string { return "milstein" }

func (Milstein) Advance(m Model, s, t, dt, dW float64) (float64, error) {
	if err := checkStep(dt); err != nil {
		return 0, err
	}
	b := m.Diffusion(s, t)
	db := (m.Diffusion(s+milsteinBump, t) - b) / milsteinBump
	return s + m.Drift(s, t)*dt + b*dW + 0.5*b*db*(dW*dW-dt), nil
}

// PredictorCorrector averages the drift at the origin and at an Euler predictor.
// The diffusion is evaluated at the origin only, so the scheme is a drift adjusted Euler
// step rather than a full trapezoidal one.
type PredictorCorrector struct{}

func (PredictorCorrector) Name() string { return "predictor-corrector" }

func (PredictorCorrector) Advance(m Model, s, t, dt, dW float64) (float64, error) {
	if err := checkStep(dt); err != nil {
		return 0, err
	}
	a := m.Drift(s, t)
	b := m.Diffusion(s, t)
	sp := s + a*dt + b*dW
	return s + 0.5*(a+m.Drift(sp, t+dt))*dt + b*dW, nil
}

// SchemeByName looks up a scheme by its Name.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case "euler":
		return Euler{}, nil
	case "milstein":
		return Milstein{}, nil
	case "predictor-corrector", "pc":
		return PredictorCorrector{}, nil
	}
	return nil, fmt.Errorf("%w: unknown scheme %q", ErrConstruction, name)
}
