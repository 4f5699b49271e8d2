// Package config assembles simulation runs from declarative scenarios.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/banachtech/sdepricer/mc"
	"github.com/banachtech/sdepricer/payoff"
)

// ErrInvalidScenario is returned for scenarios that cannot be assembled.
var ErrInvalidScenario = errors.New("invalid scenario")

// Model types
const (
	ModelGBM = "gbm"
	ModelCEV = "cev"
	ModelCIR = "cir"
)

// ModelSpec selects a stochastic model and its parameters. Unused parameters are ignored.
type ModelSpec struct {
	Type  string  `yaml:"type" json:"type"`
	Mu    float64 `yaml:"mu,omitempty" json:"mu,omitempty"`
	Sigma float64 `yaml:"sigma,omitempty" json:"sigma,omitempty"`
	Gamma float64 `yaml:"gamma,omitempty" json:"gamma,omitempty"`
	Kappa float64 `yaml:"kappa,omitempty" json:"kappa,omitempty"`
	Theta float64 `yaml:"theta,omitempty" json:"theta,omitempty"`
}

// PayoffSpec selects a contract. Type is one of PayoffTypes.
type PayoffSpec struct {
	Type    string  `yaml:"type" json:"type"`
	Strike  float64 `yaml:"strike" json:"strike"`
	Barrier float64 `yaml:"barrier,omitempty" json:"barrier,omitempty"`
	// Payouts are multiplied by exp(-DiscountRate*Maturity) when set
	DiscountRate float64 `yaml:"discount_rate,omitempty" json:"discount_rate,omitempty"`
}

// Scenario is a complete, serialisable description of one pricing run.
type Scenario struct {
	Name     string     `yaml:"name" json:"name"`
	Group    string     `yaml:"group,omitempty" json:"group,omitempty"`
	Model    ModelSpec  `yaml:"model" json:"model"`
	Scheme   string     `yaml:"scheme" json:"scheme"`
	Payoff   PayoffSpec `yaml:"payoff" json:"payoff"`
	S0       float64    `yaml:"s0" json:"s0"`
	Maturity float64    `yaml:"maturity" json:"maturity"`
	Steps    int        `yaml:"steps" json:"steps"`
	Paths    int        `yaml:"paths" json:"paths"`
	// Seed fixes the random stream; nil draws a seed from system entropy
	Seed *uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// PayoffTypes lists the supported contract names.
var PayoffTypes = []string{
	"european-call", "european-put",
	"asian-call", "asian-put",
	"up-and-in-call", "up-and-in-put",
	"up-and-out-call", "up-and-out-put",
	"down-and-in-call", "down-and-in-put",
	"down-and-out-call", "down-and-out-put",
}

// Work is the number of scheme evaluations the scenario needs, saturating at
// math.MaxInt64. Non-positive sizes give 0.
func (s Scenario) Work() int64 {
	steps, paths := int64(s.Steps), int64(s.Paths)
	if steps <= 0 || paths <= 0 {
		return 0
	}
	if steps > math.MaxInt64/paths {
		return math.MaxInt64
	}
	return steps * paths
}

// IsBarrier reports whether the payoff type needs a barrier level.
func (p PayoffSpec) IsBarrier() bool {
	kind := strings.ToLower(p.Type)
	return strings.HasPrefix(kind, "up-") || strings.HasPrefix(kind, "down-")
}

// Build validates s and assembles the model, scheme, random source and payoff it describes.
func Build(s Scenario) (*mc.Config, error) {
	if err := NewInputParser().Validate(&s); err != nil {
		return nil, err
	}

	model, err := BuildModel(s.Model)
	if err != nil {
		return nil, err
	}
	scheme, err := mc.SchemeByName(strings.ToLower(s.Scheme))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	p, err := BuildPayoff(s.Payoff, s.Maturity)
	if err != nil {
		return nil, err
	}

	var src *mc.NormalSource
	if s.Seed != nil {
		src = mc.NewNormalSource(*s.Seed)
	} else {
		src = mc.NewEntropySource()
	}

	return mc.NewConfig(model, scheme, src, p, s.S0, s.Maturity, s.Steps, s.Paths)
}

// BuildModel maps a ModelSpec to its mc model.
func BuildModel(m ModelSpec) (mc.Model, error) {
	switch strings.ToLower(m.Type) {
	case ModelGBM:
		return mc.NewGBM(m.Mu, m.Sigma), nil
	case ModelCEV:
		return mc.NewCEV(m.Mu, m.Sigma, m.Gamma), nil
	case ModelCIR:
		return mc.NewCIR(m.Kappa, m.Theta, m.Sigma), nil
	}
	return nil, fmt.Errorf("%w: unknown model %q", ErrInvalidScenario, m.Type)
}

// BuildPayoff maps a PayoffSpec to its payoff, discounted over maturity when a rate is given.
func BuildPayoff(p PayoffSpec, maturity float64) (mc.Payoff, error) {
	var (
		out payoff.Payoff
		err error
	)
	kind := strings.ToLower(p.Type)
	switch kind {
	case "european-call":
		out, err = payoff.NewCall(p.Strike)
	case "european-put":
		out, err = payoff.NewPut(p.Strike)
	case "asian-call":
		out, err = payoff.NewAsian(p.Strike, true)
	case "asian-put":
		out, err = payoff.NewAsian(p.Strike, false)
	default:
		parts := strings.Split(kind, "-")
		if len(parts) != 4 || parts[1] != "and" ||
			(parts[0] != "up" && parts[0] != "down") ||
			(parts[2] != "in" && parts[2] != "out") ||
			(parts[3] != "call" && parts[3] != "put") {
			return nil, fmt.Errorf("%w: unknown payoff %q", ErrInvalidScenario, p.Type)
		}
		dir, knock, right := parts[0], parts[2], parts[3]
		out, err = payoff.NewBarrier(p.Strike, p.Barrier, right == "call", dir == "up", knock == "in")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	if p.DiscountRate != 0 {
		out, err = payoff.NewDiscounted(out, p.DiscountRate, maturity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
	}
	return out, nil
}
