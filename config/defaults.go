package config

// Defaults are the market and simulation parameters shared by the demonstration scenarios.
type Defaults struct {
	S0       float64
	Strike   float64
	Maturity float64
	Rate     float64
	Sigma    float64
	Barrier  float64
	Steps    int
	Paths    int
	Seed     *uint64
}

// DemoDefaults returns the reference demonstration parameters.
func DemoDefaults() Defaults {
	return Defaults{
		S0:       100,
		Strike:   100,
		Maturity: 1,
		Rate:     0.05,
		Sigma:    0.2,
		Barrier:  110,
		Steps:    500,
		Paths:    100000,
	}
}

// Default model parameters.
func DefaultModel(kind string, d Defaults) ModelSpec {
	switch kind {
	case ModelCEV:
		return ModelSpec{Type: ModelCEV, Mu: d.Rate, Sigma: d.Sigma, Gamma: 0.5}
	case ModelCIR:
		return ModelSpec{Type: ModelCIR, Kappa: 0.1, Theta: 0.2, Sigma: 0.3}
	}
	return ModelSpec{Type: ModelGBM, Mu: d.Rate, Sigma: d.Sigma}
}

// DefaultScenarios builds the demonstration runs in three groups: contract types
// under GBM with Euler, schemes on a European call, and models on an Asian put.
func DefaultScenarios(d Defaults) []Scenario {
	gbm := DefaultModel(ModelGBM, d)
	base := func(name, group string, m ModelSpec, scheme string, p PayoffSpec) Scenario {
		return Scenario{
			Name:     name,
			Group:    group,
			Model:    m,
			Scheme:   scheme,
			Payoff:   p,
			S0:       d.S0,
			Maturity: d.Maturity,
			Steps:    d.Steps,
			Paths:    d.Paths,
			Seed:     d.Seed,
		}
	}

	call := PayoffSpec{Type: "european-call", Strike: d.Strike}
	asianPut := PayoffSpec{Type: "asian-put", Strike: d.Strike}

	return []Scenario{
		base("options-european-call", "options", gbm, "euler", call),
		base("options-asian-put", "options", gbm, "euler", asianPut),
		base("options-down-and-in-call", "options", gbm, "euler", PayoffSpec{Type: "down-and-in-call", Strike: d.Strike, Barrier: d.Barrier}),
		base("options-up-and-out-put", "options", gbm, "euler", PayoffSpec{Type: "up-and-out-put", Strike: d.Strike, Barrier: d.Barrier}),

		base("schemes-euler", "schemes", gbm, "euler", call),
		base("schemes-milstein", "schemes", gbm, "milstein", call),
		base("schemes-predictor-corrector", "schemes", gbm, "predictor-corrector", call),

		base("models-gbm", "models", gbm, "euler", asianPut),
		base("models-cir", "models", DefaultModel(ModelCIR, d), "euler", asianPut),
		base("models-cev", "models", DefaultModel(ModelCEV, d), "euler", asianPut),
	}
}

// FindScenario returns the scenario called name.
func FindScenario(scenarios []Scenario, name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
