package config

import (
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/banachtech/sdepricer/mc"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a scenario file.
type File struct {
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads scenarios from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) ([]Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a scenario document.
func (ip *InputParser) Parse(data []byte) ([]Scenario, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateFile(&f); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return f.Scenarios, nil
}

// ValidateFile checks every scenario and requires unique, non-empty names.
func (ip *InputParser) ValidateFile(f *File) error {
	if len(f.Scenarios) == 0 {
		return fmt.Errorf("%w: no scenarios provided", ErrInvalidScenario)
	}
	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		sc := &f.Scenarios[i]
		if sc.Name == "" {
			return fmt.Errorf("%w: scenario %d has no name", ErrInvalidScenario, i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("%w: duplicate scenario name %q", ErrInvalidScenario, sc.Name)
		}
		seen[sc.Name] = true
		if err := ip.Validate(sc); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}

// Validate checks a single scenario
func (ip *InputParser) Validate(s *Scenario) error {
	if err := ip.validateModel(&s.Model); err != nil {
		return err
	}
	if _, err := mc.SchemeByName(strings.ToLower(s.Scheme)); err != nil {
		return fmt.Errorf("%w: unknown scheme %q", ErrInvalidScenario, s.Scheme)
	}
	if err := ip.validatePayoff(&s.Payoff); err != nil {
		return err
	}

	if !positive(s.S0) {
		return fmt.Errorf("%w: s0 must be positive", ErrInvalidScenario)
	}
	if !positive(s.Maturity) {
		return fmt.Errorf("%w: maturity must be positive", ErrInvalidScenario)
	}
	if s.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive", ErrInvalidScenario)
	}
	if s.Paths <= 0 {
		return fmt.Errorf("%w: paths must be positive", ErrInvalidScenario)
	}
	return nil
}

func (ip *InputParser) validateModel(m *ModelSpec) error {
	if m.Sigma < 0 {
		return fmt.Errorf("%w: sigma cannot be negative", ErrInvalidScenario)
	}
	switch strings.ToLower(m.Type) {
	case ModelGBM:
	case ModelCEV:
		if m.Gamma < 0 {
			return fmt.Errorf("%w: gamma cannot be negative", ErrInvalidScenario)
		}
	case ModelCIR:
		if m.Kappa < 0 || m.Theta < 0 {
			return fmt.Errorf("%w: kappa and theta cannot be negative", ErrInvalidScenario)
		}
	default:
		return fmt.Errorf("%w: unknown model %q", ErrInvalidScenario, m.Type)
	}
	return nil
}

func (ip *InputParser) validatePayoff(p *PayoffSpec) error {
	if !slices.Contains(PayoffTypes, strings.ToLower(p.Type)) {
		return fmt.Errorf("%w: unknown payoff %q", ErrInvalidScenario, p.Type)
	}
	if p.Strike < 0 || math.IsNaN(p.Strike) {
		return fmt.Errorf("%w: strike cannot be negative", ErrInvalidScenario)
	}
	if p.IsBarrier() && !positive(p.Barrier) {
		return fmt.Errorf("%w: %s needs a positive barrier", ErrInvalidScenario, p.Type)
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
