// Package report renders pricing results.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Result is the outcome of one scenario run.
type Result struct {
	RunID  string  `json:"run_id"`
	Name   string  `json:"name"`
	Group  string  `json:"group,omitempty"`
	Model  string  `json:"model"`
	Scheme string  `json:"scheme"`
	Payoff string  `json:"payoff"`
	Price  float64 `json:"price"`
	StdErr float64 `json:"std_error"`
	// Closed form price when one exists for the scenario
	Reference *float64      `json:"reference,omitempty"`
	Paths     int           `json:"paths"`
	Steps     int           `json:"steps"`
	Seed      *uint64       `json:"seed,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Formatter defines a pluggable output formatter that returns a byte slice.
type Formatter interface {
	Format(results []Result) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// Precision is the number of decimals prices are rendered with.
const Precision = 4

// Fixed renders x with Precision decimals.
func Fixed(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(Precision)
}

var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	CSVFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

var aliasMap = map[string]string{
	"text":        "console",
	"table":       "console",
	"json-pretty": "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}
