package report

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// JSONFormatter emits the results as an indented JSON array with fixed precision prices.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

type jsonResult struct {
	Result
	Price     decimal.Decimal  `json:"price"`
	StdErr    decimal.Decimal  `json:"std_error"`
	Reference *decimal.Decimal `json:"reference,omitempty"`
	ElapsedMs int64            `json:"elapsed_ms"`
	Elapsed   any              `json:"elapsed_ns,omitempty"`
}

// Decimal rounds x to Precision decimals.
func Decimal(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(Precision)
}

func (JSONFormatter) Format(results []Result) ([]byte, error) {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{
			Result:    r,
			Price:     Decimal(r.Price),
			StdErr:    Decimal(r.StdErr),
			ElapsedMs: r.Elapsed.Milliseconds(),
		}
		if r.Reference != nil {
			ref := Decimal(*r.Reference)
			jr.Reference = &ref
		}
		out = append(out, jr)
	}
	return json.MarshalIndent(out, "", "  ")
}
