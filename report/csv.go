package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter writes one row per result.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(results []Result) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"RunID", "Scenario", "Group", "Model", "Scheme", "Payoff", "Price", "StdErr", "Reference", "Paths", "Steps", "ElapsedMs"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results {
		ref := ""
		if r.Reference != nil {
			ref = Fixed(*r.Reference)
		}
		row := []string{
			r.RunID,
			r.Name,
			r.Group,
			r.Model,
			r.Scheme,
			r.Payoff,
			Fixed(r.Price),
			Fixed(r.StdErr),
			ref,
			strconv.Itoa(r.Paths),
			strconv.Itoa(r.Steps),
			strconv.FormatInt(r.Elapsed.Milliseconds(), 10),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
