package report

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"
)

// ConsoleFormatter prints an aligned table, one row per result.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(results []Result) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tMODEL\tSCHEME\tPAYOFF\tPRICE\tSTD ERR\tREFERENCE\tPATHS\tSTEPS\tELAPSED")

	var total time.Duration
	group := ""
	for _, r := range results {
		if r.Group != group && r.Group != "" {
			fmt.Fprintf(w, "[%s]\t\t\t\t\t\t\t\t\t\n", r.Group)
			group = r.Group
		}
		ref := "-"
		if r.Reference != nil {
			ref = Fixed(*r.Reference)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.Name, r.Model, r.Scheme, r.Payoff, Fixed(r.Price), Fixed(r.StdErr), ref,
			r.Paths, r.Steps, r.Elapsed.Round(time.Millisecond))
		total += r.Elapsed
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	fmt.Fprintf(buf, "\n%d scenario(s) priced in %s\n", len(results), total.Round(time.Millisecond))
	return buf.Bytes(), nil
}
