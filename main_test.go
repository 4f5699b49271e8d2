package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/banachtech/sdepricer/config"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	require.True(t, newLogger("debug", "json").Enabled(context.Background(), slog.LevelDebug))
	require.False(t, newLogger("error", "text").Enabled(context.Background(), slog.LevelWarn))
	require.True(t, newLogger("bogus", "text").Enabled(context.Background(), slog.LevelWarn))
	require.False(t, newLogger("bogus", "text").Enabled(context.Background(), slog.LevelInfo))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PRICER_TEST", "12")
	var got string
	set := func(v string) error { got = v; return nil }

	require.NoError(t, fromEnv(false, "PRICER_TEST", set))
	require.Empty(t, got)
	require.NoError(t, fromEnv(true, "PRICER_TEST", set))
	require.Equal(t, "12", got)
	require.NoError(t, fromEnv(true, "PRICER_UNSET_KEY", func(string) error { t.Fatal("called"); return nil }))
}

func TestPriceWritesReport(t *testing.T) {
	d := config.DemoDefaults()
	d.Steps, d.Paths = 5, 100
	seed := uint64(1)
	d.Seed = &seed

	out := filepath.Join(t.TempDir(), "report.csv")
	err := price(context.Background(), newLogger("error", "text"), config.DefaultScenarios(d), 3, false, "csv", out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 11)
	require.Equal(t, "options-european-call", rows[1][1])

	err = price(context.Background(), newLogger("error", "text"), config.DefaultScenarios(d), 1, false, "pdf", out)
	require.Error(t, err)
}

func TestPriceCommandFromFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")
	cmd := newPriceCmd(func() *slog.Logger { return newLogger("error", "text") })
	cmd.SetArgs([]string{"-f", "config/testdata/scenarios.yaml", "--format", "json", "-o", out, "--parallel", "2"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `"name": "cev-barrier"`)
}

func TestKeygenCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newKeygenCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--cost", "4"})
	require.NoError(t, cmd.Execute())

	require.Contains(t, out.String(), "api key:")
	require.Contains(t, out.String(), "PRICER_API_KEYS:")
}
