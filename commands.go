package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/banachtech/sdepricer/api"
	"github.com/banachtech/sdepricer/config"
	"github.com/banachtech/sdepricer/mc"
	"github.com/banachtech/sdepricer/report"
	"github.com/banachtech/sdepricer/runner"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newScenariosCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		paths, steps, parallel int
		seed                   uint64
		group, format, output  string
		progress               bool
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Price the demonstration scenarios",
		Long: `Price the demonstration scenarios: contract types, discretization schemes and models.

Example: sdepricer scenarios --group schemes --paths 20000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := config.DemoDefaults()
			d.Paths, d.Steps = paths, steps
			if cmd.Flags().Changed("seed") {
				d.Seed = &seed
			}

			var scenarios []config.Scenario
			for _, sc := range config.DefaultScenarios(d) {
				if group == "" || sc.Group == group {
					scenarios = append(scenarios, sc)
				}
			}
			if len(scenarios) == 0 {
				return fmt.Errorf("no scenarios in group %q", group)
			}
			return price(cmd.Context(), logger(), scenarios, parallel, progress, format, output)
		},
	}

	d := config.DemoDefaults()
	cmd.Flags().IntVar(&paths, "paths", d.Paths, "Number of simulated paths")
	cmd.Flags().IntVar(&steps, "steps", d.Steps, "Number of time steps")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed; system entropy when unset")
	cmd.Flags().StringVar(&group, "group", "", "Only run one group: options, schemes or models")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "Scenarios priced concurrently")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar per scenario")
	addOutputFlags(cmd, &format, &output)

	return cmd
}

func newPriceCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		file, format, output string
		parallel             int
		progress             bool
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price the scenarios of a YAML file",
		Long: `Price the scenarios of a YAML file.

Example: sdepricer price -f scenarios.yaml --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := config.NewInputParser().LoadFromFile(file)
			if err != nil {
				return err
			}
			return price(cmd.Context(), logger(), scenarios, parallel, progress, format, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Scenario file")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "Scenarios priced concurrently")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar per scenario")
	addOutputFlags(cmd, &format, &output)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newServeCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		addr  string
		cfg   = api.DefaultConfig()
		steps int
		paths int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pricing HTTP service",
		Long: `Run the pricing HTTP service.

Settings fall back to PRICER_ADDR, PRICER_RATE, PRICER_BURST and PRICER_MAX_WORK,
read from the environment or a .env file. PRICER_API_KEYS holds comma separated
prefix:hash pairs from "sdepricer keygen"; requests then need a bearer API key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			flags := cmd.Flags()
			if err := fromEnv(!flags.Changed("addr"), "PRICER_ADDR", func(v string) error { addr = v; return nil }); err != nil {
				return err
			}
			if err := fromEnv(!flags.Changed("rate"), "PRICER_RATE", func(v string) (err error) {
				cfg.Rate, err = strconv.ParseFloat(v, 64)
				return err
			}); err != nil {
				return err
			}
			if err := fromEnv(!flags.Changed("burst"), "PRICER_BURST", func(v string) (err error) {
				cfg.Burst, err = strconv.Atoi(v)
				return err
			}); err != nil {
				return err
			}
			if err := fromEnv(!flags.Changed("max-work"), "PRICER_MAX_WORK", func(v string) (err error) {
				cfg.MaxWork, err = strconv.ParseInt(v, 10, 64)
				return err
			}); err != nil {
				return err
			}

			if v := os.Getenv("PRICER_API_KEYS"); v != "" {
				hashes, err := api.ParseKeyHashes(v)
				if err != nil {
					return fmt.Errorf("invalid PRICER_API_KEYS: %w", err)
				}
				cfg.KeyHashes = hashes
			}

			log := logger()
			d := config.DemoDefaults()
			d.Steps, d.Paths = steps, paths
			server := api.NewServer(cfg, config.DefaultScenarios(d), log)
			log.Info("pricer listening", slog.String("addr", addr))
			return server.Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "0.0.0.0:8080", "Listen address")
	cmd.Flags().Float64Var(&cfg.Rate, "rate", cfg.Rate, "Requests per second per client")
	cmd.Flags().IntVar(&cfg.Burst, "burst", cfg.Burst, "Request burst per client")
	cmd.Flags().Int64Var(&cfg.MaxWork, "max-work", cfg.MaxWork, "Largest steps*paths per request")
	cmd.Flags().IntVar(&steps, "steps", 100, "Time steps of the named scenarios")
	cmd.Flags().IntVar(&paths, "paths", 20000, "Paths of the named scenarios")

	return cmd
}

func newKeygenCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an API key for the pricing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, key, hash, err := api.GenerateKey(cost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "api key:         %s\nPRICER_API_KEYS: %s:%s\n", key, prefix, hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost")
	return cmd
}

func addOutputFlags(cmd *cobra.Command, format, output *string) {
	cmd.Flags().StringVar(format, "format", "console", "Output format: "+strings.Join(report.AvailableFormatterNames(), ", "))
	cmd.Flags().StringVarP(output, "output", "o", "", "Write the report to a file instead of stdout")
}

func fromEnv(use bool, key string, set func(string) error) error {
	v, ok := os.LookupEnv(key)
	if !use || !ok || v == "" {
		return nil
	}
	if err := set(v); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

func price(ctx context.Context, logger *slog.Logger, scenarios []config.Scenario, parallel int, progress bool, format, output string) error {
	f := report.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown format %q, available: %s", format, strings.Join(report.AvailableFormatterNames(), ", "))
	}

	r := runner.New(logger, parallel)
	var (
		results []report.Result
		err     error
	)
	if progress {
		results, err = runWithProgress(ctx, r, scenarios)
	} else {
		results, err = r.RunAll(ctx, scenarios)
	}
	if err != nil {
		return err
	}

	data, err := f.Format(results)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0644)
}

// runWithProgress prices scenarios one at a time behind a progress bar.
func runWithProgress(ctx context.Context, r *runner.Runner, scenarios []config.Scenario) ([]report.Result, error) {
	results := make([]report.Result, 0, len(scenarios))
	for _, sc := range scenarios {
		bar := progressbar.NewOptions(sc.Paths,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(sc.Name),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		every := sc.Paths / 100
		if every < 1 {
			every = 1
		}
		res, err := r.Run(ctx, sc, mc.WithProgress(every, func(done int) { _ = bar.Set(done) }))
		_ = bar.Finish()
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
