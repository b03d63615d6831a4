package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"

	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/monitor"
	"github.com/san-kum/polysim/internal/scenario"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	jitter     float64
	realtime   bool
	configFile string
	preset     string
	track      string
	progress   bool
	frameRate  int
	benchRuns  int
	outFile    string
	withSample bool
	seriesName string
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("polysim: ")

	registry := scenario.NewRegistry()

	rootCmd := &cobra.Command{
		Use:           "polysim",
		Short:         "2d polygon rigid-body simulation lab",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return monitor.Run(registry, config.DefaultConfig(), false)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".polysim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headlessly and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, args, registry)
		},
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&track, "track", "", "name of the body to track (defaults to the scenario's choice)")
	runCmd.Flags().BoolVar(&progress, "progress", false, "print a live status line")
	runCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate for realtime runs")

	watchCmd := &cobra.Command{
		Use:   "watch [scenario]",
		Short: "run a scenario with the live statistics monitor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return monitor.Run(registry, cfg, len(args) > 0 || configFile != "" || preset != "")
		},
	}
	addRunFlags(watchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run samples",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withSample, "samples", false, "include every sample")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				fmt.Printf("  %-10s dt=%.4f time=%.0fs %s\n", p, cfg.Dt, cfg.Duration, formatParams(cfg.Params))
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range registry.List() {
				fmt.Printf("  %-12s %s\n", name, registry.Describe(name))
			}
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&seriesName, "series", "tracked_y", "series to analyse (kinetic, bodies, tracked_x, tracked_y)")

	trailCmd := &cobra.Command{
		Use:   "trail [run_id]",
		Short: "plot the path of the tracked body",
		Args:  cobra.ExactArgs(1),
		RunE:  trailRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchScenario(cmd, args, registry)
		},
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "concurrent seeded runs for the ensemble pass")
	benchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a scenario across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sweepScenario(cmd, args, registry)
		},
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "scenario parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy", "metric to report")

	searchCmd := &cobra.Command{
		Use:   "search [scenario]",
		Short: "grid search scenario parameters minimising a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchScenario(cmd, args, registry)
		},
	}
	addRunFlags(searchCmd)
	searchCmd.Flags().StringVar(&gridSpec, "grid", "", `parameter grid, e.g. "elasticity=0.5,1;count=4,8"`)
	searchCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimise")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every entry of a yaml batch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, registry)
		},
	}
	batchCmd.Flags().BoolVar(&storeBatch, "store", false, "save each run to the data directory")

	rootCmd.AddCommand(runCmd, watchCmd, listCmd, plotCmd, analyzeCmd, trailCmd, exportCmd, exportCSVCmd,
		presetsCmd, scenariosCmd, benchCmd, sweepCmd, searchCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().Float64Var(&jitter, "jitter", 0, "relative dt jitter in [0, 1)")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "step with measured wall-clock time")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func formatParams(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += fmt.Sprintf("%s=%g ", k, params[k])
	}
	return out
}
