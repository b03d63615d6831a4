package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/monitor"
	"github.com/san-kum/polysim/internal/scenario"
	"github.com/san-kum/polysim/internal/scene"
	"github.com/san-kum/polysim/internal/sim"
	"github.com/san-kum/polysim/internal/storage"
)

// resolveConfig layers defaults, preset, config file and explicit flags,
// in that order. A scenario argument overrides the file's scenario.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Scenario = args[0]
		}
		if preset != "" && loaded.Params == nil {
			loaded.Params = cfg.Params
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("jitter") {
		cfg.Jitter = jitter
	}
	if flags.Changed("realtime") {
		cfg.Realtime = realtime
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return cfg, cfg.Validate()
}

func runScenario(cmd *cobra.Command, args []string, registry *scenario.Registry) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := scenario.NewExperiment(cfg)
	if err := exp.Setup(registry); err != nil {
		return err
	}
	defer exp.World().Scene.Close()

	if track != "" {
		b, ok := exp.World().Named[track]
		if !ok {
			return fmt.Errorf("no body named %q in %s", track, cfg.Scenario)
		}
		exp.Simulator().Track(b)
	}

	var prog *monitor.Progress
	if progress {
		prog = monitor.NewProgress(os.Stderr, cfg.Scenario, cfg.Duration, 10)
		exp.Simulator().AddObserver(prog)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (seed %d)...\n", cfg.Scenario, cfg.Seed)
	start := time.Now()

	var result *sim.Result
	if cfg.Realtime {
		result, err = runRealtime(ctx, exp, cfg)
	} else {
		result, err = exp.Run(ctx)
	}
	if prog != nil {
		prog.Done()
	}
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		log.Printf("run interrupted: %v", err)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, preset, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("removed: %d\n", result.Removed)
	for _, e := range result.Errors {
		log.Print(e)
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func runRealtime(ctx context.Context, exp *scenario.Experiment, cfg *config.Config) (*sim.Result, error) {
	s := exp.Simulator()
	removedAtStart := s.Scene().Removed()
	result := &sim.Result{Samples: []sim.Sample{}}

	err := s.RunRealtime(ctx, frameRate, func(smp sim.Sample) bool {
		result.Samples = append(result.Samples, smp)
		result.StepsTaken++
		return smp.Time < cfg.Duration
	})

	result.Metrics = s.MetricValues()
	result.Removed = s.Scene().Removed() - removedAtStart
	return result, err
}

func benchScenario(cmd *cobra.Command, args []string, registry *scenario.Registry) error {
	name := args[0]

	base := config.DefaultConfig()
	if preset != "" {
		if base = config.GetPreset(name, preset); base == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
	}
	base.Scenario = name
	base.Seed = 42

	durations := []float64{1.0, 5.0}
	dts := []float64{1.0 / 30, 1.0 / 60, 1.0 / 120}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tBODIES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := *base
			cfg.Dt = step
			cfg.Duration = dur

			exp := scenario.NewExperiment(&cfg)
			if err := exp.Setup(registry); err != nil {
				return err
			}
			bodies := exp.World().Scene.NumBodies()

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			exp.World().Scene.Close()

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%d\t%v\t%.0f\n",
				dur, step, bodies, result.StepsTaken, elapsed.Round(time.Microsecond),
				float64(result.StepsTaken)/elapsed.Seconds())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if benchRuns <= 0 {
		return nil
	}

	cfg := *base
	cfg.Duration = 5.0
	build := func(s int64) (*scene.Scene, error) {
		c := cfg
		c.Seed = s
		world, err := registry.Build(&c)
		if err != nil {
			return nil, err
		}
		return world.Scene, nil
	}
	probe, err := registry.Build(&cfg)
	if err != nil {
		return err
	}
	metrics := func() []sim.Metric { return registry.DefaultMetrics(probe) }

	start := time.Now()
	results, err := sim.NewEnsemble(build, metrics, benchRuns, cfg.Seed).Run(context.Background(), sim.Config{
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Jitter:   cfg.Jitter,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	steps := 0
	energy := 0.0
	for _, r := range results {
		steps += r.StepsTaken
		energy += r.Metrics["energy"]
	}
	fmt.Printf("\nensemble: %d runs, %d steps in %v (%.0f steps/sec), mean energy %.3f\n",
		len(results), steps, elapsed.Round(time.Microsecond),
		float64(steps)/elapsed.Seconds(), energy/float64(len(results)))

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tTIME\tDURATION\tDT\tSTEPS\tREMOVED")

	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Removed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(sim.Sample) (float64, bool)
	}{
		{"kinetic energy", func(s sim.Sample) (float64, bool) { return s.Kinetic, true }},
		{"bodies", func(s sim.Sample) (float64, bool) { return float64(s.Bodies), true }},
		{"tracked x", func(s sim.Sample) (float64, bool) { return s.Tracked.X, s.HasTracked }},
		{"tracked y", func(s sim.Sample) (float64, bool) { return s.Tracked.Y, s.HasTracked }},
	}

	for _, sr := range series {
		data := make([]float64, 0, len(samples))
		for _, smp := range samples {
			if v, ok := sr.value(smp); ok {
				data = append(data, v)
			}
		}
		if len(data) < 2 {
			continue
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOut()

	if !withSample {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(w, meta, samples)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOut()

	if err := storage.WriteSamplesCSV(w, samples); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported %d samples to %s\n", len(samples), outFile)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
