package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/polysim/internal/automation"
	"github.com/san-kum/polysim/internal/scenario"
	"github.com/san-kum/polysim/internal/storage"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	metricName string
	gridSpec   string
	storeBatch bool
)

func sweepScenario(cmd *cobra.Command, args []string, registry *scenario.Registry) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Base:  cfg,
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
	}, registry, os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tSTEPS\tREMOVED\tERRORS\n", strings.ToUpper(sweepParam), strings.ToUpper(metricName))
	series := make([]float64, 0, len(results))
	for _, r := range results {
		v, ok := r.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric %q", metricName)
		}
		series = append(series, v)
		fmt.Fprintf(w, "%.4f\t%.6f\t%d\t%d\t%d\n", r.Value, v, r.Steps, r.Removed, r.Errors)
	}
	w.Flush()

	if len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", metricName, sweepParam))))
	}
	return nil
}

func searchScenario(cmd *cobra.Command, args []string, registry *scenario.Registry) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridSpec)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params, best, err := automation.NewGridSearch(names, ranges).Search(ctx, cfg, registry, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", metricName, best)
	fmt.Printf("params: %s\n", formatParams(params))
	return nil
}

// parseGrid reads "name=v1,v2;other=v3" into parallel name and value slices.
func parseGrid(grid string) ([]string, [][]float64, error) {
	if strings.TrimSpace(grid) == "" {
		return nil, nil, fmt.Errorf("empty grid")
	}
	var names []string
	var ranges [][]float64
	for _, part := range strings.Split(grid, ";") {
		name, list, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad grid entry %q", part)
		}
		var vals []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runBatch(cmd *cobra.Command, args []string, registry *scenario.Registry) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if batch.Description != "" {
		fmt.Printf("%s: %s\n", batch.Name, batch.Description)
	}
	results, err := automation.RunBatch(ctx, batch, registry, os.Stderr)
	if err != nil {
		return err
	}

	var st *storage.Store
	if storeBatch {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCENARIO\tPRESET\tSTEPS\tREMOVED\tRUN ID")
	for i, r := range results {
		id := "-"
		if st != nil {
			id, err = st.Save(r.Config, r.Preset, r.Result)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n", i+1, r.Config.Scenario, r.Preset, r.Result.StepsTaken, r.Result.Removed, id)
	}
	w.Flush()

	if len(results) > 0 {
		last := results[len(results)-1].Result.Metrics
		fmt.Println("\nlast run metrics:")
		for _, k := range sortedKeys(last) {
			fmt.Printf("  %s: %.6f\n", k, last[k])
		}
	}
	return nil
}
