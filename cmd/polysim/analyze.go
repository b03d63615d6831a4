package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/polysim/internal/analysis"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/storage"
)

var seriesFields = map[string]analysis.Field{
	"kinetic":   analysis.Kinetic,
	"bodies":    analysis.Bodies,
	"tracked_x": analysis.TrackedX,
	"tracked_y": analysis.TrackedY,
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	field, ok := seriesFields[seriesName]
	if !ok {
		return fmt.Errorf("unknown series: %s", seriesName)
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := analysis.Series(samples, field)
	if len(data) < 4 {
		return fmt.Errorf("not enough %s samples to analyse", seriesName)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:max(len(ps)/4, 2)]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", seriesName)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, ok := analysis.DominantFrequency(data, analysis.MeanDt(samples))
	if !ok {
		fmt.Println("no dominant frequency")
		return nil
	}
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	fmt.Printf("period: %.3f s\n", 1.0/freq)

	return nil
}

func trailRun(cmd *cobra.Command, args []string) error {
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

	path := analysis.TrackedPath(samples)
	if len(path) == 0 {
		return fmt.Errorf("run %s has no tracked body", meta.ID)
	}

	lo, hi := geom.Bounds(geom.Polygon(path))

	fmt.Printf("tracked path: %s (%d points)\n", meta.ID, len(path))
	fmt.Printf("x: [%.2f, %.2f]  y: [%.2f, %.2f]\n\n", lo.X, hi.X, lo.Y, hi.Y)
	fmt.Print(analysis.PathToASCII(path, 70, 20))
	fmt.Println("  o start  @ end")

	return nil
}
