package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/polysim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Samples []sim.Sample `json:"samples"`
}

// ExportJSON writes the run's metadata and every sample as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []sim.Sample) error {
	data := ExportData{RunMetadata: *meta, Samples: samples}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteSamplesCSV writes a header row and one row per sample. Tracked
// columns are empty when no tracked body was alive.
func WriteSamplesCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sampleHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, smp := range samples {
		row := []string{
			f(smp.Time),
			f(smp.Dt),
			strconv.Itoa(smp.Bodies),
			strconv.Itoa(smp.Forces),
			f(smp.Kinetic),
			f(smp.Momentum.X),
			f(smp.Momentum.Y),
			"",
			"",
		}
		if smp.HasTracked {
			row[7], row[8] = f(smp.Tracked.X), f(smp.Tracked.Y)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
