package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/sim"
)

func sineSamples(freq, dt float64, n int) []sim.Sample {
	samples := make([]sim.Sample, n)
	for i := range samples {
		t := float64(i) * dt
		samples[i] = sim.Sample{
			Time:       t,
			Dt:         dt,
			Tracked:    geom.Vec(t, 10+3*math.Sin(2*math.Pi*freq*t)),
			HasTracked: true,
		}
	}
	return samples
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		dt   float64
		n    int
	}{
		{"power of two", 2.0, 0.01, 1024},
		{"odd length", 1.5, 0.01, 1000},
		{"coarse", 0.5, 0.05, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := sineSamples(tt.freq, tt.dt, tt.n)
			ys := Series(samples, TrackedY)
			got, ok := DominantFrequency(ys, MeanDt(samples))
			if !ok {
				t.Fatal("expected a dominant frequency")
			}
			resolution := 1 / (float64(tt.n) * tt.dt)
			if math.Abs(got-tt.freq) > resolution {
				t.Errorf("expected %.3f Hz within %.3f, got %.3f", tt.freq, resolution, got)
			}
		})
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 4
	}
	if _, ok := DominantFrequency(data, 0.01); ok {
		t.Error("expected no dominant frequency for a constant series")
	}
	if _, ok := DominantFrequency([]float64{1, 2}, 0.01); ok {
		t.Error("expected no dominant frequency for a short series")
	}
}

func TestSeriesSkipsMissing(t *testing.T) {
	samples := []sim.Sample{
		{Kinetic: 1, Tracked: geom.Vec(1, 2), HasTracked: true},
		{Kinetic: 2},
	}
	if got := Series(samples, TrackedX); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1], got %v", got)
	}
	if got := Series(samples, Kinetic); len(got) != 2 {
		t.Errorf("expected 2 values, got %v", got)
	}
}

func TestMeanDt(t *testing.T) {
	samples := []sim.Sample{{Time: 0}, {Time: 0.1}, {Time: 0.3}}
	if got := MeanDt(samples); math.Abs(got-0.15) > 1e-12 {
		t.Errorf("expected 0.15, got %f", got)
	}
	if MeanDt(samples[:1]) != 0 {
		t.Error("expected 0 for a single sample")
	}
}

func TestPathToASCII(t *testing.T) {
	path := TrackedPath([]sim.Sample{
		{Tracked: geom.Vec(0, 0), HasTracked: true},
		{},
		{Tracked: geom.Vec(5, 5), HasTracked: true},
		{Tracked: geom.Vec(10, 0), HasTracked: true},
	})
	if len(path) != 3 {
		t.Fatalf("expected 3 points, got %d", len(path))
	}

	out := PathToASCII(path, 11, 6)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d", len(lines))
	}
	// bottom row holds the start on the left and the end on the right
	if bottom := []rune(lines[6]); bottom[1] != 'o' || bottom[11] != '@' {
		t.Errorf("unexpected bottom row %q", lines[6])
	}
	if top := []rune(lines[1]); top[6] != '•' {
		t.Errorf("expected the apex in the top row, got %q", lines[1])
	}

	if PathToASCII(nil, 10, 10) != "" {
		t.Error("expected empty plot for an empty path")
	}
}
