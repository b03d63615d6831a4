package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/polysim/internal/sim"
)

// Field extracts one value from a sample. ok is false when the sample has
// no value for it.
type Field func(s sim.Sample) (v float64, ok bool)

var (
	Kinetic  Field = func(s sim.Sample) (float64, bool) { return s.Kinetic, true }
	Bodies   Field = func(s sim.Sample) (float64, bool) { return float64(s.Bodies), true }
	TrackedX Field = func(s sim.Sample) (float64, bool) { return s.Tracked.X, s.HasTracked }
	TrackedY Field = func(s sim.Sample) (float64, bool) { return s.Tracked.Y, s.HasTracked }
)

// Series collects field from every sample that has it.
func Series(samples []sim.Sample, field Field) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if v, ok := field(s); ok {
			out = append(out, v)
		}
	}
	return out
}

// MeanDt is the average spacing of the samples, which differs from the
// configured dt when the run used jitter.
func MeanDt(samples []sim.Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	return (samples[len(samples)-1].Time - samples[0].Time) / float64(len(samples)-1)
}

// PowerSpectrum returns the magnitudes of the first half of the FFT of
// data with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in hertz of the largest
// non-DC bin of data sampled every dt seconds.
func DominantFrequency(data []float64, dt float64) (float64, bool) {
	if len(data) < 4 || dt <= 0 {
		return 0, false
	}

	ps := PowerSpectrum(data)
	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0, false
	}
	return float64(maxIdx) / (float64(len(data)) * dt), true
}
