// Package analysis post-processes recorded run samples.
//
//   - [PowerSpectrum]: magnitude spectrum of a series via FFT
//   - [DominantFrequency]: strongest non-DC frequency of a sampled series
//   - [TrackedPath]: centroid path of the tracked body
//   - [PathToASCII]: character plot of a path
//
// A spring chain oscillates with a clear peak:
//
//	ys := analysis.Series(samples, analysis.TrackedY)
//	freq, ok := analysis.DominantFrequency(ys, analysis.MeanDt(samples))
package analysis
