// Package spectral provides per-window magnitude estimation over an
// arbitrary frequency set, and bandwidth extraction from averaged spectra.
package spectral

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/physiokit/pulsegram/algorithms/common"
)

// Estimator selects how window samples are turned into per-frequency
// magnitudes.
type Estimator int

const (
	// EstimatorGoertzel correlates the mean-removed samples against
	// cos/sin at each requested frequency using the true sample
	// timestamps. Works for irregular spacing and arbitrary frequency
	// sets; this is the default.
	EstimatorGoertzel Estimator = iota

	// EstimatorFFT runs a real FFT over the window and linearly
	// interpolates bin magnitudes onto the requested frequencies. Assumes
	// near-uniform sample spacing within the window.
	EstimatorFFT
)

func (e Estimator) String() string {
	switch e {
	case EstimatorGoertzel:
		return "goertzel"
	case EstimatorFFT:
		return "fft"
	default:
		return "unknown"
	}
}

// Magnitudes estimates the signal amplitude at each requested frequency from
// one window of samples. The estimate is deterministic for a fixed window.
// Windows with fewer than two samples yield all-NaN.
func Magnitudes(times, values, freqs []float64, est Estimator) []float64 {
	if len(times) != len(values) || len(values) < 2 {
		return common.NaNs(len(freqs))
	}

	switch est {
	case EstimatorFFT:
		return fftMagnitudes(times, values, freqs)
	default:
		return goertzelMagnitudes(times, values, freqs)
	}
}

// goertzelMagnitudes computes a single-bin DFT per requested frequency,
// phased against elapsed time from the window start so irregular sample
// spacing contributes at its true time.
func goertzelMagnitudes(times, values, freqs []float64) []float64 {
	x := common.Demean(values)
	n := float64(len(x))
	t0 := times[0]

	out := make([]float64, len(freqs))
	for j, f := range freqs {
		var c, s float64
		omega := 2 * math.Pi * f
		for i, v := range x {
			phase := omega * (times[i] - t0)
			c += v * math.Cos(phase)
			s += v * math.Sin(phase)
		}
		out[j] = 2 * math.Hypot(c, s) / n
	}

	return out
}

// fftMagnitudes computes the window's real FFT and maps bin magnitudes onto
// the requested frequency set by linear interpolation.
func fftMagnitudes(times, values, freqs []float64) []float64 {
	n := len(values)
	dt := (times[n-1] - times[0]) / float64(n-1)
	if dt <= 0 {
		return common.NaNs(len(freqs))
	}

	spectrum := fft.FFTReal(common.Demean(values))

	// Positive-frequency bins only
	bins := n/2 + 1
	binFreqs := make([]float64, bins)
	binMags := make([]float64, bins)
	for i := 0; i < bins; i++ {
		binFreqs[i] = float64(i) / (float64(n) * dt)
		binMags[i] = 2 * cmplxAbs(spectrum[i]) / float64(n)
	}

	out := make([]float64, len(freqs))
	for j, f := range freqs {
		out[j] = common.Interpolate(binFreqs, binMags, f)
	}

	return out
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
