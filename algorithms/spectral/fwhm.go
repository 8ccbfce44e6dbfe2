package spectral

import (
	"math"

	"github.com/physiokit/pulsegram/algorithms/common"
)

// FWHM computes the full-width-half-maximum bandwidth of a single averaged
// spectrum over the ascending frequency vector freqs. The half height is
// measured above the spectrum's baseline (its minimum). Crossings are found
// scanning outward from the global peak, interpolating linearly between the
// bracketing samples for sub-bin precision.
//
// FWHM never fails: if a crossing is missing on one or both sides (peak at a
// spectrum boundary, monotonic spectrum, degenerate input) the affected
// cutoff(s) and the width come back as NaN. This runs inside per-event loops
// where one bad spectrum must not stop aggregation.
func FWHM(freqs, spectrum []float64) (width, lowCutoff, highCutoff float64) {
	width, lowCutoff, highCutoff = math.NaN(), math.NaN(), math.NaN()

	if len(freqs) != len(spectrum) || len(spectrum) < 3 {
		return width, lowCutoff, highCutoff
	}

	peakIdx := -1
	baseline := math.Inf(1)
	for i, v := range spectrum {
		if math.IsNaN(v) {
			continue
		}
		if peakIdx < 0 || v > spectrum[peakIdx] {
			peakIdx = i
		}
		if v < baseline {
			baseline = v
		}
	}
	if peakIdx < 0 || spectrum[peakIdx] == baseline {
		return width, lowCutoff, highCutoff
	}

	half := baseline + (spectrum[peakIdx]-baseline)/2

	lowCutoff = crossingBelow(freqs, spectrum, peakIdx, half)
	highCutoff = crossingAbove(freqs, spectrum, peakIdx, half)

	if !math.IsNaN(lowCutoff) && !math.IsNaN(highCutoff) {
		width = highCutoff - lowCutoff
	}

	return width, lowCutoff, highCutoff
}

// crossingBelow scans from the peak toward lower frequencies for the first
// sample at or under the half height, then interpolates the crossing.
func crossingBelow(freqs, spectrum []float64, peakIdx int, half float64) float64 {
	for i := peakIdx - 1; i >= 0; i-- {
		v := spectrum[i]
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v <= half {
			frac := (half - v) / (spectrum[i+1] - v)
			return common.Lerp(freqs[i], freqs[i+1], frac)
		}
	}
	return math.NaN()
}

// crossingAbove scans from the peak toward higher frequencies.
func crossingAbove(freqs, spectrum []float64, peakIdx int, half float64) float64 {
	for i := peakIdx + 1; i < len(spectrum); i++ {
		v := spectrum[i]
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v <= half {
			frac := (half - v) / (spectrum[i-1] - v)
			return common.Lerp(freqs[i], freqs[i-1], frac)
		}
	}
	return math.NaN()
}
