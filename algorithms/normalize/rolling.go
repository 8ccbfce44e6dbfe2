// Package normalize provides z-score normalization of irregularly sampled
// signals, either over the whole record or over a sliding timestamp window.
package normalize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/physiokit/pulsegram"
)

// ZScore returns the whole-signal z-score of values. Points where the signal
// has no spread come back as NaN rather than dividing by zero.
func ZScore(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	mean, std := stat.MeanStdDev(values, nil)
	for i, v := range values {
		if std == 0 || math.IsNaN(std) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (v - mean) / std
	}

	return out
}

// Rolling computes a sliding-window z-score over the signal (times, values).
// Window membership is decided by timestamp, not index count, so irregular
// sample spacing is handled correctly: sample i is normalized against all
// samples within [times[i]-window/2, times[i]+window/2]. At the record edges
// the window shrinks to whatever samples exist; it never wraps or pads.
//
// A window of 0 means whole-signal z-score. Negative windows and mismatched
// vector lengths are rejected. Points whose local window has zero variance
// come back as NaN.
func Rolling(times, values []float64, window float64) ([]float64, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: times and values length mismatch (%d vs %d)",
			pulsegram.ErrInvalidArgument, len(times), len(values))
	}
	if window < 0 {
		return nil, fmt.Errorf("%w: window must be non-negative, got %v", pulsegram.ErrInvalidArgument, window)
	}

	if window == 0 {
		return ZScore(values), nil
	}

	out := make([]float64, len(values))
	half := window / 2

	// Two-pointer sweep; times are strictly increasing so both bounds only
	// ever move forward.
	lo, hi := 0, 0
	for i := range values {
		for lo < len(times) && times[lo] < times[i]-half {
			lo++
		}
		if hi < i+1 {
			hi = i + 1
		}
		for hi < len(times) && times[hi] <= times[i]+half {
			hi++
		}

		mean, std := stat.MeanStdDev(values[lo:hi], nil)
		if std == 0 || math.IsNaN(std) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (values[i] - mean) / std
	}

	return out, nil
}
