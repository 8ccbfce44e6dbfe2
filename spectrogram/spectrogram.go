// Package spectrogram computes continuous time/frequency surfaces from
// long-duration physiological recordings, stitches per-epoch surfaces into
// one record, and slices time-averaged spectra around event anchors.
package spectrogram

import (
	"fmt"

	"github.com/physiokit/pulsegram"
)

// Spectrogram is a 2-D power (or amplitude) surface. Spec is indexed
// [frequency][time]; F is the ascending frequency vector and TS holds one
// timestamp per time column, each marking the *start* of its analysis
// window. Invariants: len(Spec) == len(F) and len(Spec[i]) == len(TS).
type Spectrogram struct {
	Spec [][]float64 `json:"spec"`
	F    []float64   `json:"f"`
	TS   []float64   `json:"ts"`
}

// NumColumns returns the number of time columns
func (s *Spectrogram) NumColumns() int {
	return len(s.TS)
}

// Column returns a copy of the spectrum at time column k
func (s *Spectrogram) Column(k int) []float64 {
	out := make([]float64, len(s.F))
	for i := range s.Spec {
		out[i] = s.Spec[i][k]
	}
	return out
}

// ColumnSpacing returns the spacing between the first two time columns, or
// 0 when fewer than two columns exist.
func (s *Spectrogram) ColumnSpacing() float64 {
	if len(s.TS) < 2 {
		return 0
	}
	return s.TS[1] - s.TS[0]
}

// Validate checks the structural invariants: grid dimensions match the
// frequency and timestamp vectors, F ascends, TS is monotonic non-decreasing.
func (s *Spectrogram) Validate() error {
	if len(s.Spec) != len(s.F) {
		return fmt.Errorf("%w: spectrogram has %d rows for %d frequencies",
			pulsegram.ErrInvalidArgument, len(s.Spec), len(s.F))
	}
	for i, row := range s.Spec {
		if len(row) != len(s.TS) {
			return fmt.Errorf("%w: row %d has %d columns for %d timestamps",
				pulsegram.ErrInvalidArgument, i, len(row), len(s.TS))
		}
	}
	for i := 1; i < len(s.F); i++ {
		if s.F[i] <= s.F[i-1] {
			return fmt.Errorf("%w: frequency vector not ascending at index %d", pulsegram.ErrInvalidArgument, i)
		}
	}
	for i := 1; i < len(s.TS); i++ {
		if s.TS[i] < s.TS[i-1] {
			return fmt.Errorf("%w: timestamp vector decreases at index %d", pulsegram.ErrInvalidArgument, i)
		}
	}
	return nil
}
