package spectrogram

import (
	"fmt"

	"github.com/physiokit/pulsegram"
	"github.com/physiokit/pulsegram/algorithms/common"
	"github.com/physiokit/pulsegram/logging"
)

// WindowPolicy orients an extraction window relative to its anchor
type WindowPolicy int

const (
	// Trailing windows end at anchor-skip, spanning
	// [anchor-skip-duration, anchor-skip].
	Trailing WindowPolicy = iota

	// Leading windows start at anchor+skip, spanning
	// [anchor+skip, anchor+skip+duration].
	Leading
)

func (p WindowPolicy) String() string {
	switch p {
	case Trailing:
		return "trailing"
	case Leading:
		return "leading"
	default:
		return "unknown"
	}
}

// WindowSpec describes a fixed-duration extraction window anchored to an
// event timestamp.
type WindowSpec struct {
	Skip     float64      `json:"skip"`
	Duration float64      `json:"duration"`
	Policy   WindowPolicy `json:"policy"`
}

func (w WindowSpec) validate() error {
	if w.Duration <= 0 {
		return fmt.Errorf("%w: window duration must be positive, got %v", pulsegram.ErrInvalidArgument, w.Duration)
	}
	if w.Skip < 0 {
		return fmt.Errorf("%w: window skip must be non-negative, got %v", pulsegram.ErrInvalidArgument, w.Skip)
	}
	return nil
}

// Range returns the window's time span for the given anchor
func (w WindowSpec) Range(anchor float64) (lo, hi float64) {
	switch w.Policy {
	case Leading:
		lo = anchor + w.Skip
		hi = lo + w.Duration
	default:
		hi = anchor - w.Skip
		lo = hi - w.Duration
	}
	return lo, hi
}

// EventSpectra holds one time-averaged spectrum per anchor. Spectra is
// indexed [anchor][frequency]; F always equals the source spectrogram's
// frequency vector. Anchors whose window selected no columns hold all-NaN
// spectra.
type EventSpectra struct {
	F       []float64   `json:"f"`
	Spectra [][]float64 `json:"spectra"`
}

// ExtractWindows slices the spectrogram around each anchor and averages the
// selected columns into one spectrum per anchor. A column belongs to a
// window when its start timestamp lies in [lo, hi); containment by start
// timestamp keeps the selection deterministic regardless of partial column
// overlap at the window edges. An anchor whose window misses the recorded
// time range entirely yields a NaN spectrum without disturbing the
// remaining anchors.
func (s *Spectrogram) ExtractWindows(anchors []float64, w WindowSpec) (*EventSpectra, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "event_window_extractor",
		"policy":    w.Policy.String(),
		"anchors":   len(anchors),
	})

	out := &EventSpectra{
		F:       make([]float64, len(s.F)),
		Spectra: make([][]float64, len(anchors)),
	}
	copy(out.F, s.F)

	for a, anchor := range anchors {
		lo, hi := w.Range(anchor)

		first, count := 0, 0
		for k, t := range s.TS {
			if t < lo {
				continue
			}
			if t >= hi {
				break
			}
			if count == 0 {
				first = k
			}
			count++
		}

		if count == 0 {
			logger.Debug("window outside recorded time, marking event failed", logging.Fields{
				"anchor": anchor,
				"lo":     lo,
				"hi":     hi,
			})
			out.Spectra[a] = common.NaNs(len(s.F))
			continue
		}

		spectrum := make([]float64, len(s.F))
		for i := range s.F {
			sum := 0.0
			for k := first; k < first+count; k++ {
				sum += s.Spec[i][k]
			}
			spectrum[i] = sum / float64(count)
		}
		out.Spectra[a] = spectrum
	}

	return out, nil
}
