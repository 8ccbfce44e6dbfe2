package spectrogram

import (
	"fmt"

	"github.com/physiokit/pulsegram"
	"github.com/physiokit/pulsegram/algorithms/normalize"
	"github.com/physiokit/pulsegram/logging"
)

// Epoch describes one maximal contiguous recording segment with its own
// local clock.
type Epoch struct {
	ID    string  `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`

	// HasUnifiedClock reports whether this epoch's timestamps share a
	// single reliable local clock with the rest of the record.
	HasUnifiedClock bool `json:"has_unified_clock"`
}

// EpochReader is the acquisition-layer capability the stitcher consumes.
// Implementations own file/database access; the stitcher performs no I/O of
// its own.
type EpochReader interface {
	// ListEpochs returns the record's epochs in order. Returns an error
	// wrapping pulsegram.ErrNotFound when elementRef matches nothing (or
	// matches ambiguously).
	ListEpochs(elementRef string) ([]Epoch, error)

	// ReadSignal reads one epoch's samples over [t0, t1]
	ReadSignal(elementRef, epochID string, t0, t1 float64) (values, times []float64, err error)
}

// ProgressFunc reports long-running stitch progress. Fire-and-forget; may
// be nil.
type ProgressFunc func(current, total int, message string)

// RebasePolicy controls how per-epoch time axes are joined when no unified
// clock spans the record.
type RebasePolicy int

const (
	// RebaseSynthetic butts epochs together: each epoch's timestamps are
	// shifted to start one column interval after the previous epoch ends.
	// The resulting time axis is seamless and strictly increasing but
	// non-physical: true wall-clock gaps between epochs are discarded.
	RebaseSynthetic RebasePolicy = iota

	// RebaseTrueGap would preserve wall-clock gaps between epochs. Named
	// here so consumers can request it explicitly once the acquisition
	// layer exposes trustworthy cross-epoch offsets.
	RebaseTrueGap
)

// StitchConfig configures whole-record spectrogram computation
type StitchConfig struct {
	Engine EngineConfig `json:"engine"`

	// Normalize z-scores the signal before spectral estimation
	// (unified-clock mode only, where one continuous read exists).
	// NormalizeWindow is the rolling window in seconds; 0 means
	// whole-signal z-score.
	Normalize       bool    `json:"normalize"`
	NormalizeWindow float64 `json:"normalize_window"`

	Rebase   RebasePolicy `json:"rebase"`
	Progress ProgressFunc `json:"-"`
}

// DefaultStitchConfig returns defaults matching DefaultEngineConfig
func DefaultStitchConfig() StitchConfig {
	return StitchConfig{
		Engine: DefaultEngineConfig(),
		Rebase: RebaseSynthetic,
	}
}

// Stitch computes one continuous spectrogram for the whole record named by
// elementRef. Results are always freshly computed; callers decide what
// cached artifacts to invalidate.
//
// When every epoch reports a unified clock the record is read in a single
// pass, optionally z-score normalized, and handed to the engine once.
// Otherwise each epoch is processed independently and the per-epoch
// spectrograms are concatenated along the time axis under the configured
// RebasePolicy.
func Stitch(reader EpochReader, elementRef string, cfg StitchConfig) (*Spectrogram, error) {
	epochs, err := reader.ListEpochs(elementRef)
	if err != nil {
		return nil, fmt.Errorf("listing epochs for %q: %w", elementRef, err)
	}
	if len(epochs) == 0 {
		return nil, fmt.Errorf("%w: no epochs recorded for %q", pulsegram.ErrNotFound, elementRef)
	}

	logger := logging.WithFields(logging.Fields{
		"component": "stitcher",
		"element":   elementRef,
		"epochs":    len(epochs),
	})

	unified := true
	for _, ep := range epochs {
		if !ep.HasUnifiedClock {
			unified = false
			break
		}
	}

	if unified {
		return stitchUnified(reader, elementRef, epochs, cfg, logger)
	}
	if cfg.Rebase == RebaseTrueGap {
		return nil, fmt.Errorf("%w: true-gap rebasing requires cross-epoch clock offsets the reader does not supply",
			pulsegram.ErrInvalidArgument)
	}
	return stitchSynthetic(reader, elementRef, epochs, cfg, logger)
}

// stitchUnified reads the whole record in one pass using the shared clock
func stitchUnified(reader EpochReader, elementRef string, epochs []Epoch, cfg StitchConfig, logger logging.Logger) (*Spectrogram, error) {
	t0 := epochs[0].Start
	t1 := epochs[len(epochs)-1].End

	values, times, err := reader.ReadSignal(elementRef, epochs[0].ID, t0, t1)
	if err != nil {
		return nil, fmt.Errorf("reading %q over [%v, %v]: %w", elementRef, t0, t1, err)
	}

	if cfg.Normalize {
		values, err = normalize.Rolling(times, values, cfg.NormalizeWindow)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("unified-clock read complete", logging.Fields{"samples": len(values)})

	s, err := Compute(times, values, cfg.Engine)
	if err != nil {
		return nil, err
	}

	if cfg.Progress != nil {
		cfg.Progress(1, 1, "whole-record spectrogram computed")
	}

	return s, nil
}

// stitchSynthetic concatenates per-epoch spectrograms onto one synthetic,
// strictly increasing time axis. The axis is an acknowledged approximation:
// wall-clock gaps and overlaps between epoch-local clocks are replaced by
// exactly one column interval at each seam.
func stitchSynthetic(reader EpochReader, elementRef string, epochs []Epoch, cfg StitchConfig, logger logging.Logger) (*Spectrogram, error) {
	// Per-epoch local clocks are independent, so rebase each read to
	// elapsed seconds before windowing.
	if _, err := cfg.Engine.validate(); err != nil {
		return nil, err
	}

	engineCfg := cfg.Engine
	engineCfg.TimesAreElapsed = false

	out := &Spectrogram{
		F:  make([]float64, len(cfg.Engine.Freqs)),
		TS: []float64{},
	}
	copy(out.F, cfg.Engine.Freqs)
	out.Spec = make([][]float64, len(out.F))
	for i := range out.Spec {
		out.Spec[i] = []float64{}
	}

	nextStart := 0.0
	for i, ep := range epochs {
		values, times, err := reader.ReadSignal(elementRef, ep.ID, ep.Start, ep.End)
		if err != nil {
			return nil, fmt.Errorf("reading epoch %q: %w", ep.ID, err)
		}

		part, err := Compute(times, values, engineCfg)
		if err != nil {
			return nil, err
		}

		if len(part.TS) > 0 {
			spacing := part.ColumnSpacing()
			if spacing == 0 {
				spacing = cfg.Engine.WindowTime
			}

			for _, t := range part.TS {
				out.TS = append(out.TS, nextStart+t)
			}
			for r := range out.Spec {
				out.Spec[r] = append(out.Spec[r], part.Spec[r]...)
			}

			nextStart += part.TS[len(part.TS)-1] + spacing
		}

		if cfg.Progress != nil {
			cfg.Progress(i+1, len(epochs), fmt.Sprintf("epoch %s stitched", ep.ID))
		}
	}

	logger.Debug("synthetic stitch complete", logging.Fields{"columns": len(out.TS)})

	return out, nil
}
