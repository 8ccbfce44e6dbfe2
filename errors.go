// Package pulsegram analyzes long-duration physiological recordings
// (photoplethysmogram-derived heart and gut signals) captured across many
// discontinuous epochs. It turns raw signal reads into a continuous
// spectrogram and extracts per-event spectral features (peak bandwidth)
// from time windows anchored to externally supplied bout markers.
//
// The root package only defines the error taxonomy shared by the
// subpackages; the pipeline itself lives in algorithms/, spectrogram/ and
// bouts/.
package pulsegram

import "errors"

// Error classes. Callers match with errors.Is; subpackages wrap these with
// fmt.Errorf("...: %w", ...) to attach detail.
var (
	// ErrInvalidArgument marks bad fixed parameters (negative durations,
	// empty or non-positive frequency sets, mismatched vector lengths).
	// Always fatal to the call that received them.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a missing or ambiguous element/epoch. Batch-level
	// callers degrade to empty results instead of propagating it.
	ErrNotFound = errors.New("not found")

	// ErrComputation marks a per-event numerical failure (window out of
	// range, degenerate spectrum). It is recorded as NaN in result vectors
	// and never propagated out of a batch loop.
	ErrComputation = errors.New("computation failed")
)
