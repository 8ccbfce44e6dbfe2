package bouts

import (
	"errors"

	"github.com/physiokit/pulsegram"
	"github.com/physiokit/pulsegram/logging"
	"github.com/physiokit/pulsegram/spectrogram"
)

// Analyzer drives the whole pipeline for one recorded element: stitch (or
// recompute) the continuous spectrogram through an EpochReader, then
// aggregate per-bout features. It holds no caches; every call computes
// fresh results and the session layer decides what to invalidate.
type Analyzer struct {
	reader spectrogram.EpochReader
	logger logging.Logger
}

// NewAnalyzer creates an analyzer over the given acquisition reader
func NewAnalyzer(reader spectrogram.EpochReader) *Analyzer {
	return &Analyzer{
		reader: reader,
		logger: logging.WithFields(logging.Fields{"component": "bout_analyzer"}),
	}
}

// AnalyzeBouts computes the whole-record spectrogram for elementRef and
// aggregates onset/offset bout features from it.
//
// A missing or ambiguous element degrades to the empty result pair with a
// warning diagnostic instead of an error: batch callers must always get a
// result back. Bad fixed parameters (invalid windows, mismatched marker
// vectors) still fail loudly.
func (a *Analyzer) AnalyzeBouts(elementRef string, markers Markers, stitchCfg spectrogram.StitchConfig, cfg Config) (onset, offset AggregateResult, err error) {
	s, err := spectrogram.Stitch(a.reader, elementRef, stitchCfg)
	if err != nil {
		if errors.Is(err, pulsegram.ErrNotFound) {
			a.logger.Warn("element not found, returning empty results", logging.Fields{
				"element": elementRef,
				"reason":  err.Error(),
			})
			return AggregateResult{}, AggregateResult{}, nil
		}
		return AggregateResult{}, AggregateResult{}, err
	}

	return Aggregate(s, markers, cfg)
}
