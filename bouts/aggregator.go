// Package bouts extracts per-event spectral features around inhibitory-bout
// onset and offset markers, assembling result matrices that tolerate
// per-event failure.
package bouts

import (
	"fmt"
	"math"

	"github.com/physiokit/pulsegram"
	"github.com/physiokit/pulsegram/algorithms/spectral"
	"github.com/physiokit/pulsegram/logging"
	"github.com/physiokit/pulsegram/spectrogram"
)

// Markers holds matching onset/offset timestamp pairs supplied by the
// experiment layer. Offsets[i] is expected to be >= Onsets[i]; ordering
// between different events is not required.
type Markers struct {
	Onsets  []float64 `json:"onsets"`
	Offsets []float64 `json:"offsets"`
}

// Config fixes the extraction window geometry for both runs: onset windows
// trail their anchor (ending at onset-skip), offset windows lead theirs
// (starting at offset+skip).
type Config struct {
	Skip       float64 `json:"skip"`
	TimeWindow float64 `json:"time_window"`
}

// DefaultConfig returns the window geometry used for routine bout analysis
func DefaultConfig() Config {
	return Config{
		Skip:       2.0,
		TimeWindow: 5.0,
	}
}

// AggregateResult collects one run's per-event output. SpecData is indexed
// [frequency][event]; the three cutoff vectors hold NaN for failed events.
// A fully empty result (all fields zero-length) means the run could not
// execute at all, as opposed to executing with every event failing.
type AggregateResult struct {
	SpecData   [][]float64 `json:"spec_data"`
	F          []float64   `json:"f"`
	FWHM       []float64   `json:"fwhm"`
	LowCutoff  []float64   `json:"low_cutoff"`
	HighCutoff []float64   `json:"high_cutoff"`
}

// Empty reports whether the result carries no data at all
func (r AggregateResult) Empty() bool {
	return len(r.F) == 0 && len(r.SpecData) == 0 && len(r.FWHM) == 0
}

// Aggregate runs the event-window extraction and FWHM stages across all
// bout markers: once for onsets with trailing windows, once for offsets
// with leading windows. Per-event failures (window out of range, no FWHM
// crossing) are recorded as NaN and never halt the batch. If neither run
// produces any data, both results come back fully empty.
func Aggregate(s *spectrogram.Spectrogram, markers Markers, cfg Config) (onset, offset AggregateResult, err error) {
	if len(markers.Onsets) != len(markers.Offsets) {
		return onset, offset, fmt.Errorf("%w: %d onsets vs %d offsets",
			pulsegram.ErrInvalidArgument, len(markers.Onsets), len(markers.Offsets))
	}

	logger := logging.WithFields(logging.Fields{
		"component": "bout_aggregator",
		"events":    len(markers.Onsets),
	})

	onset, err = runOne(s, markers.Onsets, spectrogram.WindowSpec{
		Skip:     cfg.Skip,
		Duration: cfg.TimeWindow,
		Policy:   spectrogram.Trailing,
	})
	if err != nil {
		return AggregateResult{}, AggregateResult{}, err
	}

	offset, err = runOne(s, markers.Offsets, spectrogram.WindowSpec{
		Skip:     cfg.Skip,
		Duration: cfg.TimeWindow,
		Policy:   spectrogram.Leading,
	})
	if err != nil {
		return AggregateResult{}, AggregateResult{}, err
	}

	if onset.Empty() && offset.Empty() {
		logger.Warn("no data produced for either onset or offset run")
		return AggregateResult{}, AggregateResult{}, nil
	}

	// Both runs derive from the same spectrogram, so their frequency
	// vectors should agree. If they ever diverge, the onset run's vector
	// wins and the offset result is re-labeled under it.
	if len(onset.F) > 0 && len(offset.F) > 0 && !sameVector(onset.F, offset.F) {
		logger.Warn("onset/offset frequency vectors differ, keeping onset vector")
		offset.F = onset.F
	}

	return onset, offset, nil
}

// runOne drives one extraction+FWHM pass over a single anchor list
func runOne(s *spectrogram.Spectrogram, anchors []float64, w spectrogram.WindowSpec) (AggregateResult, error) {
	var res AggregateResult

	if len(anchors) == 0 || s == nil || s.NumColumns() == 0 {
		return res, nil
	}

	events, err := s.ExtractWindows(anchors, w)
	if err != nil {
		return res, err
	}

	n := len(anchors)
	res.F = events.F
	res.SpecData = make([][]float64, len(events.F))
	for i := range res.SpecData {
		res.SpecData[i] = make([]float64, n)
	}
	res.FWHM = make([]float64, n)
	res.LowCutoff = make([]float64, n)
	res.HighCutoff = make([]float64, n)

	for e, spectrum := range events.Spectra {
		for i := range events.F {
			res.SpecData[i][e] = spectrum[i]
		}
		res.FWHM[e], res.LowCutoff[e], res.HighCutoff[e] = spectral.FWHM(events.F, spectrum)
	}

	return res, nil
}

func sameVector(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
			return false
		}
	}
	return true
}
