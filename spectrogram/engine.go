package spectrogram

import (
	"fmt"
	"math"

	"github.com/physiokit/pulsegram"
	"github.com/physiokit/pulsegram/algorithms/common"
	"github.com/physiokit/pulsegram/algorithms/spectral"
	"github.com/physiokit/pulsegram/algorithms/windowing"
	"github.com/physiokit/pulsegram/logging"
)

// EngineConfig configures spectrogram computation
type EngineConfig struct {
	// Freqs is the set of frequencies (Hz) to estimate; ascending, all
	// positive. The output F always equals this set.
	Freqs []float64 `json:"freqs"`

	// WindowTime is the analysis window duration in seconds. Windows tile
	// the record without overlap; downstream stitching depends on
	// non-overlap, so this is a contract, not an implementation detail.
	WindowTime float64 `json:"window_time"`

	// Downsample keeps only every D-th output column (and timestamp).
	// Window boundaries are unchanged. 0 or 1 means keep everything.
	Downsample int `json:"downsample"`

	// TimesAreElapsed reports whether input timestamps are already in
	// elapsed-seconds form. When false they are absolute wall-clock
	// seconds and get rebased to elapsed seconds from the first sample.
	TimesAreElapsed bool `json:"times_are_elapsed"`

	// Estimator selects the per-window magnitude estimator
	Estimator spectral.Estimator `json:"estimator"`

	// Taper is applied to each window's samples before estimation
	Taper windowing.Taper `json:"taper"`

	// PowerDB converts magnitudes to decibel power, clamped at FloorDB
	PowerDB bool    `json:"power_db"`
	FloorDB float64 `json:"floor_db"`
}

// DefaultEngineConfig returns sensible defaults for heart-band analysis of
// photoplethysmogram recordings.
func DefaultEngineConfig() EngineConfig {
	freqs := make([]float64, 0, 96)
	for f := 0.05; f <= 2.425; f += 0.025 {
		freqs = append(freqs, f)
	}

	return EngineConfig{
		Freqs:           freqs,
		WindowTime:      30.0,
		Downsample:      1,
		TimesAreElapsed: true,
		Estimator:       spectral.EstimatorGoertzel,
		Taper:           windowing.Hann,
		PowerDB:         false,
		FloorDB:         -120.0,
	}
}

func (cfg EngineConfig) validate() (int, error) {
	if cfg.WindowTime <= 0 {
		return 0, fmt.Errorf("%w: window time must be positive, got %v", pulsegram.ErrInvalidArgument, cfg.WindowTime)
	}
	if len(cfg.Freqs) == 0 {
		return 0, fmt.Errorf("%w: frequency set is empty", pulsegram.ErrInvalidArgument)
	}
	for _, f := range cfg.Freqs {
		if f <= 0 {
			return 0, fmt.Errorf("%w: frequency set contains non-positive value %v", pulsegram.ErrInvalidArgument, f)
		}
	}

	ds := cfg.Downsample
	if ds == 0 {
		ds = 1
	}
	if ds < 0 {
		return 0, fmt.Errorf("%w: downsample factor must be non-negative, got %d", pulsegram.ErrInvalidArgument, ds)
	}

	return ds, nil
}

// Compute estimates the time/frequency surface of one signal read. Output
// timestamps mark window starts; consecutive kept columns are spaced by
// WindowTime times the downsample factor. Windows containing fewer than two
// samples (gaps in the read) become NaN columns so the time axis stays
// uniform.
func Compute(times, values []float64, cfg EngineConfig) (*Spectrogram, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: times and values length mismatch (%d vs %d)",
			pulsegram.ErrInvalidArgument, len(times), len(values))
	}

	ds, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	f := make([]float64, len(cfg.Freqs))
	copy(f, cfg.Freqs)

	out := &Spectrogram{F: f, Spec: make([][]float64, len(f)), TS: []float64{}}
	for i := range out.Spec {
		out.Spec[i] = []float64{}
	}
	if len(values) == 0 {
		return out, nil
	}

	t := times
	if !cfg.TimesAreElapsed {
		t = make([]float64, len(times))
		for i, v := range times {
			t[i] = v - times[0]
		}
	}

	t0 := t[0]
	numWindows := int((t[len(t)-1]-t0)/cfg.WindowTime) + 1

	logger := logging.WithFields(logging.Fields{
		"component":   "spectrogram_engine",
		"samples":     len(values),
		"windows":     numWindows,
		"window_time": cfg.WindowTime,
		"estimator":   cfg.Estimator.String(),
	})
	logger.Debug("computing spectrogram")

	var ts []float64
	var cols [][]float64

	cursor := 0
	for k := 0; k < numWindows; k++ {
		winStart := t0 + float64(k)*cfg.WindowTime
		winEnd := winStart + cfg.WindowTime

		lo := cursor
		for lo < len(t) && t[lo] < winStart {
			lo++
		}
		hi := lo
		for hi < len(t) && t[hi] < winEnd {
			hi++
		}
		cursor = hi

		if k%ds != 0 {
			continue
		}

		var mags []float64
		if hi-lo < 2 {
			mags = common.NaNs(len(f))
		} else {
			samples := common.Demean(values[lo:hi])
			windowing.ApplyInPlace(cfg.Taper, samples)
			mags = spectral.Magnitudes(t[lo:hi], samples, f, cfg.Estimator)
			if cfg.PowerDB {
				toDecibels(mags, cfg.FloorDB)
			}
		}

		ts = append(ts, winStart)
		cols = append(cols, mags)
	}

	out.TS = ts
	for i := range out.Spec {
		row := make([]float64, len(cols))
		for k := range cols {
			row[k] = cols[k][i]
		}
		out.Spec[i] = row
	}

	logger.Debug("spectrogram computed", logging.Fields{"columns": len(ts)})

	return out, nil
}

// toDecibels converts magnitudes to dB power in place, clamping below floorDB
func toDecibels(mags []float64, floorDB float64) {
	floor := math.Pow(10, floorDB/10.0)
	for i, m := range mags {
		power := m * m
		if power < floor {
			power = floor
		}
		mags[i] = 10 * math.Log10(power)
	}
}
