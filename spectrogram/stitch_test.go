package spectrogram_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiokit/pulsegram"
	"github.com/physiokit/pulsegram/spectrogram"
)

// fakeReader serves synthetic epochs from memory
type fakeReader struct {
	element string
	epochs  []spectrogram.Epoch
	signals map[string]struct{ times, values []float64 }
	reads   int
}

func (r *fakeReader) ListEpochs(elementRef string) ([]spectrogram.Epoch, error) {
	if elementRef != r.element {
		return nil, fmt.Errorf("%w: element %q", pulsegram.ErrNotFound, elementRef)
	}
	return r.epochs, nil
}

func (r *fakeReader) ReadSignal(elementRef, epochID string, t0, t1 float64) ([]float64, []float64, error) {
	if elementRef != r.element {
		return nil, nil, fmt.Errorf("%w: element %q", pulsegram.ErrNotFound, elementRef)
	}
	r.reads++

	sig, ok := r.signals[epochID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: epoch %q", pulsegram.ErrNotFound, epochID)
	}

	var values, times []float64
	for i, t := range sig.times {
		if t >= t0 && t <= t1 {
			times = append(times, t)
			values = append(values, sig.values[i])
		}
	}
	return values, times, nil
}

// epochSignal samples a 1 Hz tone at 10 Hz over [start, start+dur)
func epochSignal(start, dur float64) (times, values []float64) {
	n := int(dur * 10)
	times = make([]float64, n)
	values = make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = start + float64(i)/10
		values[i] = math.Sin(2 * math.Pi * 1.0 * times[i])
	}
	return times, values
}

// twoEpochReader builds a record whose epochs overlap in wall-clock time
// (independent local clocks), exercising the synthetic rebase.
func twoEpochReader(unified bool) *fakeReader {
	ta, va := epochSignal(100, 50)
	tb, vb := epochSignal(120, 50)

	r := &fakeReader{
		element: "gut-ppg-01",
		epochs: []spectrogram.Epoch{
			{ID: "ep-a", Start: 100, End: 150, HasUnifiedClock: unified},
			{ID: "ep-b", Start: 120, End: 170, HasUnifiedClock: unified},
		},
		signals: map[string]struct{ times, values []float64 }{
			"ep-a": {ta, va},
			"ep-b": {tb, vb},
		},
	}
	return r
}

func testStitchConfig() spectrogram.StitchConfig {
	cfg := spectrogram.DefaultStitchConfig()
	cfg.Engine = testEngineConfig()
	return cfg
}

func TestStitchSyntheticTimeAxis(t *testing.T) {
	reader := twoEpochReader(false)

	s, err := spectrogram.Stitch(reader, "gut-ppg-01", testStitchConfig())
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	// 5 columns per 50 s epoch
	require.Len(t, s.TS, 10)

	// Strictly increasing across the epoch seam despite overlapping
	// wall-clock ranges
	for k := 1; k < len(s.TS); k++ {
		assert.Greater(t, s.TS[k], s.TS[k-1])
	}

	// Synthetic axis: epoch B resumes exactly one column interval after
	// epoch A's last window start
	assert.InDelta(t, 0.0, s.TS[0], 1e-9)
	assert.InDelta(t, 50.0, s.TS[5], 1e-9)
	assert.Equal(t, 2, reader.reads)
}

func TestStitchSyntheticAcrossGap(t *testing.T) {
	reader := twoEpochReader(false)
	// Push epoch B far away in wall-clock time; the synthetic axis must
	// not care.
	reader.epochs[1].Start = 10000
	reader.epochs[1].End = 10050
	tb, vb := epochSignal(10000, 50)
	reader.signals["ep-b"] = struct{ times, values []float64 }{tb, vb}

	s, err := spectrogram.Stitch(reader, "gut-ppg-01", testStitchConfig())
	require.NoError(t, err)
	require.Len(t, s.TS, 10)
	assert.InDelta(t, 50.0, s.TS[5], 1e-9)
	assert.InDelta(t, 90.0, s.TS[9], 1e-9)
}

func TestStitchUnifiedSingleRead(t *testing.T) {
	reader := twoEpochReader(true)

	cfg := testStitchConfig()
	cfg.Normalize = true
	cfg.NormalizeWindow = 0 // whole-signal z-score

	s, err := spectrogram.Stitch(reader, "gut-ppg-01", cfg)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, 1, reader.reads)
	assert.NotZero(t, s.NumColumns())
	for k := 1; k < len(s.TS); k++ {
		assert.Greater(t, s.TS[k], s.TS[k-1])
	}
}

func TestStitchProgressCallback(t *testing.T) {
	reader := twoEpochReader(false)

	var calls [][2]int
	cfg := testStitchConfig()
	cfg.Progress = func(current, total int, message string) {
		calls = append(calls, [2]int{current, total})
	}

	_, err := spectrogram.Stitch(reader, "gut-ppg-01", cfg)
	require.NoError(t, err)
	require.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
}

func TestStitchNotFound(t *testing.T) {
	reader := twoEpochReader(false)

	_, err := spectrogram.Stitch(reader, "no-such-element", testStitchConfig())
	assert.ErrorIs(t, err, pulsegram.ErrNotFound)
}

func TestStitchTrueGapUnsupported(t *testing.T) {
	reader := twoEpochReader(false)

	cfg := testStitchConfig()
	cfg.Rebase = spectrogram.RebaseTrueGap

	_, err := spectrogram.Stitch(reader, "gut-ppg-01", cfg)
	assert.ErrorIs(t, err, pulsegram.ErrInvalidArgument)
}
