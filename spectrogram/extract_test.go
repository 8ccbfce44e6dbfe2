package spectrogram_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiokit/pulsegram"
	"github.com/physiokit/pulsegram/spectrogram"
)

// gridSpectrogram builds a spectrogram with one column per second where
// Spec[i][k] = k + 100*i, making column selection easy to verify.
func gridSpectrogram(freqs []float64, columns int) *spectrogram.Spectrogram {
	s := &spectrogram.Spectrogram{
		F:    freqs,
		TS:   make([]float64, columns),
		Spec: make([][]float64, len(freqs)),
	}
	for k := 0; k < columns; k++ {
		s.TS[k] = float64(k)
	}
	for i := range freqs {
		s.Spec[i] = make([]float64, columns)
		for k := 0; k < columns; k++ {
			s.Spec[i][k] = float64(k) + 100*float64(i)
		}
	}
	return s
}

func TestExtractWindowsTrailing(t *testing.T) {
	s := gridSpectrogram([]float64{1, 2}, 100)

	// Anchor 50, skip 2, duration 5: window spans [43, 48)
	events, err := s.ExtractWindows([]float64{50}, spectrogram.WindowSpec{
		Skip:     2,
		Duration: 5,
		Policy:   spectrogram.Trailing,
	})
	require.NoError(t, err)
	require.Len(t, events.Spectra, 1)

	// Columns 43..47 average to 45
	assert.InDelta(t, 45, events.Spectra[0][0], 1e-9)
	assert.InDelta(t, 145, events.Spectra[0][1], 1e-9)
	assert.Equal(t, s.F, events.F)
}

func TestExtractWindowsLeading(t *testing.T) {
	s := gridSpectrogram([]float64{1, 2}, 100)

	// Anchor 60, skip 2, duration 5: window spans [62, 67)
	events, err := s.ExtractWindows([]float64{60}, spectrogram.WindowSpec{
		Skip:     2,
		Duration: 5,
		Policy:   spectrogram.Leading,
	})
	require.NoError(t, err)
	assert.InDelta(t, 64, events.Spectra[0][0], 1e-9)
}

func TestExtractWindowsOutOfRangeDoesNotAbort(t *testing.T) {
	s := gridSpectrogram([]float64{1, 2}, 100)

	// First anchor's window lies entirely before the record
	events, err := s.ExtractWindows([]float64{-500, 50}, spectrogram.WindowSpec{
		Skip:     2,
		Duration: 5,
		Policy:   spectrogram.Trailing,
	})
	require.NoError(t, err)
	require.Len(t, events.Spectra, 2)

	for _, v := range events.Spectra[0] {
		assert.True(t, math.IsNaN(v))
	}
	assert.InDelta(t, 45, events.Spectra[1][0], 1e-9)
}

func TestExtractWindowsInvalidSpec(t *testing.T) {
	s := gridSpectrogram([]float64{1, 2}, 10)

	_, err := s.ExtractWindows([]float64{5}, spectrogram.WindowSpec{Skip: 0, Duration: 0})
	assert.ErrorIs(t, err, pulsegram.ErrInvalidArgument)

	_, err = s.ExtractWindows([]float64{5}, spectrogram.WindowSpec{Skip: -1, Duration: 5})
	assert.ErrorIs(t, err, pulsegram.ErrInvalidArgument)
}

func TestExtractSingleColumnRoundTrip(t *testing.T) {
	// Feeding the engine's own timestamps back with a window matching one
	// column must reproduce that column unchanged.
	times, values := toneSignal(1.0, 10, 100)

	s, err := spectrogram.Compute(times, values, testEngineConfig())
	require.NoError(t, err)
	require.NotZero(t, s.NumColumns())

	for _, k := range []int{0, 4, s.NumColumns() - 1} {
		events, err := s.ExtractWindows([]float64{s.TS[k]}, spectrogram.WindowSpec{
			Skip:     0,
			Duration: 10,
			Policy:   spectrogram.Leading,
		})
		require.NoError(t, err)

		col := s.Column(k)
		for i := range col {
			assert.InDelta(t, col[i], events.Spectra[0][i], 1e-12)
		}
	}
}
