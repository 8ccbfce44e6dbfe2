package spectral_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiokit/pulsegram/algorithms/spectral"
)

// triangle builds a triangular peak centered at f0 with half-height
// crossings at f0±delta (zero baseline, unit peak).
func triangle(f0, delta, fmax, step float64) (freqs, spectrum []float64) {
	for f := 0.0; f <= fmax+step/2; f += step {
		freqs = append(freqs, f)
		v := 1 - math.Abs(f-f0)/(2*delta)
		if v < 0 {
			v = 0
		}
		spectrum = append(spectrum, v)
	}
	return freqs, spectrum
}

func TestFWHMTriangularPeak(t *testing.T) {
	freqs, spectrum := triangle(5.0, 2.0, 10.0, 0.25)

	width, low, high := spectral.FWHM(freqs, spectrum)
	assert.InDelta(t, 3.0, low, 0.25)
	assert.InDelta(t, 7.0, high, 0.25)
	assert.InDelta(t, 4.0, width, 0.25)
}

func TestFWHMSubBinInterpolation(t *testing.T) {
	// Crossings at 4.9 and 7.1 do not land on the 0.5-wide grid; linear
	// interpolation must recover them anyway.
	freqs, spectrum := triangle(6.0, 1.1, 12.0, 0.5)

	width, low, high := spectral.FWHM(freqs, spectrum)
	assert.InDelta(t, 4.9, low, 1e-9)
	assert.InDelta(t, 7.1, high, 1e-9)
	assert.InDelta(t, 2.2, width, 1e-9)
}

func TestFWHMPeakAtBoundary(t *testing.T) {
	// Monotonically increasing spectrum: peak at the last bin, no crossing
	// above it.
	freqs := []float64{1, 2, 3, 4, 5}
	spectrum := []float64{0, 1, 2, 3, 4}

	width, low, high := spectral.FWHM(freqs, spectrum)
	assert.False(t, math.IsNaN(low))
	assert.True(t, math.IsNaN(high))
	assert.True(t, math.IsNaN(width))
}

func TestFWHMFlatSpectrum(t *testing.T) {
	freqs := []float64{1, 2, 3, 4}
	spectrum := []float64{2, 2, 2, 2}

	width, low, high := spectral.FWHM(freqs, spectrum)
	assert.True(t, math.IsNaN(width))
	assert.True(t, math.IsNaN(low))
	assert.True(t, math.IsNaN(high))
}

func TestFWHMAllNaNSpectrum(t *testing.T) {
	freqs := []float64{1, 2, 3, 4}
	spectrum := []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}

	width, low, high := spectral.FWHM(freqs, spectrum)
	require.True(t, math.IsNaN(width))
	require.True(t, math.IsNaN(low))
	require.True(t, math.IsNaN(high))
}
