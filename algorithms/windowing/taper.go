// Package windowing provides taper windows applied to a block of samples
// before spectral estimation.
package windowing

import "math"

// Taper selects the taper shape
type Taper int

const (
	Rectangular Taper = iota
	Hann
	Hamming
)

func (t Taper) String() string {
	switch t {
	case Rectangular:
		return "rectangular"
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	default:
		return "unknown"
	}
}

// Coefficients generates symmetric taper coefficients of the given length
func Coefficients(t Taper, size int) []float64 {
	coeffs := make([]float64, size)

	if size == 1 {
		coeffs[0] = 1.0
		return coeffs
	}

	denominator := float64(size - 1)
	for i := 0; i < size; i++ {
		switch t {
		case Hann:
			coeffs[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
		case Hamming:
			coeffs[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denominator)
		default:
			coeffs[i] = 1.0
		}
	}

	return coeffs
}

// ApplyInPlace multiplies the signal by the taper coefficients in-place.
// The taper is generated to match the signal length, so shrinking windows
// at record edges stay usable.
func ApplyInPlace(t Taper, signal []float64) {
	if t == Rectangular || len(signal) == 0 {
		return
	}

	coeffs := Coefficients(t, len(signal))
	for i := range signal {
		signal[i] *= coeffs[i]
	}
}
