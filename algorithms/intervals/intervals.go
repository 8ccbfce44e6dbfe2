// Package intervals generates symmetric time windows around reference
// timestamps, typically calibration points in a recording session.
package intervals

import (
	"fmt"

	"github.com/physiokit/pulsegram"
)

// Interval is a closed time range in seconds
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Center returns the midpoint of the interval
func (iv Interval) Center() float64 {
	return (iv.Start + iv.End) / 2
}

// Width returns the length of the interval
func (iv Interval) Width() float64 {
	return iv.End - iv.Start
}

// Around returns, for each center timestamp, the symmetric interval
// [center - width/2, center + width/2].
func Around(centers []float64, width float64) ([]Interval, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: interval width must be positive, got %v", pulsegram.ErrInvalidArgument, width)
	}

	half := width / 2
	out := make([]Interval, len(centers))
	for i, c := range centers {
		out[i] = Interval{Start: c - half, End: c + half}
	}

	return out, nil
}

// CalibrationPoint associates a reference timestamp with a label (e.g. the
// bath temperature applied at that time). Calibration tables are supplied
// by the caller as data; none are embedded here.
type CalibrationPoint struct {
	Center float64 `json:"center"`
	Label  string  `json:"label"`
}

// LabeledInterval is an interval carrying its calibration label
type LabeledInterval struct {
	Interval
	Label string `json:"label"`
}

// ForCalibration expands each calibration point into its symmetric interval,
// preserving the point's label.
func ForCalibration(points []CalibrationPoint, width float64) ([]LabeledInterval, error) {
	centers := make([]float64, len(points))
	for i, p := range points {
		centers[i] = p.Center
	}

	ivs, err := Around(centers, width)
	if err != nil {
		return nil, err
	}

	out := make([]LabeledInterval, len(points))
	for i, p := range points {
		out[i] = LabeledInterval{Interval: ivs[i], Label: p.Label}
	}

	return out, nil
}
