package common

import (
	"fmt"
)

// InterpolationType defines interpolation method
type InterpolationType int

const (
	Linear InterpolationType = iota
	Cubic
)

// ParseInterpolationType converts a config string into an InterpolationType.
func ParseInterpolationType(s string) (InterpolationType, error) {
	switch s {
	case "", "linear":
		return Linear, nil
	case "cubic":
		return Cubic, nil
	default:
		return Linear, fmt.Errorf("unknown interpolation %q", s)
	}
}

// Interpolator reads signals at fractional indices.
type Interpolator struct {
	method InterpolationType
}

// NewInterpolator creates a new interpolator
func NewInterpolator(method InterpolationType) *Interpolator {
	return &Interpolator{method: method}
}

// Interpolate performs interpolation at fractional index
func (interp *Interpolator) Interpolate(data []float64, index float64) float64 {
	if interp.method == Cubic {
		return interp.cubicInterpolate(data, index)
	}
	return interp.linearInterpolate(data, index)
}

func (interp *Interpolator) linearInterpolate(data []float64, index float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	if index <= 0 {
		return data[0]
	}
	if index >= float64(len(data)-1) {
		return data[len(data)-1]
	}

	i := int(index)
	frac := index - float64(i)
	return data[i] + frac*(data[i+1]-data[i])
}

// cubicInterpolate uses a Catmull-Rom spline and falls back to linear
// interpolation where four neighbours are not available.
func (interp *Interpolator) cubicInterpolate(data []float64, index float64) float64 {
	if len(data) < 4 || index < 1 || index >= float64(len(data)-2) {
		return interp.linearInterpolate(data, index)
	}

	i := int(index)
	frac := index - float64(i)

	y0 := data[i-1]
	y1 := data[i]
	y2 := data[i+1]
	y3 := data[i+2]

	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*frac*frac*frac + a1*frac*frac + a2*frac + a3
}

// ResampleSignal resamples a signal to a new sample rate. The input is
// returned unchanged when the rates match or are invalid.
func (interp *Interpolator) ResampleSignal(signal []float64, originalRate, targetRate int) []float64 {
	if len(signal) == 0 || originalRate <= 0 || targetRate <= 0 || originalRate == targetRate {
		return signal
	}

	ratio := float64(originalRate) / float64(targetRate)
	newLength := int(float64(len(signal)) / ratio)
	if newLength <= 0 {
		return []float64{}
	}

	resampled := make([]float64, newLength)
	for i := range resampled {
		resampled[i] = interp.Interpolate(signal, float64(i)*ratio)
	}
	return resampled
}
