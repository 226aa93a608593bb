package filters

import (
	"fmt"
	"math"
)

// BiquadType selects the response of a Biquad.
type BiquadType int

const (
	Lowpass BiquadType = iota
	Highpass
)

func (t BiquadType) String() string {
	switch t {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	default:
		return "unknown"
	}
}

// Biquad is a second-order IIR section.
//
// Coefficients follow Robert Bristow-Johnson's
// "Cookbook formulae for audio EQ biquad filter coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
type Biquad struct {
	kind       BiquadType
	sampleRate int
	frequency  float64 // Cutoff or center frequency in Hz
	qFactor    float64

	// Normalized coefficients (a0 == 1)
	b0, b1, b2 float64
	a1, a2     float64

	// Transposed direct form II state
	z1, z2 float64
}

// NewBiquad creates a filter of the given type.
//
// Parameters:
//   - sampleRate: Sample rate in Hz
//   - frequency: Cutoff frequency in Hz
//   - qFactor: Quality factor, 1/sqrt(2) gives a Butterworth response
func NewBiquad(kind BiquadType, sampleRate int, frequency, qFactor float64) (*Biquad, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%s: sample rate must be positive, got %d", kind, sampleRate)
	}
	if frequency <= 0 || frequency >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("%s: frequency must be between 0 and Nyquist frequency (%d Hz), got %v", kind, sampleRate/2, frequency)
	}
	if qFactor <= 0 {
		return nil, fmt.Errorf("%s: q factor must be positive, got %v", kind, qFactor)
	}

	bq := &Biquad{
		kind:       kind,
		sampleRate: sampleRate,
		frequency:  frequency,
		qFactor:    qFactor,
	}
	bq.computeCoefficients()
	return bq, nil
}

// NewLowpass creates a second-order lowpass filter.
func NewLowpass(sampleRate int, cutoff, qFactor float64) (*Biquad, error) {
	return NewBiquad(Lowpass, sampleRate, cutoff, qFactor)
}

// NewHighpass creates a second-order highpass filter.
func NewHighpass(sampleRate int, cutoff, qFactor float64) (*Biquad, error) {
	return NewBiquad(Highpass, sampleRate, cutoff, qFactor)
}

func (bq *Biquad) computeCoefficients() {
	// w0 = 2*pi*f0/Fs
	w0 := 2.0 * math.Pi * bq.frequency / float64(bq.sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * bq.qFactor)

	var b0, b1, b2 float64
	switch bq.kind {
	case Lowpass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
	case Highpass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
	}

	a0 := 1 + alpha
	bq.b0 = b0 / a0
	bq.b1 = b1 / a0
	bq.b2 = b2 / a0
	bq.a1 = -2 * cosW0 / a0
	bq.a2 = (1 - alpha) / a0
}

// Process filters a single sample.
//
// y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2]
func (bq *Biquad) Process(input float64) float64 {
	output := bq.b0*input + bq.z1
	bq.z1 = bq.b1*input - bq.a1*output + bq.z2
	bq.z2 = bq.b2*input - bq.a2*output
	return output
}
