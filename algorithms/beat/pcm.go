package beat

import (
	"fmt"
	"math"
)

// PCMBuffer holds a decoded stereo track as two equal-length channels of
// sample amplitudes, nominally in [-1.0, 1.0].
//
// The buffer is borrowed by the extractor for the duration of a call and is
// never modified.
type PCMBuffer struct {
	Left  []float64
	Right []float64
}

// NewPCMBuffer creates a buffer from separate channels.
func NewPCMBuffer(left, right []float64) PCMBuffer {
	return PCMBuffer{Left: left, Right: right}
}

// NewMonoPCMBuffer creates a buffer whose channels share the same samples.
func NewMonoPCMBuffer(samples []float64) PCMBuffer {
	return PCMBuffer{Left: samples, Right: samples}
}

// Len returns the frame count of the buffer.
func (p PCMBuffer) Len() int {
	return len(p.Left)
}

// Validate checks that both channels have the same length and that every
// sample is finite.
func (p PCMBuffer) Validate() error {
	if len(p.Left) != len(p.Right) {
		return fmt.Errorf("%w: channel lengths differ (left=%d, right=%d)",
			ErrInvalidInput, len(p.Left), len(p.Right))
	}

	for i := range p.Left {
		if !isFinite(p.Left[i]) {
			return fmt.Errorf("%w: non-finite sample %v in left channel at %d", ErrInvalidInput, p.Left[i], i)
		}
		if !isFinite(p.Right[i]) {
			return fmt.Errorf("%w: non-finite sample %v in right channel at %d", ErrInvalidInput, p.Right[i], i)
		}
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
