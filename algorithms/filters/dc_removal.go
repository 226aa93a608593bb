package filters

import (
	"math"

	"github.com/RyanBlaney/sonido-kick/algorithms/common"
)

// DefaultDCCutoff sits well below the kick band.
const DefaultDCCutoff = 20.0

// DCRemoval is a one-pole DC blocker.
//
// Reference: Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
// https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type DCRemoval struct {
	poleLocation float64 // R parameter (0 < R < 1)

	x1 float64 // x[n-1]
	y1 float64 // y[n-1]
}

// NewDCRemoval creates a DC blocker with an approximate -3dB cutoff.
// R = 1 - 2*pi*fc/fs, clamped to (0, 1).
func NewDCRemoval(sampleRate int, cutoffFreq float64) *DCRemoval {
	pole := 1.0 - 2.0*math.Pi*cutoffFreq/float64(sampleRate)
	return &DCRemoval{poleLocation: common.Clamp(pole, 0.001, 0.999)}
}

// Process applies y[n] = x[n] - x[n-1] + R*y[n-1].
func (dc *DCRemoval) Process(input float64) float64 {
	output := input - dc.x1 + dc.poleLocation*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}
