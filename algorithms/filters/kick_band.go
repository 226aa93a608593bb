package filters

import "fmt"

const (
	// DefaultKickLowCutoff removes most of the bassline below the kick.
	DefaultKickLowCutoff = 100.0
	// DefaultKickHighCutoff removes most of the track above the kick.
	DefaultKickHighCutoff = 150.0
	// DefaultKickQ is the quality factor of both cascade stages.
	DefaultKickQ = 1.0
)

// StereoFilter filters a pair of channels into new slices.
type StereoFilter interface {
	ProcessStereo(left, right []float64) ([]float64, []float64)
}

// KickBandFilter isolates the kick drum band with a lowpass stage followed
// by a highpass stage. Each call starts from a cleared delay line, so the
// filter can be shared between goroutines.
type KickBandFilter struct {
	sampleRate int
	lowCutoff  float64
	highCutoff float64
	qFactor    float64
	removeDC   bool
}

// NewKickBandFilter creates a cascade passing roughly [lowCutoff, highCutoff].
func NewKickBandFilter(sampleRate int, lowCutoff, highCutoff, qFactor float64) (*KickBandFilter, error) {
	if lowCutoff >= highCutoff {
		return nil, fmt.Errorf("low cutoff %v must be below high cutoff %v", lowCutoff, highCutoff)
	}

	kf := &KickBandFilter{
		sampleRate: sampleRate,
		lowCutoff:  lowCutoff,
		highCutoff: highCutoff,
		qFactor:    qFactor,
	}

	// Surface parameter errors at construction time.
	if _, err := kf.newCascade(); err != nil {
		return nil, err
	}
	return kf, nil
}

// WithDCRemoval returns a copy of the filter that blocks DC before the cascade.
func (kf *KickBandFilter) WithDCRemoval() *KickBandFilter {
	cp := *kf
	cp.removeDC = true
	return &cp
}

type cascade struct {
	dc       *DCRemoval
	lowpass  *Biquad
	highpass *Biquad
}

func (kf *KickBandFilter) newCascade() (*cascade, error) {
	lowpass, err := NewLowpass(kf.sampleRate, kf.highCutoff, kf.qFactor)
	if err != nil {
		return nil, fmt.Errorf("lowpass stage: %w", err)
	}
	highpass, err := NewHighpass(kf.sampleRate, kf.lowCutoff, kf.qFactor)
	if err != nil {
		return nil, fmt.Errorf("highpass stage: %w", err)
	}

	c := &cascade{lowpass: lowpass, highpass: highpass}
	if kf.removeDC {
		c.dc = NewDCRemoval(kf.sampleRate, DefaultDCCutoff)
	}
	return c, nil
}

func (c *cascade) process(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		if c.dc != nil {
			sample = c.dc.Process(sample)
		}
		output[i] = c.highpass.Process(c.lowpass.Process(sample))
	}
	return output
}

// Process filters a single channel.
func (kf *KickBandFilter) Process(input []float64) []float64 {
	c, err := kf.newCascade()
	if err != nil {
		// Parameters were validated by the constructor.
		panic(err)
	}
	return c.process(input)
}

// ProcessStereo filters both channels with independent state.
func (kf *KickBandFilter) ProcessStereo(left, right []float64) ([]float64, []float64) {
	return kf.Process(left), kf.Process(right)
}
