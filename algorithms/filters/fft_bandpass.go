package filters

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// FFTBandpass is an offline brick-wall bandpass. The whole buffer is
// transformed, bins outside [low, high] are zeroed and the result is
// transformed back.
type FFTBandpass struct {
	sampleRate int
	low        float64
	high       float64
}

// NewFFTBandpass creates a brick-wall filter keeping [low, high] Hz.
func NewFFTBandpass(sampleRate int, low, high float64) (*FFTBandpass, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if low < 0 || high <= low {
		return nil, fmt.Errorf("invalid band [%v, %v]", low, high)
	}
	return &FFTBandpass{sampleRate: sampleRate, low: low, high: high}, nil
}

// Process filters a single channel.
func (fb *FFTBandpass) Process(input []float64) []float64 {
	n := len(input)
	if n == 0 {
		return []float64{}
	}

	spectrum := fft.FFTReal(input)
	binWidth := float64(fb.sampleRate) / float64(n)

	for k := range spectrum {
		// Mirror bins above Nyquist onto their positive frequency.
		bin := k
		if k > n/2 {
			bin = n - k
		}
		freq := float64(bin) * binWidth
		if freq < fb.low || freq > fb.high {
			spectrum[k] = 0
		}
	}

	inverse := fft.IFFT(spectrum)
	output := make([]float64, n)
	for i, v := range inverse {
		output[i] = real(v)
	}
	return output
}

// ProcessStereo filters both channels.
func (fb *FFTBandpass) ProcessStereo(left, right []float64) ([]float64, []float64) {
	return fb.Process(left), fb.Process(right)
}
