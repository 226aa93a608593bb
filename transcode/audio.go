package transcode

import (
	"time"
)

// AudioData is a decoded track as two equal-length channels. Mono sources
// are duplicated into both channels and only the first two channels of
// multichannel sources are kept.
type AudioData struct {
	Left       []float64     `json:"-"`
	Right      []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channel count of the source
	Duration   time.Duration `json:"duration"`
	Format     string        `json:"format"`
}

// Frames returns the number of sample frames.
func (a *AudioData) Frames() int {
	return len(a.Left)
}

func calculateDuration(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

// newAudioData splits interleaved samples into a stereo pair.
func newAudioData(interleaved []float64, channels, sampleRate int, format string) (*AudioData, error) {
	if channels <= 0 || sampleRate <= 0 {
		return nil, ErrInvalidData
	}

	// A mono source reads its only channel twice.
	rightChannel := min(1, channels-1)

	frames := len(interleaved) / channels
	left := make([]float64, frames)
	right := make([]float64, frames)

	for f := 0; f < frames; f++ {
		base := f * channels
		left[f] = interleaved[base]
		right[f] = interleaved[base+rightChannel]
	}

	return &AudioData{
		Left:       left,
		Right:      right,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   calculateDuration(frames, sampleRate),
		Format:     format,
	}, nil
}
