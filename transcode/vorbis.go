package transcode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis streams.
type VorbisDecoder struct{}

func (VorbisDecoder) Decode(r io.Reader) (*AudioData, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	interleaved := make([]float64, len(samples))
	for i, v := range samples {
		interleaved[i] = float64(v)
	}

	return newAudioData(interleaved, format.Channels, format.SampleRate, "ogg")
}
