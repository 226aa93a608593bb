package transcode

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
)

// AIFFDecoder decodes AIFF PCM files.
type AIFFDecoder struct{}

func (AIFFDecoder) Decode(r io.Reader) (*AudioData, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an aiff file", ErrInvalidData)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading aiff samples: %w", err)
	}

	samples, err := intBufferToFloat(buf, int(dec.BitDepth), false)
	if err != nil {
		return nil, err
	}

	return newAudioData(samples, buf.Format.NumChannels, buf.Format.SampleRate, "aiff")
}
