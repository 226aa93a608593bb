package transcode

import (
	"fmt"
	"io"
	"math"

	"github.com/RyanBlaney/sonido-kick/algorithms/common"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVDecoder decodes RIFF/WAVE PCM files.
type WAVDecoder struct{}

func (WAVDecoder) Decode(r io.Reader) (*AudioData, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a wav file", ErrInvalidData)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading wav samples: %w", err)
	}

	samples, err := intBufferToFloat(buf, int(dec.BitDepth), true)
	if err != nil {
		return nil, err
	}

	return newAudioData(samples, int(dec.NumChans), int(dec.SampleRate), "wav")
}

// EncodeWAV writes audio as a 16-bit stereo PCM WAV file.
func EncodeWAV(w io.WriteSeeker, data *AudioData) error {
	if data == nil || len(data.Left) != len(data.Right) {
		return fmt.Errorf("%w: channels must have equal length", ErrInvalidData)
	}

	const bitDepth = 16
	enc := wav.NewEncoder(w, data.SampleRate, bitDepth, 2, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: data.SampleRate},
		Data:           make([]int, 2*len(data.Left)),
		SourceBitDepth: bitDepth,
	}
	for i := range data.Left {
		buf.Data[2*i] = toInt16(data.Left[i])
		buf.Data[2*i+1] = toInt16(data.Right[i])
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav file: %w", err)
	}
	return nil
}

func toInt16(v float64) int {
	v = common.Clamp(v, -1, 1)
	return int(math.Round(v * 32767))
}
