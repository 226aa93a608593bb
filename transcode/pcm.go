package transcode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/audio"
)

// asReadSeeker returns r as an io.ReadSeeker, buffering it in memory when
// it cannot seek. The go-audio decoders need to seek between chunks.
func asReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading audio data: %w", err)
	}
	return bytes.NewReader(data), nil
}

// intBufferToFloat normalizes integer PCM to [-1, 1]. unsigned8 marks 8-bit
// data stored with a 128 offset, as WAV does.
func intBufferToFloat(buf *audio.IntBuffer, bitDepth int, unsigned8 bool) ([]float64, error) {
	if buf == nil || buf.Format == nil {
		return nil, ErrInvalidData
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidData, bitDepth)
	}

	scale := float64(int64(1) << (bitDepth - 1))
	offset := 0.0
	if bitDepth == 8 && unsigned8 {
		offset = 128
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = (float64(v) - offset) / scale
	}
	return samples, nil
}

// int16LEToFloat converts little-endian signed 16-bit PCM bytes.
func int16LEToFloat(data []byte) []float64 {
	samples := make([]float64, len(data)/2)
	for i := range samples {
		v := int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
		samples[i] = float64(v) / 32768.0
	}
	return samples
}
