package transcode

import "errors"

var (
	// ErrUnsupportedFormat is returned when no decoder is registered for a format.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrInvalidData is returned when input bytes do not match the format.
	ErrInvalidData = errors.New("invalid audio data")
	// ErrEmptyAudio is returned when a stream decodes to zero frames.
	ErrEmptyAudio = errors.New("empty audio data")
)
