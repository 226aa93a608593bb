package transcode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RyanBlaney/sonido-kick/algorithms/common"
	"github.com/RyanBlaney/sonido-kick/logging"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"` // 0 keeps the source rate
	MaxDuration      time.Duration `json:"max_duration"`       // "30s" or nanoseconds, 0 decodes the whole track
	ResampleMethod   string        `json:"resample_method"`    // "linear", "cubic"
}

// DefaultDecoderConfig returns default decoder configuration. Only the first
// 30 seconds are analyzed, rendered at 44.1 kHz.
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 44100,
		MaxDuration:      30 * time.Second,
		ResampleMethod:   "linear",
	}
}

// Validate checks the configuration values.
func (c *DecoderConfig) Validate() error {
	if c.TargetSampleRate < 0 {
		return fmt.Errorf("target sample rate must not be negative, got %d", c.TargetSampleRate)
	}
	if c.MaxDuration < 0 {
		return fmt.Errorf("max duration must not be negative, got %v", c.MaxDuration)
	}
	if _, err := common.ParseInterpolationType(c.ResampleMethod); err != nil {
		return fmt.Errorf("resample method: %w", err)
	}
	return nil
}

// MarshalJSON writes MaxDuration as a duration string.
func (c DecoderConfig) MarshalJSON() ([]byte, error) {
	type plain DecoderConfig
	return json.Marshal(struct {
		plain
		MaxDuration string `json:"max_duration"`
	}{plain: plain(c), MaxDuration: c.MaxDuration.String()})
}

// UnmarshalJSON accepts max_duration as a duration string ("30s") or as a
// number of nanoseconds. Fields missing from data keep their current values.
func (c *DecoderConfig) UnmarshalJSON(data []byte) error {
	type plain DecoderConfig
	aux := struct {
		*plain
		MaxDuration json.RawMessage `json:"max_duration"`
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.MaxDuration) == 0 || string(aux.MaxDuration) == "null" {
		return nil
	}

	if aux.MaxDuration[0] == '"' {
		var text string
		if err := json.Unmarshal(aux.MaxDuration, &text); err != nil {
			return err
		}
		d, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("max_duration: %w", err)
		}
		c.MaxDuration = d
		return nil
	}

	var nanos int64
	if err := json.Unmarshal(aux.MaxDuration, &nanos); err != nil {
		return fmt.Errorf("max_duration: %w", err)
	}
	c.MaxDuration = time.Duration(nanos)
	return nil
}

// Transcoder decodes files and streams into analysis-ready PCM.
type Transcoder struct {
	config   *DecoderConfig
	registry *Registry
	interp   *common.Interpolator
}

// NewTranscoder creates a transcoder. nil arguments select the defaults.
func NewTranscoder(config *DecoderConfig, registry *Registry) (*Transcoder, error) {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	method, _ := common.ParseInterpolationType(config.ResampleMethod)

	return &Transcoder{
		config:   config,
		registry: registry,
		interp:   common.NewInterpolator(method),
	}, nil
}

// DecodeFile decodes an audio file, picking the decoder from its extension.
func (t *Transcoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := logging.WithContext(ctx).WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	f, err := os.Open(filename)
	if err != nil {
		logger.Error(err, "Failed to open audio file")
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	return t.DecodeReader(ctx, f, FormatFromPath(filename))
}

// DecodeReader decodes r using the decoder registered for format, then
// truncates and resamples according to the configuration.
func (t *Transcoder) DecodeReader(ctx context.Context, r io.Reader, format string) (*AudioData, error) {
	logger := logging.WithContext(ctx).WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeReader",
		"format":    format,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decoder, ok := t.registry.Get(format)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		logger.Error(err, "No decoder registered")
		return nil, err
	}

	logger.Debug("Starting audio decode")

	data, err := decoder.Decode(r)
	if err != nil {
		logger.Error(err, "Audio decode failed")
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}

	if data.Frames() == 0 {
		logger.Warn("Decoded stream has no frames")
		return nil, ErrEmptyAudio
	}

	logger.Debug("Audio decoded", logging.Fields{
		"input_sample_rate": data.SampleRate,
		"input_channels":    data.Channels,
		"input_frames":      data.Frames(),
	})

	t.truncate(data)
	t.resample(data)

	logger.Debug("Audio ready for analysis", logging.Fields{
		"sample_rate": data.SampleRate,
		"frames":      data.Frames(),
		"duration":    data.Duration,
	})

	return data, nil
}

// truncate drops everything after MaxDuration.
func (t *Transcoder) truncate(data *AudioData) {
	if t.config.MaxDuration <= 0 {
		return
	}

	maxFrames := int(t.config.MaxDuration.Seconds() * float64(data.SampleRate))
	if maxFrames > 0 && data.Frames() > maxFrames {
		data.Left = data.Left[:maxFrames]
		data.Right = data.Right[:maxFrames]
		data.Duration = calculateDuration(maxFrames, data.SampleRate)
	}
}

func (t *Transcoder) resample(data *AudioData) {
	target := t.config.TargetSampleRate
	if target <= 0 || target == data.SampleRate {
		return
	}

	data.Left = t.interp.ResampleSignal(data.Left, data.SampleRate, target)
	data.Right = t.interp.ResampleSignal(data.Right, data.SampleRate, target)
	data.SampleRate = target
	data.Duration = calculateDuration(data.Frames(), target)
}
