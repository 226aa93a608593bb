package kick

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-kick/algorithms/beat"
	"github.com/RyanBlaney/sonido-kick/algorithms/filters"
	"github.com/RyanBlaney/sonido-kick/transcode"
)

// FilterMode selects the front-end filter applied before peak extraction.
type FilterMode string

const (
	FilterNone   FilterMode = "none"   // Analyze the raw signal
	FilterBiquad FilterMode = "biquad" // Lowpass + highpass cascade
	FilterFFT    FilterMode = "fft"    // Brick-wall bandpass in the frequency domain
)

// ParseFilterMode converts a config string into a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch mode := FilterMode(s); mode {
	case FilterNone, FilterBiquad, FilterFFT:
		return mode, nil
	case "":
		return FilterBiquad, nil
	default:
		return "", fmt.Errorf("unknown filter mode %q", s)
	}
}

// AnalyzerConfig holds configuration for beat analysis
type AnalyzerConfig struct {
	// Peak extraction
	SampleRate   int     `json:"sample_rate"` // Rate WindowSize is expressed at
	WindowSize   int     `json:"window_size"`
	Selection    string  `json:"selection"` // "all", "loudest"
	KeepFraction float64 `json:"keep_fraction"`

	// Tempo voting
	Lookahead int     `json:"lookahead"`
	MinTempo  float64 `json:"min_tempo"`
	MaxTempo  float64 `json:"max_tempo"`

	// Front-end filter
	FilterMode FilterMode `json:"filter_mode"`
	LowCutoff  float64    `json:"low_cutoff"`
	HighCutoff float64    `json:"high_cutoff"`
	FilterQ    float64    `json:"filter_q"`
	RemoveDC   bool       `json:"remove_dc"`

	Decoder *transcode.DecoderConfig `json:"decoder"`
}

// DefaultAnalyzerConfig returns default analyzer configuration
func DefaultAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		SampleRate:   beat.DefaultSampleRate,
		WindowSize:   beat.DefaultWindowSize,
		Selection:    beat.SelectAll.String(),
		KeepFraction: beat.DefaultKeepFraction,
		Lookahead:    beat.DefaultLookahead,
		MinTempo:     beat.DefaultMinTempo,
		MaxTempo:     beat.DefaultMaxTempo,
		FilterMode:   FilterBiquad,
		LowCutoff:    filters.DefaultKickLowCutoff,
		HighCutoff:   filters.DefaultKickHighCutoff,
		FilterQ:      filters.DefaultKickQ,
		RemoveDC:     false,
		Decoder:      transcode.DefaultDecoderConfig(),
	}
}

// LoadConfig reads a JSON file over the default configuration. Fields
// missing from the file keep their defaults.
func LoadConfig(path string) (*AnalyzerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultAnalyzerConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the configuration values.
func (c *AnalyzerConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.WindowSize)
	}

	mode, err := beat.ParseSelectionMode(c.Selection)
	if err != nil {
		return err
	}
	if mode == beat.SelectLoudest && (c.KeepFraction <= 0 || c.KeepFraction > 1) {
		return fmt.Errorf("keep fraction must be in (0, 1], got %v", c.KeepFraction)
	}

	if err := c.tempoConfig(c.SampleRate).Validate(); err != nil {
		return err
	}

	filterMode, err := ParseFilterMode(string(c.FilterMode))
	if err != nil {
		return err
	}
	if filterMode != FilterNone {
		if c.LowCutoff <= 0 || c.LowCutoff >= c.HighCutoff {
			return fmt.Errorf("filter band [%v, %v] is invalid", c.LowCutoff, c.HighCutoff)
		}
		if c.HighCutoff >= float64(c.SampleRate)/2 {
			return fmt.Errorf("high cutoff %v must be below the Nyquist frequency", c.HighCutoff)
		}
		if filterMode == FilterBiquad && c.FilterQ <= 0 {
			return fmt.Errorf("filter q must be positive, got %v", c.FilterQ)
		}
	}

	if c.Decoder != nil {
		if err := c.Decoder.Validate(); err != nil {
			return fmt.Errorf("decoder: %w", err)
		}
	}
	return nil
}

func (c *AnalyzerConfig) tempoConfig(sampleRate int) beat.TempoConfig {
	return beat.TempoConfig{
		SampleRate: sampleRate,
		MinTempo:   c.MinTempo,
		MaxTempo:   c.MaxTempo,
		Lookahead:  c.Lookahead,
	}
}
