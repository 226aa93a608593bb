package kick

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kick.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultAnalyzerConfig_Valid(t *testing.T) {
	t.Parallel()

	if err := DefaultAnalyzerConfig().Validate(); err != nil {
		t.Errorf("DefaultAnalyzerConfig().Validate() error = %v", err)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		"window_size": 2750,
		"selection": "loudest",
		"filter_mode": "fft",
		"decoder": {"target_sample_rate": 22050, "max_duration": "10s"}
	}`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.WindowSize != 2750 || config.Selection != "loudest" || config.FilterMode != FilterFFT {
		t.Errorf("LoadConfig() = %+v, want overridden window, selection and filter", config)
	}
	if config.Decoder.TargetSampleRate != 22050 || config.Decoder.MaxDuration != 10*time.Second {
		t.Errorf("Decoder = %+v, want 22050 Hz and 10s", config.Decoder)
	}

	// Untouched fields keep their defaults.
	def := DefaultAnalyzerConfig()
	if config.SampleRate != def.SampleRate || config.MinTempo != def.MinTempo || config.Lookahead != def.Lookahead {
		t.Errorf("LoadConfig() lost defaults: %+v", config)
	}
	if config.Decoder.ResampleMethod != def.Decoder.ResampleMethod {
		t.Errorf("Decoder.ResampleMethod = %q, want %q", config.Decoder.ResampleMethod, def.Decoder.ResampleMethod)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.json")},
		{"malformed json", writeConfig(t, `{"window_size": `)},
		{"invalid value", writeConfig(t, `{"window_size": -1}`)},
	}

	for _, tt := range tests {
		if _, err := LoadConfig(tt.path); err == nil {
			t.Errorf("%s: LoadConfig() error = nil, want error", tt.name)
		}
	}
}

func TestAnalyzerConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*AnalyzerConfig)
		wantErr bool
	}{
		{"defaults", func(*AnalyzerConfig) {}, false},
		{"no filter ignores band", func(c *AnalyzerConfig) { c.FilterMode = FilterNone; c.LowCutoff = -1 }, false},
		{"empty filter mode", func(c *AnalyzerConfig) { c.FilterMode = "" }, false},
		{"nil decoder", func(c *AnalyzerConfig) { c.Decoder = nil }, false},
		{"zero sample rate", func(c *AnalyzerConfig) { c.SampleRate = 0 }, true},
		{"zero window", func(c *AnalyzerConfig) { c.WindowSize = 0 }, true},
		{"unknown selection", func(c *AnalyzerConfig) { c.Selection = "quietest" }, true},
		{"loudest without fraction", func(c *AnalyzerConfig) { c.Selection = "loudest"; c.KeepFraction = 0 }, true},
		{"band narrower than an octave", func(c *AnalyzerConfig) { c.MaxTempo = 150 }, true},
		{"zero lookahead", func(c *AnalyzerConfig) { c.Lookahead = 0 }, true},
		{"unknown filter", func(c *AnalyzerConfig) { c.FilterMode = "comb" }, true},
		{"inverted band", func(c *AnalyzerConfig) { c.LowCutoff = 200 }, true},
		{"band above nyquist", func(c *AnalyzerConfig) { c.HighCutoff = 30000 }, true},
		{"zero q", func(c *AnalyzerConfig) { c.FilterQ = 0 }, true},
		{"bad decoder", func(c *AnalyzerConfig) { c.Decoder.ResampleMethod = "sinc" }, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := DefaultAnalyzerConfig()
			tt.modify(config)

			if err := config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFilterMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]FilterMode{
		"":       FilterBiquad,
		"none":   FilterNone,
		"biquad": FilterBiquad,
		"fft":    FilterFFT,
	} {
		got, err := ParseFilterMode(in)
		if err != nil || got != want {
			t.Errorf("ParseFilterMode(%q) = %q, %v, want %q", in, got, err, want)
		}
	}

	if _, err := ParseFilterMode("FFT"); err == nil {
		t.Error("ParseFilterMode(FFT) error = nil, want error")
	}
}
