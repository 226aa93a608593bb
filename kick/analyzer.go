package kick

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/RyanBlaney/sonido-kick/algorithms/beat"
	"github.com/RyanBlaney/sonido-kick/algorithms/common"
	"github.com/RyanBlaney/sonido-kick/algorithms/filters"
	"github.com/RyanBlaney/sonido-kick/logging"
	"github.com/RyanBlaney/sonido-kick/transcode"
)

// Analysis is the result of analyzing one track.
type Analysis struct {
	Source     string            `json:"source,omitempty"`
	Tempo      int               `json:"tempo"`      // Dominant folded BPM, 0 when nothing voted
	Confidence float64           `json:"confidence"` // Share of votes won by Tempo
	Groups     []beat.TempoGroup `json:"groups"`     // In order of first occurrence
	Peaks      []beat.Peak       `json:"peaks"`
	Positions  []float64         `json:"positions"` // Peaks as fractions of the track length
	Volume     VolumeStats       `json:"volume"`

	FrameCount int           `json:"frame_count"`
	SampleRate int           `json:"sample_rate"`
	WindowSize int           `json:"window_size"` // Window used at SampleRate
	Duration   time.Duration `json:"duration"`
}

// VolumeStats summarizes the volumes of the selected peaks.
type VolumeStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
	RMS    float64 `json:"rms"`
}

// Analyzer runs the kick detection pipeline.
type Analyzer struct {
	config     *AnalyzerConfig
	selection  beat.SelectionMode
	filterMode FilterMode
	transcoder *transcode.Transcoder
	logger     logging.Logger
}

// NewAnalyzer creates an analyzer. A nil config selects the defaults.
func NewAnalyzer(config *AnalyzerConfig) (*Analyzer, error) {
	if config == nil {
		config = DefaultAnalyzerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	selection, _ := beat.ParseSelectionMode(config.Selection)
	filterMode, _ := ParseFilterMode(string(config.FilterMode))

	transcoder, err := transcode.NewTranscoder(config.Decoder, nil)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		config:     config,
		selection:  selection,
		filterMode: filterMode,
		transcoder: transcoder,
		logger: logging.WithFields(logging.Fields{
			"component": "kick_analyzer",
		}),
	}, nil
}

// Transcoder returns the decoder used by AnalyzeFile.
func (a *Analyzer) Transcoder() *transcode.Transcoder {
	return a.transcoder
}

// AnalyzeFile decodes an audio file and analyzes it.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*Analysis, error) {
	logger := a.logger.WithContext(ctx).WithFields(logging.Fields{
		"function": "AnalyzeFile",
		"path":     path,
	})

	data, err := a.transcoder.DecodeFile(ctx, path)
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, err
	}

	analysis, err := a.Analyze(ctx, beat.NewPCMBuffer(data.Left, data.Right), data.SampleRate)
	if err != nil {
		return nil, err
	}
	analysis.Source = path

	return analysis, nil
}

// Analyze detects kick peaks and the dominant tempo of pcm. The window size
// is scaled from the configured sample rate to sampleRate, so a window
// always covers the same stretch of time.
func (a *Analyzer) Analyze(ctx context.Context, pcm beat.PCMBuffer, sampleRate int) (*Analysis, error) {
	logger := a.logger.WithContext(ctx).WithFields(logging.Fields{
		"function":    "Analyze",
		"sample_rate": sampleRate,
		"frames":      pcm.Len(),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sampleRate <= 0 {
		err := fmt.Errorf("%w: sample rate must be positive, got %d", beat.ErrInvalidInput, sampleRate)
		logger.Error(err, "Invalid sample rate")
		return nil, err
	}

	if err := pcm.Validate(); err != nil {
		logger.Error(err, "Invalid PCM buffer")
		return nil, err
	}

	windowSize := a.WindowSizeFor(sampleRate)

	extractor, err := beat.NewPeakExtractorWithSelection(windowSize, a.selection, a.config.KeepFraction)
	if err != nil {
		logger.Error(err, "Failed to create peak extractor")
		return nil, err
	}

	voter, err := beat.NewTempoVoter(a.config.tempoConfig(sampleRate))
	if err != nil {
		logger.Error(err, "Failed to create tempo voter")
		return nil, err
	}

	filtered, err := a.Filter(pcm, sampleRate)
	if err != nil {
		logger.Error(err, "Failed to filter audio")
		return nil, err
	}

	logger.Debug("Extracting peaks", logging.Fields{
		"window_size": windowSize,
		"selection":   a.selection.String(),
		"filter_mode": a.filterMode,
	})

	peaks, err := extractor.Extract(filtered)
	if err != nil {
		logger.Error(err, "Peak extraction failed")
		return nil, err
	}

	positions, err := beat.NormalizePositions(peaks, pcm.Len())
	if err != nil {
		logger.Error(err, "Failed to normalize peak positions")
		return nil, err
	}

	groups := voter.Vote(peaks)

	analysis := &Analysis{
		Groups:     groups,
		Peaks:      peaks,
		Positions:  positions,
		Volume:     volumeStats(peaks),
		FrameCount: pcm.Len(),
		SampleRate: sampleRate,
		WindowSize: windowSize,
		Duration:   time.Duration(float64(pcm.Len()) / float64(sampleRate) * float64(time.Second)),
	}

	if dominant, ok := beat.Dominant(groups); ok {
		analysis.Tempo = dominant.Tempo
		analysis.Confidence = float64(dominant.Count) / float64(beat.TotalVotes(groups))
	}

	logger.Debug("Beat analysis complete", logging.Fields{
		"peaks":      len(peaks),
		"groups":     len(groups),
		"tempo":      analysis.Tempo,
		"confidence": analysis.Confidence,
	})

	return analysis, nil
}

// WindowSizeFor returns the peak window length for audio at sampleRate.
func (a *Analyzer) WindowSizeFor(sampleRate int) int {
	if sampleRate == a.config.SampleRate {
		return a.config.WindowSize
	}
	scaled := math.Round(float64(a.config.WindowSize) * float64(sampleRate) / float64(a.config.SampleRate))
	return max(1, int(scaled))
}

// Filter applies the configured front-end filter to pcm. The input is
// returned as is for FilterNone.
func (a *Analyzer) Filter(pcm beat.PCMBuffer, sampleRate int) (beat.PCMBuffer, error) {
	filter, err := a.frontEnd(sampleRate)
	if err != nil {
		return beat.PCMBuffer{}, err
	}
	if filter == nil {
		return pcm, nil
	}

	left, right := filter.ProcessStereo(pcm.Left, pcm.Right)
	return beat.NewPCMBuffer(left, right), nil
}

func (a *Analyzer) frontEnd(sampleRate int) (filters.StereoFilter, error) {
	switch a.filterMode {
	case FilterBiquad:
		kf, err := filters.NewKickBandFilter(sampleRate, a.config.LowCutoff, a.config.HighCutoff, a.config.FilterQ)
		if err != nil {
			return nil, err
		}
		if a.config.RemoveDC {
			kf = kf.WithDCRemoval()
		}
		return kf, nil
	case FilterFFT:
		fb, err := filters.NewFFTBandpass(sampleRate, a.config.LowCutoff, a.config.HighCutoff)
		if err != nil {
			return nil, err
		}
		return fb, nil
	default:
		return nil, nil
	}
}

func volumeStats(peaks []beat.Peak) VolumeStats {
	if len(peaks) == 0 {
		return VolumeStats{}
	}

	volumes := make([]float64, len(peaks))
	for i, p := range peaks {
		volumes[i] = p.Volume
	}

	return VolumeStats{
		Mean:   common.Mean(volumes),
		Median: common.Percentile(volumes, 0.5),
		StdDev: common.StandardDeviation(volumes),
		Max:    common.Max(volumes),
		RMS:    common.RMS(volumes),
	}
}
