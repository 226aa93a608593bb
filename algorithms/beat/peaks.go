package beat

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// DefaultWindowSize is the window length in samples at 44.1 kHz,
// roughly 0.125 seconds of audio.
const DefaultWindowSize = 5500

// DefaultKeepFraction is the share of peaks retained by SelectLoudest.
const DefaultKeepFraction = 0.5

// Peak is the loudest sample of one analysis window.
type Peak struct {
	Position int     `json:"position"` // Sample index in the buffer
	Volume   float64 `json:"volume"`   // max(|left|, |right|) at Position
}

// SelectionMode controls which per-window peaks survive the filter pass.
type SelectionMode int

const (
	// SelectAll keeps every per-window peak. The volume sort only
	// reorders them.
	SelectAll SelectionMode = iota
	// SelectLoudest keeps only the loudest fraction of peaks.
	SelectLoudest
)

func (m SelectionMode) String() string {
	switch m {
	case SelectAll:
		return "all"
	case SelectLoudest:
		return "loudest"
	default:
		return "unknown"
	}
}

// ParseSelectionMode converts a config string into a SelectionMode.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch s {
	case "", "all":
		return SelectAll, nil
	case "loudest":
		return SelectLoudest, nil
	default:
		return SelectAll, fmt.Errorf("%w: unknown selection mode %q", ErrInvalidInput, s)
	}
}

// PeakExtractor slices PCM into fixed windows and picks one peak per window.
type PeakExtractor struct {
	windowSize   int
	mode         SelectionMode
	keepFraction float64
}

// NewPeakExtractor creates an extractor that keeps every window peak.
func NewPeakExtractor(windowSize int) (*PeakExtractor, error) {
	return NewPeakExtractorWithSelection(windowSize, SelectAll, DefaultKeepFraction)
}

// NewPeakExtractorWithSelection creates an extractor with an explicit
// selection mode. keepFraction is only consulted for SelectLoudest and must
// lie in (0, 1].
func NewPeakExtractorWithSelection(windowSize int, mode SelectionMode, keepFraction float64) (*PeakExtractor, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidInput, windowSize)
	}
	if mode == SelectLoudest && (keepFraction <= 0 || keepFraction > 1 || math.IsNaN(keepFraction)) {
		return nil, fmt.Errorf("%w: keep fraction must be in (0, 1], got %v", ErrInvalidInput, keepFraction)
	}

	return &PeakExtractor{
		windowSize:   windowSize,
		mode:         mode,
		keepFraction: keepFraction,
	}, nil
}

// ExtractPeaks returns one peak per complete window of pcm, ordered by
// position. An empty buffer yields an empty list.
func ExtractPeaks(pcm PCMBuffer, windowSize int) ([]Peak, error) {
	pe, err := NewPeakExtractor(windowSize)
	if err != nil {
		return nil, err
	}
	return pe.Extract(pcm)
}

// WindowSize returns the window length in samples.
func (pe *PeakExtractor) WindowSize() int {
	return pe.windowSize
}

// Mode returns the selection mode.
func (pe *PeakExtractor) Mode() SelectionMode {
	return pe.mode
}

// Extract runs the window scan followed by the selection pass.
func (pe *PeakExtractor) Extract(pcm PCMBuffer) ([]Peak, error) {
	if err := pcm.Validate(); err != nil {
		return nil, err
	}

	windows := pcm.Len() / pe.windowSize
	peaks := make([]Peak, 0, windows)

	for w := 0; w < windows; w++ {
		peaks = append(peaks, windowPeak(pcm, w*pe.windowSize, (w+1)*pe.windowSize))
	}

	return pe.selectPeaks(peaks), nil
}

// windowPeak scans [start, end) and returns the first sample with the
// largest volume.
func windowPeak(pcm PCMBuffer, start, end int) Peak {
	var best *Peak

	for j := start; j < end; j++ {
		volume := math.Max(math.Abs(pcm.Left[j]), math.Abs(pcm.Right[j]))
		if best == nil || volume > best.Volume {
			best = &Peak{Position: j, Volume: volume}
		}
	}

	return *best
}

// selectPeaks orders peaks by descending volume, keeps the selected prefix
// and restores position order. Both sorts are stable so equal volumes stay
// in window order.
func (pe *PeakExtractor) selectPeaks(peaks []Peak) []Peak {
	if len(peaks) == 0 {
		return peaks
	}

	slices.SortStableFunc(peaks, func(a, b Peak) int {
		return cmp.Compare(b.Volume, a.Volume)
	})

	keep := len(peaks)
	if pe.mode == SelectLoudest {
		keep = int(math.Ceil(pe.keepFraction * float64(len(peaks))))
		keep = min(max(keep, 1), len(peaks))
	}
	peaks = peaks[:keep]

	slices.SortStableFunc(peaks, func(a, b Peak) int {
		return cmp.Compare(a.Position, b.Position)
	})

	return peaks
}
