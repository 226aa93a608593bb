package beat

import (
	"fmt"
	"math"
)

const (
	// DefaultSampleRate is the sample rate peak positions are assumed to use.
	DefaultSampleRate = 44100
	// DefaultMinTempo is the inclusive lower bound of the folded tempo band.
	DefaultMinTempo = 90.0
	// DefaultMaxTempo is the exclusive upper bound of the folded tempo band.
	DefaultMaxTempo = 180.0
	// DefaultLookahead is the number of forward neighbours each peak is
	// paired with. It bounds voting to O(peaks * lookahead).
	DefaultLookahead = 9
)

// TempoGroup is a tally of peak pairs that folded to the same tempo.
type TempoGroup struct {
	Tempo int `json:"tempo"` // Folded BPM in [MinTempo, MaxTempo)
	Count int `json:"count"` // Number of peak pairs voting for Tempo
}

// TempoConfig configures tempo voting.
type TempoConfig struct {
	SampleRate int     `json:"sample_rate"`
	MinTempo   float64 `json:"min_tempo"`
	MaxTempo   float64 `json:"max_tempo"`
	Lookahead  int     `json:"lookahead"`
}

// DefaultTempoConfig returns the default voting parameters.
func DefaultTempoConfig() TempoConfig {
	return TempoConfig{
		SampleRate: DefaultSampleRate,
		MinTempo:   DefaultMinTempo,
		MaxTempo:   DefaultMaxTempo,
		Lookahead:  DefaultLookahead,
	}
}

// Validate reports whether the band can fold every positive tempo. The
// band must span at least one octave.
func (c TempoConfig) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidInput, c.SampleRate)
	case c.MinTempo <= 0 || math.IsNaN(c.MinTempo) || math.IsInf(c.MinTempo, 0):
		return fmt.Errorf("%w: min tempo must be positive, got %v", ErrInvalidInput, c.MinTempo)
	case !(c.MaxTempo >= 2*c.MinTempo) || math.IsInf(c.MaxTempo, 0):
		return fmt.Errorf("%w: max tempo %v must be at least twice min tempo %v", ErrInvalidInput, c.MaxTempo, c.MinTempo)
	case c.Lookahead < 1:
		return fmt.Errorf("%w: lookahead must be at least 1, got %d", ErrInvalidInput, c.Lookahead)
	}
	return nil
}

// TempoVoter derives a tempo histogram from inter-peak intervals.
type TempoVoter struct {
	config TempoConfig
}

// NewTempoVoter creates a voter with the given configuration.
func NewTempoVoter(config TempoConfig) (*TempoVoter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &TempoVoter{config: config}, nil
}

// VoteTempo tallies peaks with the default configuration.
func VoteTempo(peaks []Peak) []TempoGroup {
	tv := &TempoVoter{config: DefaultTempoConfig()}
	return tv.Vote(peaks)
}

// Vote pairs every peak with up to Lookahead following peaks, folds each
// pair's tempo into the band and counts identical folded values.
//
// Groups are returned in order of first occurrence. Picking the winner is
// left to the caller, see Dominant.
func (tv *TempoVoter) Vote(peaks []Peak) []TempoGroup {
	groups := []TempoGroup{}
	index := make(map[int]int)

	for i, peak := range peaks {
		for k := 1; k <= tv.config.Lookahead && i+k < len(peaks); k++ {
			delta := peaks[i+k].Position - peak.Position
			if delta <= 0 {
				continue
			}

			tempo := tv.FoldedTempo(delta)
			if at, ok := index[tempo]; ok {
				groups[at].Count++
				continue
			}

			index[tempo] = len(groups)
			groups = append(groups, TempoGroup{Tempo: tempo, Count: 1})
		}
	}

	return groups
}

// RawTempo converts a peak distance in frames to beats per minute.
func (tv *TempoVoter) RawTempo(deltaFrames int) float64 {
	return 60 * float64(tv.config.SampleRate) / float64(deltaFrames)
}

// Fold moves tempo by octaves into [MinTempo, MaxTempo). The upper bound is
// exclusive, so exactly MaxTempo folds to MinTempo: a 14700-frame gap at
// 44.1 kHz is 180 BPM raw and votes for 90.
func (tv *TempoVoter) Fold(tempo float64) float64 {
	if tempo <= 0 || math.IsNaN(tempo) || math.IsInf(tempo, 0) {
		return tempo
	}
	for tempo < tv.config.MinTempo {
		tempo *= 2
	}
	for tempo >= tv.config.MaxTempo {
		tempo /= 2
	}
	return tempo
}

// FoldedTempo returns the rounded, folded tempo for a peak distance.
func (tv *TempoVoter) FoldedTempo(deltaFrames int) int {
	tempo := math.Round(tv.Fold(tv.RawTempo(deltaFrames)))
	// Rounding can land exactly on the exclusive upper bound.
	if tempo >= tv.config.MaxTempo {
		tempo = math.Round(tv.Fold(tempo))
	}
	return int(tempo)
}

// Dominant returns the group with the highest count. Earlier groups win
// ties. ok is false when groups is empty.
func Dominant(groups []TempoGroup) (best TempoGroup, ok bool) {
	for _, g := range groups {
		if !ok || g.Count > best.Count {
			best = g
			ok = true
		}
	}
	return best, ok
}

// TotalVotes sums the counts of all groups.
func TotalVotes(groups []TempoGroup) int {
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	return total
}
