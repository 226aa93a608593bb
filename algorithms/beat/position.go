package beat

import "fmt"

// NormalizePositions expresses peak positions as a fraction of the track
// length, the unit a playback clock reports its position in.
func NormalizePositions(peaks []Peak, frameCount int) ([]float64, error) {
	if len(peaks) == 0 {
		return []float64{}, nil
	}
	if frameCount <= 0 {
		return nil, fmt.Errorf("%w: frame count must be positive, got %d", ErrInvalidInput, frameCount)
	}

	positions := make([]float64, len(peaks))
	for i, p := range peaks {
		positions[i] = float64(p.Position) / float64(frameCount)
	}
	return positions, nil
}
