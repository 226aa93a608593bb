package beat_test

import (
	"fmt"

	"github.com/RyanBlaney/sonido-kick/algorithms/beat"
)

func ExampleExtractPeaks() {
	left := []float64{0, 0.2, 0, 0, 0, 0, 0, -0.9, 0.1, 0, 0, 0, 0.4}
	right := make([]float64, len(left))

	peaks, err := beat.ExtractPeaks(beat.NewPCMBuffer(left, right), 4)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(peaks)
	// Output:
	// [{1 0.2} {7 0.9} {8 0.1}]
}

func ExampleVoteTempo() {
	peaks := []beat.Peak{{Position: 0}, {Position: 22050}, {Position: 44100}}

	groups := beat.VoteTempo(peaks)
	best, _ := beat.Dominant(groups)

	fmt.Println(groups)
	fmt.Printf("%d BPM\n", best.Tempo)
	// Output:
	// [{120 3}]
	// 120 BPM
}
