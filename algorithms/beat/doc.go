// Package beat estimates beat positions and tempo from a stereo PCM buffer.
//
// Analysis runs in two pure steps. A PeakExtractor slices the buffer into
// fixed-size windows and keeps the loudest sample of each one. A TempoVoter
// then measures the distance from every peak to its next few neighbours,
// folds each implied tempo into a one-octave band and counts how often each
// folded tempo occurs:
//
//	peaks, err := beat.ExtractPeaks(pcm, beat.DefaultWindowSize)
//	if err != nil {
//		return err
//	}
//	groups := beat.VoteTempo(peaks)
//	best, ok := beat.Dominant(groups)
//
// Both steps allocate fresh output and never modify their input, so they
// can be called concurrently on independent buffers.
package beat
