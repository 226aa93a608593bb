// Package kick detects kick drum beats and the dominant tempo of a track.
//
// An Analyzer band-limits the audio to the kick drum range, picks one peak
// per analysis window and votes on the tempo implied by the distances
// between peaks. The resulting Analysis carries the peaks both as sample
// indices and as fractional playback positions, which a Tracker turns into
// beat callbacks as a playback clock advances.
//
//	analyzer, err := kick.NewAnalyzer(nil)
//	if err != nil {
//		return err
//	}
//	analysis, err := analyzer.AnalyzeFile(ctx, "track.mp3")
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%d BPM\n", analysis.Tempo)
package kick
