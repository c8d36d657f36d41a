package captions

import "strings"

// WordTimings splits the cue duration evenly across the words of its text.
// Word i of n covers [start + d*i/n, start + d*(i+1)/n) in integer
// milliseconds, so the slices are contiguous and the last one ends exactly
// at cue.EndMs. A cue without words yields nil.
func WordTimings(cue Cue) []WordTiming {
	words := strings.Fields(cue.Text)
	if len(words) == 0 {
		return nil
	}
	n := uint64(len(words))
	duration := cue.DurationMs()
	// floor(d*i/n) without overflowing d*i
	offset := func(i uint64) uint64 {
		return (duration/n)*i + (duration%n)*i/n
	}
	timings := make([]WordTiming, len(words))
	for i, word := range words {
		k := uint64(i)
		timings[i] = WordTiming{
			Word:    word,
			StartMs: cue.StartMs + offset(k),
			EndMs:   cue.StartMs + offset(k+1),
		}
	}
	return timings
}
