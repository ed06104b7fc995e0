package subtitle

import "strings"

// GroupCues joins consecutive chunks into display cues, starting a new cue
// whenever the silence between one chunk's end and the next chunk's start
// exceeds maxGap seconds. Overlapping chunks (negative gap) never break.
func GroupCues(chunks []Chunk, maxGap float64) []Cue {
	if len(chunks) == 0 {
		return []Cue{}
	}

	maxGapMillis := Millis(maxGap)
	var cues []Cue

	cueStart := chunks[0].Start
	var parts []string

	for i, c := range chunks {
		if i > 0 {
			prev := chunks[i-1]
			gap := Millis(c.Start) - Millis(prev.End)
			if gap > maxGapMillis {
				cues = append(cues, Cue{
					Index: len(cues) + 1,
					Start: cueStart,
					End:   prev.End,
					Text:  strings.Join(parts, " "),
				})
				cueStart = c.Start
				parts = parts[:0]
			}
		}
		parts = append(parts, c.Text)
	}

	return append(cues, Cue{
		Index: len(cues) + 1,
		Start: cueStart,
		End:   chunks[len(chunks)-1].End,
		Text:  strings.Join(parts, " "),
	})
}

// CuesFromChunks emits one cue per chunk, indexed from 1.
func CuesFromChunks(chunks []Chunk) []Cue {
	cues := make([]Cue, len(chunks))
	for i, c := range chunks {
		cues[i] = Cue{Index: i + 1, Start: c.Start, End: c.End, Text: c.Text}
	}
	return cues
}
