package subtitle

import "strings"

// MergeShort folds tokens into chunks so that each chunk, except possibly
// the last, lasts at least minDuration seconds.
//
// The open chunk's duration is checked before the next token is absorbed:
// a chunk that already reaches minDuration is emitted and the token opens a
// new one; otherwise the token's text is appended and the chunk's end moves
// to the token's end. The trailing chunk is flushed as-is even when it is
// still short. A non-positive minDuration disables merging.
func MergeShort(tokens []Token, minDuration float64) []Chunk {
	if len(tokens) == 0 {
		return []Chunk{}
	}

	minMillis := Millis(minDuration)
	chunks := make([]Chunk, 0, len(tokens))

	var parts []string
	open := Chunk{Start: tokens[0].Start, End: tokens[0].End}
	parts = append(parts, tokens[0].Text)

	for _, tok := range tokens[1:] {
		if open.Duration() < minMillis {
			parts = append(parts, tok.Text)
			open.End = tok.End
			continue
		}

		open.Text = strings.Join(parts, " ")
		chunks = append(chunks, open)

		open = Chunk{Start: tok.Start, End: tok.End}
		parts = append(parts[:0], tok.Text)
	}

	open.Text = strings.Join(parts, " ")
	return append(chunks, open)
}
