package subtitle

import "fmt"

// single time-stamped unit of text (word or subtitle line), times in seconds
type Token struct {
	Start float64
	End   float64
	Text  string
}

// one or more merged tokens; Text is the space-joined token text
type Chunk struct {
	Start float64
	End   float64
	Text  string
}

// finalized, indexed subtitle entry
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the chunk length in whole milliseconds.
func (c Chunk) Duration() int64 {
	return Millis(c.End) - Millis(c.Start)
}

// represents complete subtitle track
type Subtitle struct {
	Cues     []Cue
	Language string
	Format   Format
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// interface for writing subtitles to files
type Writer interface {
	Write(sub *Subtitle, path string) error
}

// Tokens converts cues back into tokens, e.g. to re-merge a parsed file.
func (s *Subtitle) Tokens() []Token {
	tokens := make([]Token, 0, len(s.Cues))
	for _, c := range s.Cues {
		tokens = append(tokens, Token{Start: c.Start, End: c.End, Text: c.Text})
	}
	return tokens
}

// SetText replaces the text of the cue at position i (0-based).
func (s *Subtitle) SetText(i int, text string) error {
	if i < 0 || i >= len(s.Cues) {
		return fmt.Errorf(
			"index %d out of range (0-%d)",
			i,
			len(s.Cues)-1,
		)
	}
	s.Cues[i].Text = text
	return nil
}
