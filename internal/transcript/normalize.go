package transcript

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mgpai22/shabd/internal/subtitle"
)

// Words flattens word-level timing into tokens. When preferFlat is set and the
// transcript carries a non-empty word_segments list, that list is used as-is;
// otherwise segments[*].words are concatenated in order.
func Words(t *Transcript, preferFlat bool) []subtitle.Token {
	if t == nil {
		return []subtitle.Token{}
	}

	if preferFlat && len(t.WordSegments) > 0 {
		return wordTokens(make([]subtitle.Token, 0, len(t.WordSegments)), t.WordSegments)
	}

	n := 0
	for _, seg := range t.Segments {
		n += len(seg.Words)
	}
	tokens := make([]subtitle.Token, 0, n)
	for _, seg := range t.Segments {
		tokens = wordTokens(tokens, seg.Words)
	}
	return tokens
}

// Segments returns one token per transcript segment.
func Segments(t *Transcript) []subtitle.Token {
	if t == nil {
		return []subtitle.Token{}
	}

	tokens := make([]subtitle.Token, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if tok, ok := makeToken(seg.Start, seg.End, seg.Text); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func wordTokens(dst []subtitle.Token, words []Word) []subtitle.Token {
	for _, w := range words {
		text := w.Word
		if text == nil {
			text = w.Text
		}
		if tok, ok := makeToken(w.Start, w.End, text); ok {
			dst = append(dst, tok)
		}
	}
	return dst
}

// makeToken rejects entries without timing or text, with non-finite times, or
// ending before they start.
func makeToken(start, end *float64, text *string) (subtitle.Token, bool) {
	if start == nil || end == nil || text == nil {
		return subtitle.Token{}, false
	}
	if !finite(*start) || !finite(*end) || *end < *start {
		return subtitle.Token{}, false
	}
	clean := strings.TrimSpace(norm.NFC.String(*text))
	if clean == "" {
		return subtitle.Token{}, false
	}
	return subtitle.Token{Start: *start, End: *end, Text: clean}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
