package subtitle

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeShort(t *testing.T) {
	tests := []struct {
		name        string
		tokens      []Token
		minDuration float64
		want        []Chunk
	}{
		{
			name:        "empty input",
			tokens:      nil,
			minDuration: 0.15,
			want:        []Chunk{},
		},
		{
			name:        "single short token is kept",
			tokens:      []Token{{Start: 1, End: 1.01, Text: "hi"}},
			minDuration: 0.15,
			want:        []Chunk{{Start: 1, End: 1.01, Text: "hi"}},
		},
		{
			name: "chain merges until threshold",
			tokens: []Token{
				{Start: 0.0, End: 0.05, Text: "a"},
				{Start: 0.05, End: 0.07, Text: "b"},
				{Start: 0.07, End: 0.30, Text: "c"},
			},
			minDuration: 0.15,
			want:        []Chunk{{Start: 0.0, End: 0.30, Text: "a b c"}},
		},
		{
			name: "long tokens stay separate",
			tokens: []Token{
				{Start: 0, End: 0.5, Text: "one"},
				{Start: 0.6, End: 1.0, Text: "two"},
			},
			minDuration: 0.15,
			want: []Chunk{
				{Start: 0, End: 0.5, Text: "one"},
				{Start: 0.6, End: 1.0, Text: "two"},
			},
		},
		{
			name: "exactly at threshold finalizes",
			tokens: []Token{
				{Start: 0, End: 0.15, Text: "x"},
				{Start: 0.15, End: 0.2, Text: "y"},
			},
			minDuration: 0.15,
			want: []Chunk{
				{Start: 0, End: 0.15, Text: "x"},
				{Start: 0.15, End: 0.2, Text: "y"},
			},
		},
		{
			name: "float noise below threshold does not merge",
			tokens: []Token{
				{Start: 1.2, End: 1.7, Text: "half"},
				{Start: 1.8, End: 2.0, Text: "next"},
			},
			minDuration: 0.5,
			want: []Chunk{
				{Start: 1.2, End: 1.7, Text: "half"},
				{Start: 1.8, End: 2.0, Text: "next"},
			},
		},
		{
			name: "trailing short chunk is flushed",
			tokens: []Token{
				{Start: 0, End: 1, Text: "long"},
				{Start: 1, End: 1.02, Text: "tail"},
			},
			minDuration: 0.15,
			want: []Chunk{
				{Start: 0, End: 1, Text: "long"},
				{Start: 1, End: 1.02, Text: "tail"},
			},
		},
		{
			name: "absorbed token across a gap extends end",
			tokens: []Token{
				{Start: 0, End: 0.1, Text: "short"},
				{Start: 3, End: 3.5, Text: "later"},
				{Start: 4, End: 4.1, Text: "x"},
			},
			minDuration: 0.15,
			want: []Chunk{
				{Start: 0, End: 3.5, Text: "short later"},
				{Start: 4, End: 4.1, Text: "x"},
			},
		},
		{
			name: "zero threshold disables merging",
			tokens: []Token{
				{Start: 0, End: 0, Text: "a"},
				{Start: 0, End: 0.01, Text: "b"},
			},
			minDuration: 0,
			want: []Chunk{
				{Start: 0, End: 0, Text: "a"},
				{Start: 0, End: 0.01, Text: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeShort(tt.tokens, tt.minDuration)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MergeShort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeShortDoesNotMutateInput(t *testing.T) {
	tokens := []Token{
		{Start: 0, End: 0.05, Text: "a"},
		{Start: 0.05, End: 0.3, Text: "b"},
	}
	before := append([]Token(nil), tokens...)
	_ = MergeShort(tokens, 0.15)
	if diff := cmp.Diff(before, tokens); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

// sample token runs with mixed word lengths and pauses, in milliseconds
var propertyRuns = [][][2]int64{
	{{0, 50}, {50, 70}, {70, 300}, {400, 420}, {2000, 2100}, {2100, 2600}, {2700, 2710}},
	{{0, 10}, {10, 20}, {20, 30}, {30, 40}, {40, 50}, {50, 60}, {60, 70}, {70, 80}},
	{{0, 1000}, {1000, 1100}, {5000, 5040}, {5040, 5300}, {5300, 5310}},
	{{100, 100}, {100, 100}, {100, 400}, {3000, 3001}},
	{{0, 150}, {150, 299}, {299, 449}, {449, 600}, {1700, 1720}},
}

func tokensFromRun(run [][2]int64) []Token {
	tokens := make([]Token, len(run))
	for i, r := range run {
		tokens[i] = Token{
			Start: float64(r[0]) / 1000,
			End:   float64(r[1]) / 1000,
			Text:  "w" + strings.Repeat("x", i),
		}
	}
	return tokens
}

func joinTokenText(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

func TestMergeShortProperties(t *testing.T) {
	for _, minDuration := range []float64{0.05, 0.15, 0.5} {
		for i, run := range propertyRuns {
			tokens := tokensFromRun(run)
			chunks := MergeShort(tokens, minDuration)

			// duration: only the trailing chunk may be short
			for j, c := range chunks[:len(chunks)-1] {
				if c.Duration() < Millis(minDuration) {
					t.Errorf("run %d min %v: chunk %d lasts %dms", i, minDuration, j, c.Duration())
				}
			}

			// order: starts are non-decreasing
			for j := 1; j < len(chunks); j++ {
				if chunks[j].Start < chunks[j-1].Start {
					t.Errorf("run %d min %v: chunk %d starts before chunk %d", i, minDuration, j, j-1)
				}
			}

			// idempotence
			again := MergeShort(tokensFromChunks(chunks), minDuration)
			if diff := cmp.Diff(chunks, again); diff != "" {
				t.Errorf("run %d min %v: re-merge changed chunks (-first +second):\n%s", i, minDuration, diff)
			}

			// text conservation through merge and grouping
			cues := GroupCues(chunks, 1.0)
			var cueText []string
			for _, c := range cues {
				cueText = append(cueText, c.Text)
			}
			if got, want := strings.Join(cueText, " "), joinTokenText(tokens); got != want {
				t.Errorf("run %d min %v: text %q, want %q", i, minDuration, got, want)
			}
		}
	}
}

func tokensFromChunks(chunks []Chunk) []Token {
	tokens := make([]Token, len(chunks))
	for i, c := range chunks {
		tokens[i] = Token(c)
	}
	return tokens
}
