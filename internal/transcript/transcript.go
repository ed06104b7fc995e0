// Package transcript models the timestamped transcript JSON produced by
// WhisperX-style transcription and alignment tools, and flattens it into
// subtitle tokens.
//
// Times and text are pointers so that partially aligned output (a word the
// aligner could not place has no start/end) decodes without error; the
// normalizer drops such entries.
package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrMissingSegments is returned by Decode when the top-level "segments" key
// is absent.
var ErrMissingSegments = errors.New("transcript has no segments field")

// Word is one aligned word. Aligners emit the text as "word"; some tools use
// "text" instead.
type Word struct {
	Word  *string  `json:"word,omitempty"`
	Text  *string  `json:"text,omitempty"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Segment is a transcribed phrase with optional word-level alignment.
type Segment struct {
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Text  *string  `json:"text,omitempty"`
	Words []Word   `json:"words,omitempty"`
}

type Transcript struct {
	Segments     []Segment `json:"segments"`
	WordSegments []Word    `json:"word_segments,omitempty"`
	Language     string    `json:"language,omitempty"`
}

// Decode reads a transcript. Unknown fields are ignored.
func Decode(r io.Reader) (*Transcript, error) {
	var probe struct {
		Segments json.RawMessage `json:"segments"`
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	if probe.Segments == nil {
		return nil, ErrMissingSegments
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return &t, nil
}

// Load reads and decodes the transcript at path.
func Load(path string) (*Transcript, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	return Decode(file)
}

// Save writes t as indented JSON, creating parent directories.
func Save(path string, t *Transcript) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Reindent rewrites arbitrary JSON with the indentation Save uses, keeping
// every field, including ones Transcript does not model.
func Reindent(in io.Reader, out io.Writer) error {
	var v any
	dec := json.NewDecoder(in)
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

// helpers for building transcripts from provider responses

func String(s string) *string { return &s }

func Float(f float64) *float64 { return &f }
