// Package pipeline turns transcripts into subtitle files. Build is the pure
// core; ConvertFile and MergeFile add file I/O and classify failures, and the
// Runner applies either across a directory.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/mgpai22/shabd/internal/config"
	"github.com/mgpai22/shabd/internal/subtitle"
	"github.com/mgpai22/shabd/internal/transcript"
)

type Mode string

const (
	ModeWords    Mode = config.ModeWords
	ModeSegments Mode = config.ModeSegments
)

type Options struct {
	Mode               Mode
	MinWordDuration    float64
	MinEventDuration   float64
	MaxGap             float64
	PreferWordSegments bool
	Format             subtitle.Format
}

// DefaultOptions mirrors config.Default().
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.Default().Pipeline)
	return opts
}

func OptionsFromConfig(p config.Pipeline) (Options, error) {
	format, err := subtitle.ParseFormat(p.Format)
	if err != nil {
		return Options{}, err
	}
	mode := Mode(p.Mode)
	switch mode {
	case ModeWords, ModeSegments:
	default:
		return Options{}, fmt.Errorf("unsupported mode %q", p.Mode)
	}
	return Options{
		Mode:               mode,
		MinWordDuration:    p.MinWordDuration,
		MinEventDuration:   p.MinEventDuration,
		MaxGap:             p.MaxGap,
		PreferWordSegments: p.PreferWordSegments,
		Format:             format,
	}, nil
}

// Result describes one converted file.
type Result struct {
	Input  string
	Output string
	Tokens int
	Cues   int
}

// Build converts a transcript into cues.
//
// In words mode, word tokens are merged until each chunk reaches
// MinWordDuration and chunks are grouped into cues at silences longer than
// MaxGap. In segments mode every segment is a cue and cues shorter than
// MinEventDuration are folded into their successors.
func Build(t *transcript.Transcript, opts Options) []subtitle.Cue {
	cues, _ := build(t, opts)
	return cues
}

func build(t *transcript.Transcript, opts Options) ([]subtitle.Cue, int) {
	if opts.Mode == ModeSegments {
		tokens := transcript.Segments(t)
		return subtitle.CuesFromChunks(subtitle.MergeShort(tokens, opts.MinEventDuration)), len(tokens)
	}
	tokens := transcript.Words(t, opts.PreferWordSegments)
	chunks := subtitle.MergeShort(tokens, opts.MinWordDuration)
	return subtitle.GroupCues(chunks, opts.MaxGap), len(tokens)
}

// ConvertFile reads the transcript at in and writes subtitles to out. A
// transcript without usable tokens still produces an empty file.
func ConvertFile(in, out string, opts Options) (Result, error) {
	res := Result{Input: in, Output: out}

	t, err := transcript.Load(in)
	if err != nil {
		return res, classifyRead(in, err)
	}
	return WriteTranscript(t, in, out, opts)
}

// WriteTranscript builds cues from an in-memory transcript and writes them to
// out. in only labels the Result.
func WriteTranscript(t *transcript.Transcript, in, out string, opts Options) (Result, error) {
	res := Result{Input: in, Output: out}

	cues, tokens := build(t, opts)
	res.Tokens = tokens
	res.Cues = len(cues)

	var language string
	if t != nil {
		language = t.Language
	}
	sub := &subtitle.Subtitle{Cues: cues, Language: language, Format: opts.Format}
	if err := write(sub, out); err != nil {
		return res, err
	}
	return res, nil
}

// MergeFile folds cues of an existing SRT or VTT file that are shorter than
// minEvent into the cues that follow them.
func MergeFile(in, out string, minEvent float64, format subtitle.Format) (Result, error) {
	res := Result{Input: in, Output: out}

	sub, err := subtitle.Open(in)
	if err != nil {
		return res, classifyRead(in, err)
	}

	tokens := sub.Tokens()
	cues := subtitle.CuesFromChunks(subtitle.MergeShort(tokens, minEvent))
	res.Tokens = len(tokens)
	res.Cues = len(cues)

	merged := &subtitle.Subtitle{Cues: cues, Language: sub.Language, Format: format}
	if err := write(merged, out); err != nil {
		return res, err
	}
	return res, nil
}

func write(sub *subtitle.Subtitle, out string) error {
	w, err := subtitle.NewWriter(sub.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := w.Write(sub, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, out, err)
	}
	return nil
}

func classifyRead(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrInputNotFound, path, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInputParse, path, err)
}
