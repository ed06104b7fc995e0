package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mgpai22/shabd/internal/config"
	"github.com/mgpai22/shabd/internal/subtitle"
	"github.com/mgpai22/shabd/internal/transcript"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

const wordsTranscript = `{
	"segments": [{"start": 0, "end": 2.3, "text": "a b c d"}],
	"word_segments": [
		{"word": "a", "start": 0.0, "end": 0.05},
		{"word": "b", "start": 0.05, "end": 0.07},
		{"word": "c", "start": 0.07, "end": 0.30},
		{"word": "d", "start": 1.8, "end": 2.3}
	]
}`

func TestConvertFileWords(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "talk.json")
	out := filepath.Join(dir, "out", "talk.srt")
	writeFile(t, in, wordsTranscript)

	res, err := ConvertFile(in, out, DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertFile returned error: %v", err)
	}
	if res.Tokens != 4 || res.Cues != 2 {
		t.Errorf("unexpected result: %+v", res)
	}

	want := "1\n00:00:00,000 --> 00:00:00,300\na b c\n\n" +
		"2\n00:00:01,800 --> 00:00:02,300\nd\n"
	if got := readFile(t, out); got != want {
		t.Errorf("output mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestConvertFileSegments(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "talk.json")
	out := filepath.Join(dir, "talk.vtt")
	writeFile(t, in, `{"segments": [
		{"start": 0, "end": 0.2, "text": "Hi"},
		{"start": 0.2, "end": 1.5, "text": "there friend"},
		{"start": 2, "end": 3, "text": "bye"},
		{"start": 4, "text": "no end"}
	]}`)

	opts := DefaultOptions()
	opts.Mode = ModeSegments
	opts.Format = subtitle.FormatVTT

	res, err := ConvertFile(in, out, opts)
	if err != nil {
		t.Fatalf("ConvertFile returned error: %v", err)
	}
	if res.Tokens != 3 || res.Cues != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
	want := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.500\nHi there friend\n\n" +
		"2\n00:00:02.000 --> 00:00:03.000\nbye\n"
	if got := readFile(t, out); got != want {
		t.Errorf("output mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestConvertFileEmptyTranscript(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "silence.json")
	out := filepath.Join(dir, "silence.srt")
	writeFile(t, in, `{"segments": []}`)

	res, err := ConvertFile(in, out, DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertFile returned error: %v", err)
	}
	if res.Cues != 0 {
		t.Errorf("expected no cues, got %d", res.Cues)
	}
	if got := readFile(t, out); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	badJSON := filepath.Join(dir, "bad.json")
	writeFile(t, badJSON, `{"segments": [`)
	noSegments := filepath.Join(dir, "nosegs.json")
	writeFile(t, noSegments, `{"text": "hello"}`)
	good := filepath.Join(dir, "good.json")
	writeFile(t, good, wordsTranscript)
	dirTarget := filepath.Join(dir, "taken.srt")
	if err := os.Mkdir(dirTarget, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		in    string
		out   string
		kind  error
		cause error
	}{
		{"missing input", filepath.Join(dir, "missing.json"), filepath.Join(dir, "a.srt"), ErrInputNotFound, os.ErrNotExist},
		{"invalid json", badJSON, filepath.Join(dir, "b.srt"), ErrInputParse, nil},
		{"no segments", noSegments, filepath.Join(dir, "c.srt"), ErrInputParse, transcript.ErrMissingSegments},
		{"unwritable output", good, dirTarget, ErrOutputWrite, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertFile(tt.in, tt.out, DefaultOptions())
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("cause %v not wrapped in %v", tt.cause, err)
			}
		})
	}
}

func TestBuildEmptyChain(t *testing.T) {
	for _, mode := range []Mode{ModeWords, ModeSegments} {
		opts := DefaultOptions()
		opts.Mode = mode
		cues := Build(&transcript.Transcript{}, opts)
		if len(cues) != 0 {
			t.Errorf("%s: expected no cues, got %v", mode, cues)
		}
		if got := subtitle.RenderSRT(cues); got != "" {
			t.Errorf("%s: expected empty render, got %q", mode, got)
		}
	}
}

func TestBuildFlattensSegmentWordsWhenNotPreferred(t *testing.T) {
	tr := &transcript.Transcript{
		Segments: []transcript.Segment{{
			Words: []transcript.Word{
				{Word: transcript.String("inner"), Start: transcript.Float(0), End: transcript.Float(1)},
			},
		}},
		WordSegments: []transcript.Word{
			{Word: transcript.String("flat"), Start: transcript.Float(0), End: transcript.Float(1)},
		},
	}
	opts := DefaultOptions()
	opts.PreferWordSegments = false

	want := []subtitle.Cue{{Index: 1, Start: 0, End: 1, Text: "inner"}}
	if diff := cmp.Diff(want, Build(tr, opts)); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	p := config.Default().Pipeline
	p.Format = "vtt"
	p.Mode = "segments"
	opts, err := OptionsFromConfig(p)
	if err != nil {
		t.Fatalf("OptionsFromConfig returned error: %v", err)
	}
	if opts.Format != subtitle.FormatVTT || opts.Mode != ModeSegments {
		t.Errorf("unexpected options: %+v", opts)
	}

	p.Mode = "lines"
	if _, err := OptionsFromConfig(p); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestMergeFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.srt")
	out := filepath.Join(dir, "merged.srt")
	writeFile(t, in, "1\n00:00:01,000 --> 00:00:01,200\nShort\n\n"+
		"2\n00:00:01,700 --> 00:00:03,000\nthen long\n\n"+
		"3\n00:00:04,000 --> 00:00:05,000\nalone\n")

	res, err := MergeFile(in, out, 0.5, subtitle.FormatSRT)
	if err != nil {
		t.Fatalf("MergeFile returned error: %v", err)
	}
	if res.Tokens != 3 || res.Cues != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
	want := "1\n00:00:01,000 --> 00:00:03,000\nShort then long\n\n" +
		"2\n00:00:04,000 --> 00:00:05,000\nalone\n"
	if got := readFile(t, out); got != want {
		t.Errorf("output mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestMergeFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := MergeFile(filepath.Join(dir, "none.srt"), filepath.Join(dir, "o.srt"), 0.5, subtitle.FormatSRT); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("expected ErrInputNotFound, got %v", err)
	}

	bad := filepath.Join(dir, "bad.srt")
	writeFile(t, bad, "1\n00:00:01 -> nonsense -->\ntext\n")
	if _, err := MergeFile(bad, filepath.Join(dir, "o.srt"), 0.5, subtitle.FormatSRT); !errors.Is(err, ErrInputParse) {
		t.Errorf("expected ErrInputParse, got %v", err)
	}

	ass := filepath.Join(dir, "x.ass")
	writeFile(t, ass, "[Script Info]\n")
	if _, err := MergeFile(ass, filepath.Join(dir, "o.srt"), 0.5, subtitle.FormatSRT); !errors.Is(err, ErrInputParse) {
		t.Errorf("expected ErrInputParse for unsupported extension, got %v", err)
	}
}

func TestWriteTranscript(t *testing.T) {
	out := filepath.Join(t.TempDir(), "song.srt")
	tr := &transcript.Transcript{
		Language: "en",
		Segments: []transcript.Segment{
			{Start: transcript.Float(0), End: transcript.Float(1.2), Text: transcript.String("hello there")},
		},
	}

	opts := DefaultOptions()
	opts.Mode = ModeSegments
	res, err := WriteTranscript(tr, "song.mp3", out, opts)
	if err != nil {
		t.Fatalf("WriteTranscript returned error: %v", err)
	}
	if res.Input != "song.mp3" || res.Cues != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	want := "1\n00:00:00,000 --> 00:00:01,200\nhello there\n"
	if got := readFile(t, out); got != want {
		t.Errorf("output mismatch:\n%q\nwant\n%q", got, want)
	}

	if _, err := WriteTranscript(nil, "x", filepath.Join(t.TempDir(), "x.srt"), opts); err != nil {
		t.Errorf("nil transcript should write an empty file, got %v", err)
	}
}
