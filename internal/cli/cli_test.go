package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mgpai22/shabd/internal/config"
	"github.com/mgpai22/shabd/internal/pipeline"
)

const sampleTranscript = `{
	"segments": [{"start": 0, "end": 2.3, "text": "a b c d"}],
	"word_segments": [
		{"word": "a", "start": 0.0, "end": 0.05},
		{"word": "b", "start": 0.05, "end": 0.07},
		{"word": "c", "start": 0.07, "end": 0.30},
		{"word": "d", "start": 1.8, "end": 2.3}
	]
}`

// execute runs the root command with args and resets every flag afterwards,
// since the command tree is shared between tests.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

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
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "talk.json")
	writeFile(t, in, sampleTranscript)

	out, err := execute(t, "convert", in)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(out, "Cues: 2") {
		t.Errorf("unexpected output: %q", out)
	}

	want := "1\n00:00:00,000 --> 00:00:00,300\na b c\n\n" +
		"2\n00:00:01,800 --> 00:00:02,300\nd\n"
	if got := readFile(t, filepath.Join(dir, "talk.srt")); got != want {
		t.Errorf("output mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestConvertCommandFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "talk.json")
	writeFile(t, in, sampleTranscript)
	cfgPath := filepath.Join(dir, "shabd.toml")
	writeFile(t, cfgPath, "[pipeline]\nmax_gap = 2.0\nformat = \"vtt\"\n")

	t.Run("config applies", func(t *testing.T) {
		out := filepath.Join(dir, "joined.vtt")
		if _, err := execute(t, "--config", cfgPath, "convert", in, "-o", out); err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		got := readFile(t, out)
		if !strings.HasPrefix(got, "WEBVTT") || !strings.Contains(got, "a b c d") {
			t.Errorf("expected a single VTT cue, got %q", got)
		}
	})

	t.Run("flag wins", func(t *testing.T) {
		out := filepath.Join(dir, "split.srt")
		if _, err := execute(t, "--config", cfgPath, "convert", in, "-o", out, "--max-gap", "1", "-f", "srt"); err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		if got := readFile(t, out); !strings.Contains(got, "2\n00:00:01,800") {
			t.Errorf("expected two cues, got %q", got)
		}
	})
}

func TestConvertCommandRejectsBadFlags(t *testing.T) {
	in := filepath.Join(t.TempDir(), "talk.json")
	writeFile(t, in, sampleTranscript)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"negative gap", []string{"convert", in, "--max-gap=-1"}, "--max-gap"},
		{"bad mode", []string{"convert", in, "--mode", "lines"}, "unsupported mode"},
		{"bad format", []string{"convert", in, "-f", "ass"}, "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBatchCommand(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "subs")
	writeFile(t, filepath.Join(inDir, "one.json"), sampleTranscript)
	writeFile(t, filepath.Join(inDir, "two.json"), sampleTranscript)
	writeFile(t, filepath.Join(inDir, "broken.json"), "{not json")
	writeFile(t, filepath.Join(inDir, "notes.txt"), "ignored")

	out, err := execute(t, "batch", inDir, "--output-dir", outDir, "-c", "2")
	if err == nil || !strings.Contains(err.Error(), "1 of 3 files failed") {
		t.Fatalf("expected partial failure, got %v", err)
	}
	for _, want := range []string{"Succeeded", "broken.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	for _, name := range []string{"one.srt", "two.srt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	// a re-run skips what is already done
	writeFile(t, filepath.Join(inDir, "broken.json"), sampleTranscript)
	if _, err := execute(t, "batch", inDir, "--output-dir", outDir); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "broken.srt")); err != nil {
		t.Errorf("expected broken.srt after fix: %v", err)
	}
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "movie.srt")
	writeFile(t, in, "1\n00:00:00,000 --> 00:00:00,200\nShort\n\n"+
		"2\n00:00:00,200 --> 00:00:02,000\nthen long\n")

	out, err := execute(t, "merge", in)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if !strings.Contains(out, "Cues: 2 -> 1") {
		t.Errorf("unexpected output: %q", out)
	}
	want := "1\n00:00:00,000 --> 00:00:02,000\nShort then long\n"
	if got := readFile(t, filepath.Join(dir, "movie.merged.srt")); got != want {
		t.Errorf("output mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestPrettyCommand(t *testing.T) {
	in := filepath.Join(t.TempDir(), "raw.json")
	writeFile(t, in, `{"segments":[{"start":1.50,"extra":true}]}`)

	if _, err := execute(t, "pretty", in); err != nil {
		t.Fatalf("pretty failed: %v", err)
	}
	got := readFile(t, in)
	if !strings.Contains(got, "\n    \"segments\"") || !strings.Contains(got, "1.50") || !strings.Contains(got, "extra") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shabd.toml")

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	loaded, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("sample config does not load: exists=%v err=%v", exists, err)
	}
	if loaded.Pipeline.MaxGap != 1.0 {
		t.Errorf("unexpected max_gap %v", loaded.Pipeline.MaxGap)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("expected error when the file already exists")
	}
}

func TestTranslateCommandNeedsAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	in := filepath.Join(t.TempDir(), "movie.srt")
	writeFile(t, in, "1\n00:00:00,000 --> 00:00:01,000\nHello\n")

	_, err := execute(t, "translate", in, "-t", "spanish")
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}

	_, err = execute(t, "translate", in, "-t", "english", "-l", "English", "-k", "x")
	if err == nil || !strings.Contains(err.Error(), "cannot be the same") {
		t.Fatalf("expected same-language error, got %v", err)
	}
}

func TestTranscribeCommandRejectsOpenAILanguage(t *testing.T) {
	_, err := execute(t, "transcribe", t.TempDir(), "--provider", "openai", "-k", "x", "--transcript-language", "spanish")
	if err == nil || !strings.Contains(err.Error(), "OpenAI only supports") {
		t.Fatalf("expected language error, got %v", err)
	}
}

func TestIsValidOpenAITranscriptLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		{"", true},
		{"native", true},
		{"Native", true},
		{" native ", true},
		{"english", true},
		{"ENGLISH", true},
		{"en", true},
		{" en ", true},

		{"spanish", false},
		{"japanese", false},
		{"es", false},
		{"zh", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := isValidOpenAITranscriptLanguage(tt.lang)
			if got != tt.want {
				t.Errorf(
					"isValidOpenAITranscriptLanguage(%q) = %v, want %v",
					tt.lang,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestTranslatedPath(t *testing.T) {
	tests := []struct {
		in      string
		overlay bool
		want    string
	}{
		{"movie.srt", false, "movie.es.srt"},
		{"dir/movie.vtt", true, "dir/movie.es.overlay.vtt"},
	}
	for _, tt := range tests {
		if got := translatedPath(tt.in, "es", tt.overlay); got != tt.want {
			t.Errorf("translatedPath(%q, %v) = %q, want %q", tt.in, tt.overlay, got, tt.want)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	s := pipeline.Summary{
		RunID:     "run-1",
		Succeeded: 3,
		Skipped:   1,
		Failed:    2,
		Elapsed:   1500 * time.Millisecond,
	}

	plain := renderSummary(s, false)
	for _, want := range []string{"Succeeded", "3", "Total", "6", "1.5s", "run-1"} {
		if !strings.Contains(plain, want) {
			t.Errorf("summary missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "╭") {
		t.Error("plain summary should not use rounded borders")
	}
	if fancy := renderSummary(s, true); !strings.Contains(fancy, "╭") {
		t.Errorf("fancy summary should use rounded borders:\n%s", fancy)
	}
}
