package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mgpai22/shabd/internal/config"
	"github.com/mgpai22/shabd/internal/pipeline"
	"github.com/mgpai22/shabd/internal/subtitle"
)

// addPipelineFlags registers the conversion tunables. Defaults shown in help
// are the built-in ones; a config file overrides them and an explicit flag
// overrides both.
func addPipelineFlags(fs *pflag.FlagSet) {
	def := config.Default().Pipeline
	fs.String("mode", def.Mode, "Cue source: words or segments")
	fs.Float64("min-word-duration", def.MinWordDuration, "Merge words shorter than this many seconds")
	fs.Float64("min-event-duration", def.MinEventDuration, "Merge segments shorter than this many seconds")
	fs.Float64("max-gap", def.MaxGap, "Start a new cue after a silence longer than this many seconds")
	fs.StringP("format", "f", def.Format, "Output subtitle format (srt, vtt)")
	fs.Bool("no-word-segments", false, "Ignore the top-level word_segments list and use per-segment words")
}

// pipelineOptions merges explicitly set flags over the loaded config.
func pipelineOptions(cmd *cobra.Command) (pipeline.Options, error) {
	p := cfg.Pipeline
	fs := cmd.Flags()

	if fs.Changed("mode") {
		p.Mode, _ = fs.GetString("mode")
		p.Mode = strings.ToLower(strings.TrimSpace(p.Mode))
	}
	if fs.Changed("min-word-duration") {
		p.MinWordDuration, _ = fs.GetFloat64("min-word-duration")
	}
	if fs.Changed("min-event-duration") {
		p.MinEventDuration, _ = fs.GetFloat64("min-event-duration")
	}
	if fs.Changed("max-gap") {
		p.MaxGap, _ = fs.GetFloat64("max-gap")
	}
	if fs.Changed("format") {
		p.Format, _ = fs.GetString("format")
		p.Format = strings.ToLower(strings.TrimSpace(p.Format))
	}
	if fs.Changed("no-word-segments") {
		noWords, _ := fs.GetBool("no-word-segments")
		p.PreferWordSegments = !noWords
	}

	for name, v := range map[string]float64{
		"min-word-duration":  p.MinWordDuration,
		"min-event-duration": p.MinEventDuration,
		"max-gap":            p.MaxGap,
	} {
		if v < 0 {
			return pipeline.Options{}, fmt.Errorf("--%s must not be negative, got %v", name, v)
		}
	}

	return pipeline.OptionsFromConfig(p)
}

// batchSettings resolves the shared batch flags over the config.
func batchSettings(cmd *cobra.Command) (concurrency int, overwrite bool, err error) {
	concurrency = cfg.Batch.Concurrency
	overwrite = cfg.Batch.Overwrite
	fs := cmd.Flags()
	if fs.Changed("concurrency") {
		concurrency, _ = fs.GetInt("concurrency")
	}
	if fs.Changed("overwrite") {
		overwrite, _ = fs.GetBool("overwrite")
	}
	if concurrency <= 0 {
		return 0, false, fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	return concurrency, overwrite, nil
}

func addBatchFlags(fs *pflag.FlagSet) {
	def := config.Default().Batch
	fs.String("output-dir", "", "Directory for generated files (default: the input directory)")
	fs.IntP("concurrency", "c", def.Concurrency, "Number of files processed in parallel")
	fs.Bool("overwrite", def.Overwrite, "Regenerate outputs that already exist")
}

func outputDir(cmd *cobra.Command, inputDir string) string {
	dir, _ := cmd.Flags().GetString("output-dir")
	if dir == "" {
		return inputDir
	}
	return dir
}

// replaceExt swaps the extension of path for the one matching format.
func replaceExt(path string, format subtitle.Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + subtitle.GetExtensionForFormat(format)
}
