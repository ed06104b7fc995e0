package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/shabd/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert [transcript.json]",
	Short: "Convert a transcript JSON file into subtitles",
	Long: `Convert a WhisperX-style transcript into an SRT or VTT file.

In words mode (the default) words shorter than --min-word-duration are merged
into their neighbours and grouped into cues wherever the silence between them
exceeds --max-gap. In segments mode each transcript segment becomes a cue and
segments shorter than --min-event-duration are folded into the next one.

Examples:
  shabd convert talk.json
  shabd convert talk.json --max-gap 0.8 -o talk.srt
  shabd convert talk.json --mode segments --format vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	addPipelineFlags(convertCmd.Flags())
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = replaceExt(inputPath, opts.Format)
	}

	logger.Debugw("Converting transcript",
		"input", inputPath,
		"output", outputPath,
		"mode", opts.Mode,
		"min_word_duration", opts.MinWordDuration,
		"max_gap", opts.MaxGap,
	)

	res, err := pipeline.ConvertFile(inputPath, outputPath, opts)
	if err != nil {
		return err
	}

	logger.Infow("Transcript converted",
		"input", res.Input,
		"output", res.Output,
		"tokens", res.Tokens,
		"cues", res.Cues,
	)

	absOutput, _ := filepath.Abs(res.Output)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles written: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", res.Cues)
	return nil
}
