package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/shabd/internal/pipeline"
	"github.com/mgpai22/shabd/internal/subtitle"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [subtitle_file]",
	Short: "Merge very short cues in an existing subtitle file",
	Long: `Fold every cue shorter than --min-event-duration seconds into the cue that
follows it, joining their text with a space, and renumber the result.

Supports SRT and VTT input. The output keeps the input format unless
--format is given.

Examples:
  shabd merge movie.srt
  shabd merge movie.srt --min-event-duration 0.8 -o movie.merged.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().
		Float64("min-event-duration", 0.5, "Merge cues shorter than this many seconds")
	mergeCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt); defaults to the input format")
}

func runMerge(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	minEvent := cfg.Pipeline.MinEventDuration
	if cmd.Flags().Changed("min-event-duration") {
		minEvent, _ = cmd.Flags().GetFloat64("min-event-duration")
	}
	if minEvent < 0 {
		return fmt.Errorf("--min-event-duration must not be negative, got %v", minEvent)
	}

	format := subtitle.GetFormatFromExtension(inputPath)
	if formatStr, _ := cmd.Flags().GetString("format"); formatStr != "" {
		f, err := subtitle.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		format = f
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outputPath = base + ".merged" + subtitle.GetExtensionForFormat(format)
	}

	res, err := pipeline.MergeFile(inputPath, outputPath, minEvent, format)
	if err != nil {
		return err
	}

	logger.Infow("Subtitles merged",
		"input", res.Input,
		"output", res.Output,
		"before", res.Tokens,
		"after", res.Cues,
	)

	absOutput, _ := filepath.Abs(res.Output)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles merged: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d -> %d\n", res.Tokens, res.Cues)
	return nil
}
