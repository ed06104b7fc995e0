package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgpai22/shabd/internal/transcript"
)

var prettyCmd = &cobra.Command{
	Use:   "pretty [file.json]",
	Short: "Re-indent a transcript JSON file",
	Long: `Rewrite a JSON file with four-space indentation so it can be read and
diffed. Every field is kept, including ones shabd does not use. The file is
rewritten in place unless -o is given.

Examples:
  shabd pretty talk.json
  shabd pretty talk.json -o talk.pretty.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPretty,
}

func init() {
	rootCmd.AddCommand(prettyCmd)
}

func runPretty(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = inputPath
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open JSON file: %w", err)
	}
	var buf bytes.Buffer
	err = transcript.Reindent(in, &buf)
	_ = in.Close()
	if err != nil {
		return fmt.Errorf("failed to re-indent %s: %w", inputPath, err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	logger.Infow("JSON re-indented", "input", inputPath, "output", outputPath)
	return nil
}
