package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/shabd/internal/pipeline"
	"github.com/mgpai22/shabd/internal/subtitle"
)

var batchCmd = &cobra.Command{
	Use:   "batch [input_dir]",
	Short: "Convert every transcript JSON in a directory",
	Long: `Convert each *.json transcript in input_dir into a subtitle file in the
output directory. Files are processed in parallel. Inputs whose subtitle file
already exists are skipped unless --overwrite is given, so an interrupted run
can simply be restarted.

The command exits non-zero when any file fails; the others are still written.

Examples:
  shabd batch transcripts/
  shabd batch transcripts/ --output-dir subs/ --concurrency 8
  shabd batch transcripts/ --overwrite --max-gap 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addPipelineFlags(batchCmd.Flags())
	addBatchFlags(batchCmd.Flags())
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir := args[0]

	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	concurrency, overwrite, err := batchSettings(cmd)
	if err != nil {
		return err
	}
	outDir := outputDir(cmd, inputDir)

	jobs, err := pipeline.Plan(
		inputDir,
		outDir,
		pipeline.MatchExt(".json"),
		subtitle.GetExtensionForFormat(opts.Format),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &pipeline.Runner{
		Concurrency: concurrency,
		Overwrite:   overwrite,
		OutputDir:   outDir,
		Logger:      logger,
	}
	summary, err := runner.Run(ctx, jobs, func(ctx context.Context, job pipeline.Job) error {
		_, err := pipeline.ConvertFile(job.Input, job.Output, opts)
		return err
	})
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)
	return summary.Err()
}
