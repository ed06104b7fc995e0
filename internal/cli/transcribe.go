package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/shabd/internal/audio"
	"github.com/mgpai22/shabd/internal/config"
	"github.com/mgpai22/shabd/internal/pipeline"
	"github.com/mgpai22/shabd/internal/subtitle"
	"github.com/mgpai22/shabd/internal/transcribe"
	"github.com/mgpai22/shabd/internal/transcript"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio_dir]",
	Short: "Transcribe a directory of audio or video files into subtitles",
	Long: `Transcribe every audio or video file in audio_dir and write a subtitle
file (and, unless --no-json is given, the word-timed transcript JSON) for each.

Providers:
  whisperx  runs WhisperX locally through uvx (no API key needed)
  openai    uploads compressed audio to the OpenAI Whisper API
  gemini    uploads compressed audio to Google Gemini

Files whose subtitle output already exists are skipped unless --overwrite is
given. The command exits non-zero when any file fails.

Examples:
  shabd transcribe recordings/
  shabd transcribe recordings/ --provider openai --output-dir subs/
  shabd transcribe recordings/ --provider gemini -l ja --transcript-language english`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	def := config.Default().Transcribe
	transcribeCmd.Flags().
		String("provider", def.Provider, "Transcription provider (whisperx, openai, gemini)")
	transcribeCmd.Flags().
		String("model", "", "Model to use (provider-specific, uses sensible defaults)")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	transcribeCmd.Flags().
		String("transcript-language", "native", "Output language for transcript (e.g., 'english', or 'native' for original language)")
	transcribeCmd.Flags().
		String("device", def.WhisperXDevice, "WhisperX device (cpu, cuda)")
	transcribeCmd.Flags().
		Bool("no-json", false, "Do not keep the transcript JSON next to the subtitles")
	addPipelineFlags(transcribeCmd.Flags())
	addBatchFlags(transcribeCmd.Flags())
}

// the OpenAI API can only transcribe natively or translate into English
func isValidOpenAITranscriptLanguage(lang string) bool {
	normalized := strings.ToLower(strings.TrimSpace(lang))
	return normalized == "" ||
		normalized == "native" ||
		normalized == "english" ||
		normalized == "en"
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	fs := cmd.Flags()

	tc := cfg.Transcribe
	if fs.Changed("provider") {
		tc.Provider, _ = fs.GetString("provider")
	}
	if fs.Changed("model") {
		tc.Model, _ = fs.GetString("model")
	}
	if fs.Changed("device") {
		tc.WhisperXDevice, _ = fs.GetString("device")
	}
	if fs.Changed("language") {
		tc.Language, _ = fs.GetString("language")
	}
	if noJSON, _ := fs.GetBool("no-json"); noJSON {
		tc.SaveJSON = false
	}
	transcriptLang, _ := fs.GetString("transcript-language")
	apiKeyFlag, _ := fs.GetString("api-key")

	provider := transcribe.Provider(strings.ToLower(strings.TrimSpace(tc.Provider)))
	if provider == transcribe.ProviderOpenAI && !isValidOpenAITranscriptLanguage(transcriptLang) {
		return fmt.Errorf(
			"OpenAI only supports transcript language \"native\" or \"english\", got %q",
			transcriptLang,
		)
	}

	apiKey := config.APIKey(string(provider), apiKeyFlag)
	if transcribe.NeedsUpload(provider) && apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s_API_KEY environment variable",
			strings.ToUpper(string(provider)),
		)
	}

	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	concurrency, overwrite, err := batchSettings(cmd)
	if err != nil {
		return err
	}
	outDir := outputDir(cmd, inputDir)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		Language:           tc.Language,
		TranscriptLanguage: transcriptLang,
		Model:              tc.Model,
		WhisperX: transcribe.WhisperXOptions{
			Device:      tc.WhisperXDevice,
			ComputeType: tc.WhisperXComputeType,
			BatchSize:   tc.WhisperXBatchSize,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	jobs, err := pipeline.Plan(
		inputDir,
		outDir,
		audio.IsMediaFile,
		subtitle.GetExtensionForFormat(opts.Format),
	)
	if err != nil {
		return err
	}

	logger.Infow("Starting transcription",
		"input_dir", inputDir,
		"output_dir", outDir,
		"provider", provider,
		"files", len(jobs),
	)

	runner := &pipeline.Runner{
		Concurrency: concurrency,
		Overwrite:   overwrite,
		OutputDir:   outDir,
		Logger:      logger,
	}
	summary, err := runner.Run(ctx, jobs, func(ctx context.Context, job pipeline.Job) error {
		return transcribeOne(ctx, transcriber, provider, job, opts, tc.SaveJSON)
	})
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)
	return summary.Err()
}

func transcribeOne(
	ctx context.Context,
	transcriber transcribe.Transcriber,
	provider transcribe.Provider,
	job pipeline.Job,
	opts pipeline.Options,
	saveJSON bool,
) error {
	source := job.Input

	if transcribe.NeedsUpload(provider) {
		tempDir, err := os.MkdirTemp("", "shabd-*")
		if err != nil {
			return fmt.Errorf("failed to create temp directory: %w", err)
		}
		defer os.RemoveAll(tempDir)

		compression := audio.DefaultCompressionOptions()
		source = filepath.Join(tempDir, "audio"+audio.ExtensionFor(compression))
		if err := audio.Prepare(ctx, job.Input, source, compression); err != nil {
			return fmt.Errorf("failed to prepare audio: %w", err)
		}
	}

	t, err := transcriber.Transcribe(ctx, source)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	if saveJSON {
		jsonPath := strings.TrimSuffix(job.Output, filepath.Ext(job.Output)) + ".json"
		if err := transcript.Save(jsonPath, t); err != nil {
			return fmt.Errorf("%w: %s: %w", pipeline.ErrOutputWrite, jsonPath, err)
		}
	}

	res, err := pipeline.WriteTranscript(t, job.Input, job.Output, opts)
	if err != nil {
		return err
	}
	logger.Debugw("Transcript written",
		"input", job.Input,
		"segments", len(t.Segments),
		"cues", res.Cues,
	)
	return nil
}
