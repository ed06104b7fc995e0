package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/shabd/internal/config"
	"github.com/mgpai22/shabd/internal/subtitle"
	"github.com/mgpai22/shabd/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate an existing SRT or VTT file to another language using AI.
Cue timings and numbering are kept exactly; only the text changes.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Examples:
  shabd translate video.srt --target-language japanese
  shabd translate video.srt --target-language ja --overlay
  shabd translate video.vtt -l english --target-language spanish -o translated.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	def := config.Default().Translate
	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("provider", def.Provider, "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		String("prompt", "", "Additional instructions for the translator")
	translateCmd.Flags().
		IntP("concurrency", "c", def.Concurrency, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", def.BatchSize, "Number of subtitle entries per API request")

	_ = translateCmd.MarkFlagRequired("target-language")
}

// translatedPath names the output next to the input, tagged with the target
// language.
func translatedPath(input, targetLang string, overlay bool) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if overlay {
		return fmt.Sprintf("%s.%s.overlay%s", base, targetLang, ext)
	}
	return fmt.Sprintf("%s.%s%s", base, targetLang, ext)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	fs := cmd.Flags()

	targetLang, _ := fs.GetString("target-language")
	overlay, _ := fs.GetBool("overlay")
	apiKeyFlag, _ := fs.GetString("api-key")
	prompt, _ := fs.GetString("prompt")
	outputPath, _ := fs.GetString("output")
	inputLang, _ := fs.GetString("language")

	tc := cfg.Translate
	if fs.Changed("provider") {
		tc.Provider, _ = fs.GetString("provider")
	}
	if fs.Changed("model") {
		tc.Model, _ = fs.GetString("model")
	}
	if fs.Changed("concurrency") {
		tc.Concurrency, _ = fs.GetInt("concurrency")
	}
	if fs.Changed("batch-size") {
		tc.BatchSize, _ = fs.GetInt("batch-size")
	}

	if strings.TrimSpace(targetLang) == "" {
		return errors.New("target language is required")
	}
	if inputLang != "" &&
		strings.EqualFold(strings.TrimSpace(inputLang), strings.TrimSpace(targetLang)) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}
	if tc.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", tc.Concurrency)
	}
	if tc.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", tc.BatchSize)
	}

	provider := translate.Provider(strings.ToLower(strings.TrimSpace(tc.Provider)))
	apiKey := config.APIKey(string(provider), apiKeyFlag)
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s_API_KEY environment variable",
			strings.ToUpper(string(provider)),
		)
	}

	if outputPath == "" {
		outputPath = translatedPath(subtitlePath, targetLang, overlay)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"input_language", inputLang,
		"overlay", overlay,
		"provider", provider,
		"model", tc.Model,
	)

	sub, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(sub.Cues) == 0 {
		return errors.New("subtitle file contains no cues")
	}

	logger.Infow("Parsed subtitle file",
		"cues", len(sub.Cues),
		"format", sub.Format,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          tc.Model,
		Prompt:         prompt,
		BatchSize:      tc.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	items := translate.Items(sub)
	logger.Infow("Translating subtitles",
		"items", len(items),
		"concurrency", tc.Concurrency,
		"batch_size", tc.BatchSize,
	)

	results, err := translateItems(ctx, translator, items, tc.Concurrency)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	skipped, err := translate.Apply(sub, results, overlay)
	if err != nil {
		return err
	}
	if skipped > 0 {
		logger.Warnw("Skipped results with invalid index",
			"skipped", skipped,
			"max", len(sub.Cues)-1,
		)
	}

	writer, err := subtitle.NewWriter(sub.Format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}
	if err := writer.Write(sub, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles translated successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", len(sub.Cues))
	fmt.Fprintf(out, "  Target language: %s\n", targetLang)
	if overlay {
		fmt.Fprintf(out, "  Mode: bilingual overlay\n")
	}
	return nil
}

func translateItems(
	ctx context.Context,
	translator translate.Translator,
	items []translate.TranslationItem,
	concurrency int,
) ([]translate.TranslationResult, error) {
	if ct, ok := translator.(translate.ConcurrentTranslator); ok {
		return ct.TranslateWithConcurrency(ctx, items, concurrency)
	}
	return translator.Translate(ctx, items)
}
