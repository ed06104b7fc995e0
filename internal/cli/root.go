package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/shabd/internal/config"
	"github.com/mgpai22/shabd/internal/logging"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shabd",
	Short: "Turn word-timed transcripts into readable subtitles",
	Long: `Shabd converts word-level transcripts (WhisperX-style JSON) into SRT or
VTT subtitles. Very short words are merged into their neighbours and words are
grouped into cues at silences, so the result reads naturally.

It can also transcribe audio, merge short cues in existing subtitle files and
translate subtitles with an LLM provider.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (TOML or YAML, or set "+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}

// setup loads the configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, resolved, exists, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if verbose {
		opts.Level = "debug"
	}
	logger, err = logging.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if exists {
		logger.Debugw("Loaded config", "path", resolved)
	}
	return nil
}
