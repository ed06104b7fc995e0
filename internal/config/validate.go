package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateTranscribe(); err != nil {
		return err
	}
	if err := c.validateTranslate(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePipeline() error {
	switch c.Pipeline.Mode {
	case ModeWords, ModeSegments:
	default:
		return fmt.Errorf("pipeline.mode must be %q or %q, got %q", ModeWords, ModeSegments, c.Pipeline.Mode)
	}
	durations := map[string]float64{
		"pipeline.min_word_duration":  c.Pipeline.MinWordDuration,
		"pipeline.min_event_duration": c.Pipeline.MinEventDuration,
		"pipeline.max_gap":            c.Pipeline.MaxGap,
	}
	for name, v := range durations {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a non-negative number of seconds", name)
		}
	}
	switch c.Pipeline.Format {
	case "srt", "vtt":
	default:
		return fmt.Errorf("pipeline.format must be srt or vtt, got %q", c.Pipeline.Format)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Concurrency < 1 {
		return errors.New("batch.concurrency must be at least 1")
	}
	return nil
}

func (c *Config) validateTranscribe() error {
	switch c.Transcribe.Provider {
	case "whisperx", "openai", "gemini":
	default:
		return fmt.Errorf("transcribe.provider %q is not supported", c.Transcribe.Provider)
	}
	if c.Transcribe.WhisperXBatchSize < 1 {
		return errors.New("transcribe.whisperx_batch_size must be at least 1")
	}
	return nil
}

func (c *Config) validateTranslate() error {
	switch c.Translate.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("translate.provider %q is not supported", c.Translate.Provider)
	}
	if c.Translate.BatchSize < 1 {
		return errors.New("translate.batch_size must be at least 1")
	}
	if c.Translate.Concurrency < 1 {
		return errors.New("translate.concurrency must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported", c.Logging.Format)
	}
	return nil
}
