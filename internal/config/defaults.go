package config

const (
	ModeWords    = "words"
	ModeSegments = "segments"

	defaultMinWordDuration  = 0.15
	defaultMinEventDuration = 0.5
	defaultMaxGap           = 1.0
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Pipeline: Pipeline{
			Mode:               ModeWords,
			MinWordDuration:    defaultMinWordDuration,
			MinEventDuration:   defaultMinEventDuration,
			MaxGap:             defaultMaxGap,
			PreferWordSegments: true,
			Format:             "srt",
		},
		Batch: Batch{
			Concurrency: 4,
		},
		Transcribe: Transcribe{
			Provider:            "whisperx",
			SaveJSON:            true,
			WhisperXDevice:      "cpu",
			WhisperXComputeType: "int8",
			WhisperXBatchSize:   4,
		},
		Translate: Translate{
			Provider:    "gemini",
			BatchSize:   50,
			Concurrency: 3,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}
