package transcribe

import (
	"context"
	"fmt"

	"github.com/mgpai22/shabd/internal/transcript"
)

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error)
}

// transcription service provider
type Provider string

const (
	ProviderWhisperX Provider = "whisperx"
	ProviderOpenAI   Provider = "openai"
	ProviderGemini   Provider = "gemini"
)

// transcription options
type Options struct {
	Language           string // Source language of audio, empty to auto-detect
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string
	WhisperX           WhisperXOptions
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderWhisperX:
		return NewWhisperXTranscriber(opts), nil
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// NeedsUpload reports whether the provider sends audio over the network, in
// which case callers should shrink it with audio.Prepare first.
func NeedsUpload(provider Provider) bool {
	return provider == ProviderOpenAI || provider == ProviderGemini
}
