package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/shabd/internal/audio"
	"github.com/mgpai22/shabd/internal/transcript"
)

// implements Transcriber interface using OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// segment from OpenAI Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Words    []whisperWord    `json:"words"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*transcript.Transcript, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var fallback float64
	if d, err := audio.GetDuration(ctx, audioPath); err == nil {
		fallback = d.Seconds()
	}

	if t.shouldUseTranslation() {
		return t.transcribeWithTranslation(ctx, file, fallback)
	}
	return t.transcribeWithTimestamps(ctx, file, fallback)
}

func (t *OpenAITranscriber) shouldUseTranslation() bool {
	lang := strings.ToLower(strings.TrimSpace(t.options.TranscriptLanguage))
	return lang == "english" || lang == "en"
}

// the translations endpoint only returns segment timing
func (t *OpenAITranscriber) transcribeWithTranslation(
	ctx context.Context,
	file *os.File,
	fallback float64,
) (*transcript.Transcript, error) {
	params := openai.AudioTranslationNewParams{
		File:           file,
		Model:          openai.AudioModel(t.model),
		ResponseFormat: openai.AudioTranslationNewParamsResponseFormatVerboseJSON,
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Translations.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	result, err := parseVerboseJSONResponse(resp.RawJSON(), fallback)
	if err != nil {
		result = fallbackTranscript(resp.Text, fallback)
	}
	result.Language = "en"
	return result, nil
}

func (t *OpenAITranscriber) transcribeWithTimestamps(
	ctx context.Context,
	file *os.File,
	fallback float64,
) (*transcript.Transcript, error) {
	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	result, err := parseVerboseJSONResponse(resp.RawJSON(), fallback)
	if err != nil {
		result = fallbackTranscript(resp.Text, fallback)
	}
	if result.Language == "" {
		result.Language = t.options.Language
	}
	return result, nil
}

// parseVerboseJSONResponse maps a verbose_json body onto a transcript. Word
// timings, when requested, arrive as a flat list beside the segments.
func parseVerboseJSONResponse(rawJSON string, fallbackDuration float64) (*transcript.Transcript, error) {
	if rawJSON == "" {
		return nil, errors.New("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Segments) == 0 {
		if strings.TrimSpace(verboseResp.Text) == "" {
			return nil, errors.New("no segments or text in response")
		}
		dur := fallbackDuration
		if verboseResp.Duration > 0 {
			dur = verboseResp.Duration
		}
		result := fallbackTranscript(verboseResp.Text, dur)
		result.Language = verboseResp.Language
		return result, nil
	}

	result := &transcript.Transcript{
		Segments: make([]transcript.Segment, 0, len(verboseResp.Segments)),
		Language: verboseResp.Language,
	}
	for _, seg := range verboseResp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		result.Segments = append(result.Segments, transcript.Segment{
			Start: transcript.Float(seg.Start),
			End:   transcript.Float(seg.End),
			Text:  transcript.String(text),
		})
	}
	for _, w := range verboseResp.Words {
		result.WordSegments = append(result.WordSegments, transcript.Word{
			Word:  transcript.String(w.Word),
			Start: transcript.Float(w.Start),
			End:   transcript.Float(w.End),
		})
	}
	return result, nil
}

// single segment spanning the whole file, used when timing is unavailable
func fallbackTranscript(text string, duration float64) *transcript.Transcript {
	return &transcript.Transcript{
		Segments: []transcript.Segment{{
			Start: transcript.Float(0),
			End:   transcript.Float(duration),
			Text:  transcript.String(strings.TrimSpace(text)),
		}},
	}
}
