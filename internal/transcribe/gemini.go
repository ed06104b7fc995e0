package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/mgpai22/shabd/internal/transcript"
)

// implements Transcriber interface using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

type transcriptWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// segment from Gemini's JSON response
type transcriptSegment struct {
	Start float64          `json:"start"`
	End   float64          `json:"end"`
	Text  string           `json:"text"`
	Words []transcriptWord `json:"words,omitempty"`
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = t.client.Files.Delete(context.WithoutCancel(ctx), uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.buildTranscriptionPrompt()),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := parseTranscriptionResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	out := toTranscript(segments)
	out.Language = t.options.Language
	return out, nil
}

// creates the prompt for transcription
func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken. ")
	sb.WriteString("Also list every word of the phrase with its own start and end timestamp. ")
	sb.WriteString(`Format your response as a JSON object {"segments": [{"start": 0.0, "end": 1.2, "text": "...", `)
	sb.WriteString(`"words": [{"word": "...", "start": 0.0, "end": 0.4}]}]} `)
	sb.WriteString("where every 'start' and 'end' is a timestamp in seconds (as a number). ")

	if t.options.Language != "" {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", t.options.Language))
	}

	if t.options.TranscriptLanguage != "" && t.options.TranscriptLanguage != "native" {
		sb.WriteString(fmt.Sprintf("Output the transcript in %s. ", t.options.TranscriptLanguage))
	}

	if t.options.Prompt != "" {
		sb.WriteString(t.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON, no other text or markdown formatting.")

	return sb.String()
}

// parses Gemini's response into segments
func parseTranscriptionResponse(result *genai.GenerateContentResponse) ([]transcriptSegment, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	responseText := sb.String()
	if responseText == "" {
		return nil, errors.New("no text in Gemini response")
	}

	return extractTranscriptSegments(cleanJSONResponse(responseText))
}

// extractTranscriptSegments finds the first JSON value in s that is, or wraps,
// a usable array of segments. Models sometimes add prose around the JSON or
// nest the array under an arbitrary key.
func extractTranscriptSegments(s string) ([]transcriptSegment, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}
		if segments, ok := findSegments(raw, 0); ok {
			return segments, nil
		}
		i += int(dec.InputOffset()) - 1
	}
	return nil, fmt.Errorf("no transcript segments found in response: %s", truncateString(s, 200))
}

// preferred wrapper keys, checked before any other key
var segmentKeys = []string{"segments", "transcript", "data"}

func findSegments(raw json.RawMessage, depth int) ([]transcriptSegment, bool) {
	if depth > 4 {
		return nil, false
	}

	var segments []transcriptSegment
	if err := json.Unmarshal(raw, &segments); err == nil {
		return segments, validateSegments(segments)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	for _, key := range segmentKeys {
		if v, ok := obj[key]; ok {
			if segments, ok := findSegments(v, depth+1); ok {
				return segments, true
			}
		}
	}
	for key, v := range obj {
		if isSegmentKey(key) {
			continue
		}
		if segments, ok := findSegments(v, depth+1); ok {
			return segments, true
		}
	}
	return nil, false
}

func isSegmentKey(key string) bool {
	for _, k := range segmentKeys {
		if k == key {
			return true
		}
	}
	return false
}

// a segment list is usable when at least one entry carries data
func validateSegments(segments []transcriptSegment) bool {
	for _, seg := range segments {
		if seg.Text != "" || seg.Start != 0 || seg.End != 0 {
			return true
		}
	}
	return false
}

func toTranscript(segments []transcriptSegment) *transcript.Transcript {
	out := &transcript.Transcript{Segments: make([]transcript.Segment, 0, len(segments))}
	for _, seg := range segments {
		s := transcript.Segment{
			Start: transcript.Float(seg.Start),
			End:   transcript.Float(seg.End),
			Text:  transcript.String(strings.TrimSpace(seg.Text)),
		}
		for _, w := range seg.Words {
			s.Words = append(s.Words, transcript.Word{
				Word:  transcript.String(w.Word),
				Start: transcript.Float(w.Start),
				End:   transcript.Float(w.End),
			})
		}
		out.Segments = append(out.Segments, s)
	}
	return out
}

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
