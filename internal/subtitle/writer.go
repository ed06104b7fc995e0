package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderSRT renders cues as SubRip text. Cues are numbered by position, blocks
// are separated by one blank line and the output ends with a single newline.
// No cues renders as the empty string.
func RenderSRT(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		// index (1-based)
		fmt.Fprintf(&sb, "%d\n", i+1)

		// timestamps: 00:00:00,000 --> 00:00:00,000
		fmt.Fprintf(&sb, "%s --> %s\n",
			FormatTimestamp(cue.Start),
			FormatTimestamp(cue.End))

		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderVTT renders cues as WebVTT text.
func RenderVTT(cues []Cue) string {
	var sb strings.Builder

	// VTT header
	sb.WriteString("WEBVTT\n")

	for i, cue := range cues {
		sb.WriteString("\n")

		// optional cue identifier
		fmt.Fprintf(&sb, "%d\n", i+1)

		// timestamps: 00:00:00.000 --> 00:00:00.000
		fmt.Fprintf(&sb, "%s --> %s\n",
			FormatVTTTimestamp(cue.Start),
			FormatVTTTimestamp(cue.End))

		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// writes the subtitle to an SRT file
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	return writeFileAtomic(path, []byte(RenderSRT(sub.Cues)))
}

// writes the subtitle to a VTT file
func (w *VTTWriter) Write(sub *Subtitle, path string) error {
	return writeFileAtomic(path, []byte(RenderVTT(sub.Cues)))
}

// writeFileAtomic writes data next to path and renames it into place, so a
// failed run never leaves a truncated subtitle that a re-run would skip.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt or vtt", s)
	}
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".vtt":
		return FormatVTT
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}
