package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// long (HH:MM:SS.mmm) or short (MM:SS.mmm) timings, optional cue settings after
var vttTimingRegex = regexp.MustCompile(
	`^\s*((?:\d+:)?\d{2}:\d{2}\.\d{3})\s*-->\s*((?:\d+:)?\d{2}:\d{2}\.\d{3})`,
)

// ParseVTT reads WebVTT cues, skipping NOTE, STYLE and REGION blocks.
func ParseVTT(r io.Reader) (*Subtitle, error) {
	var cues []Cue
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Cue
	var textLines []string
	lineNum := 0
	headerParsed := false
	skipBlock := false

	flush := func() {
		if current != nil && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\n")
			current.Index = len(cues) + 1
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if !headerParsed {
			if strings.HasPrefix(trimmed, "WEBVTT") {
				headerParsed = true
				skipBlock = true
				continue
			}
		}

		if trimmed == "" {
			skipBlock = false
			flush()
			continue
		}
		if skipBlock {
			continue
		}

		if current == nil && (strings.HasPrefix(trimmed, "NOTE") ||
			trimmed == "STYLE" || trimmed == "REGION") {
			skipBlock = true
			continue
		}

		if matches := vttTimingRegex.FindStringSubmatch(line); matches != nil {
			flush()
			start, err := ParseTimestamp(matches[1])
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
			}
			end, err := ParseTimestamp(matches[2])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
			}
			current = &Cue{Start: start, End: end}
			continue
		}

		if current != nil {
			textLines = append(textLines, line)
		}
		// lines before a timing line are cue identifiers
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT file: %w", err)
	}

	return &Subtitle{Cues: cues, Format: FormatVTT}, nil
}
