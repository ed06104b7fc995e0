package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var srtTimingRegex = regexp.MustCompile(
	`^\s*(\d+:\d{2}:\d{2}[,.]\d{1,3})\s*-->\s*(\d+:\d{2}:\d{2}[,.]\d{1,3})`,
)

// ParseSRT reads SubRip cues. Cues are renumbered from 1 in file order.
func ParseSRT(r io.Reader) (*Subtitle, error) {
	var cues []Cue
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Cue
	var textLines []string
	lineNum := 0

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

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				current = &Cue{}
				continue
			}
		}

		if current == nil || (len(textLines) == 0 && current.Start == 0 && current.End == 0) {
			if matches := srtTimingRegex.FindStringSubmatch(line); matches != nil {
				start, err := ParseTimestamp(matches[1])
				if err != nil {
					return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
				}
				end, err := ParseTimestamp(matches[2])
				if err != nil {
					return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
				}
				if current == nil {
					current = &Cue{}
				}
				current.Start = start
				current.End = end
				continue
			}
			if strings.Contains(line, "-->") {
				return nil, fmt.Errorf("malformed timing line %d: %q", lineNum, line)
			}
		}

		if current != nil {
			textLines = append(textLines, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return &Subtitle{Cues: cues, Format: FormatSRT}, nil
}
