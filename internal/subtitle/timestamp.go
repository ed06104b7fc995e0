package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const zeroTimestamp = "00:00:00,000"

// Millis converts seconds to whole milliseconds, rounding to nearest.
// Every timecode and every duration/gap comparison goes through here so that
// formatting and merging agree on the same millisecond.
func Millis(seconds float64) int64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return int64(math.Round(seconds * 1000))
}

// FormatTimestamp renders seconds as an SRT timecode (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	return formatClock(seconds, ',')
}

// FormatOptionalTimestamp is FormatTimestamp with a zero fallback for a
// missing value.
func FormatOptionalTimestamp(seconds *float64) string {
	if seconds == nil {
		return zeroTimestamp
	}
	return FormatTimestamp(*seconds)
}

// FormatVTTTimestamp renders seconds as a WebVTT timecode (HH:MM:SS.mmm).
func FormatVTTTimestamp(seconds float64) string {
	return formatClock(seconds, '.')
}

func formatClock(seconds float64, sep byte) string {
	ms := Millis(seconds)
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	secs := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, ms)
}

// ParseTimestamp parses "HH:MM:SS,mmm", "HH:MM:SS.mmm" or "MM:SS.mmm" into
// seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	clock, frac, ok := strings.Cut(strings.ReplaceAll(value, ",", "."), ".")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	parts := strings.Split(clock, ":")
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	var fields [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	if len(frac) == 0 || len(frac) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	millis, err := strconv.ParseInt(frac+strings.Repeat("0", 3-len(frac)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	total := fields[0]*3_600_000 + fields[1]*60_000 + fields[2]*1000 + millis
	return float64(total) / 1000, nil
}
