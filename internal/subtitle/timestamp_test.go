package subtitle

import (
	"math"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00,000"},
		{"hour minute second half", 3661.5, "01:01:01,500"},
		{"sub-millisecond rounds down", 1.0004, "00:00:01,000"},
		{"sub-millisecond rounds up", 1.0006, "00:00:01,001"},
		{"float noise", 0.3, "00:00:00,300"},
		{"carry into seconds", 59.9996, "00:01:00,000"},
		{"hours past 99", 100 * 3600, "100:00:00,000"},
		{"negative clamps", -2, "00:00:00,000"},
		{"nan", math.NaN(), "00:00:00,000"},
		{"inf", math.Inf(1), "00:00:00,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.seconds); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatOptionalTimestamp(t *testing.T) {
	if got := FormatOptionalTimestamp(nil); got != "00:00:00,000" {
		t.Errorf("FormatOptionalTimestamp(nil) = %q", got)
	}
	v := 12.345
	if got := FormatOptionalTimestamp(&v); got != "00:00:12,345" {
		t.Errorf("FormatOptionalTimestamp(12.345) = %q", got)
	}
}

func TestFormatVTTTimestamp(t *testing.T) {
	if got := FormatVTTTimestamp(3661.5); got != "01:01:01.500" {
		t.Errorf("FormatVTTTimestamp(3661.5) = %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "00:00:00,000", want: 0},
		{in: "01:01:01,500", want: 3661.5},
		{in: "01:01:01.500", want: 3661.5},
		{in: "02:03.040", want: 123.04},
		{in: " 00:00:05,5 ", want: 5.5},
		{in: "", wantErr: true},
		{in: "00:00:05", wantErr: true},
		{in: "00:61:00,000", wantErr: true},
		{in: "aa:00:00,000", wantErr: true},
		{in: "00:00:00,1234", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimestamp(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, ms := range []int64{0, 1, 999, 1000, 61_001, 3_600_000, 36_061_123} {
		s := float64(ms) / 1000
		got, err := ParseTimestamp(FormatTimestamp(s))
		if err != nil {
			t.Fatalf("ParseTimestamp(FormatTimestamp(%v)): %v", s, err)
		}
		if Millis(got) != ms {
			t.Errorf("round trip of %dms gave %dms", ms, Millis(got))
		}
	}
}
