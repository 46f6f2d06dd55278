package export

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{"Zero", 0, "N/A"},
		{"SecondsOnly", 45, "0:45"},
		{"MinutesAndSeconds", 65, "1:05"},
		{"ExactHour", 3600, "1:00:00"},
		{"HoursMinutesSeconds", 3665, "1:01:05"},
		{"LongVideo", 7384, "2:03:04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		if got := FormatTimestamp(0, time.UTC); got != "unknown" {
			t.Errorf("FormatTimestamp(0) = %q, want unknown", got)
		}
	})

	t.Run("DeterministicInUTC", func(t *testing.T) {
		if got := FormatTimestamp(1700000000, time.UTC); got != "2023-11-14 22:13:20" {
			t.Errorf("FormatTimestamp(1700000000) = %q", got)
		}
	})

	t.Run("LocationApplied", func(t *testing.T) {
		loc := time.FixedZone("UTC+8", 8*3600)
		if got := FormatTimestamp(1700000000, loc); got != "2023-11-15 06:13:20" {
			t.Errorf("FormatTimestamp(1700000000, UTC+8) = %q", got)
		}
	})
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"1234567", "1,234,567"},
		{"N/A", "N/A"},
		{"", ""},
		{"not a number", "not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatCount(tt.in); got != tt.want {
				t.Errorf("FormatCount(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
