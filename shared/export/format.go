// Package export renders enriched video records into their output
// representations. Every renderer is a pure function of the record
// slice; any subset of them can run for a given run.
package export

import (
	"fmt"
	"strconv"
	"time"

	"bilitrends/internal/models"
)

// FormatDuration renders a duration in seconds as H:MM:SS, or M:SS when
// under an hour. Zero means the duration was never fetched.
func FormatDuration(seconds int) string {
	if seconds == 0 {
		return models.NotAvailable
	}

	minutes, secs := seconds/60, seconds%60
	hours, mins := minutes/60, minutes%60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatTimestamp renders an epoch timestamp in the given location.
// Zero means the publish time was never fetched.
func FormatTimestamp(ts int64, loc *time.Location) string {
	if ts == 0 {
		return "unknown"
	}
	return time.Unix(ts, 0).In(loc).Format("2006-01-02 15:04:05")
}

// FormatCount renders a counter value with thousands separators.
// Sentinel and non-numeric values pass through unchanged.
func FormatCount(v string) string {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return v
	}
	return groupDigits(n)
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
