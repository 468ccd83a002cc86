package types

import (
	"strings"
	"time"
)

// DateTimeLayout is the wire format for document timestamps
// (yyyy-MM-ddTHH:mm:ss.SSSZ, always UTC).
const DateTimeLayout = "2006-01-02T15:04:05.000Z"

// FormatDateTime renders t in DateTimeLayout. The zero time renders as "".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateTimeLayout)
}

// ParseDateTime parses a DateTimeLayout timestamp, falling back to RFC3339
// for upstream services that send offsets. Blank input yields the zero time.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// LaterOf returns the later of a and b
func LaterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
