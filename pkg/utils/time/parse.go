// ABOUTME: Time parsing utilities for flexible date/time parsing
// ABOUTME: Handles the many date formats found in RSS/Atom feeds

package time

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparseable is returned when no known layout matches the input
var ErrUnparseable = errors.New("unparseable time")

// Layouts dateparse does not recognize but feeds in the wild still emit
var timeFormats = []string{
	"02 Jan 2006 15:04:05 MST",
	"02 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 2006 15:04 MST",
	"Monday, 02-Jan-06 15:04:05 MST",
}

// ParseFlexible parses a feed timestamp in any common layout.
// Timestamps without a zone are read as UTC.
func ParseFlexible(timeStr string) (time.Time, error) {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return time.Time{}, ErrUnparseable
	}

	if t, err := dateparse.ParseIn(timeStr, time.UTC); err == nil && !t.IsZero() {
		return t, nil
	}

	for _, format := range timeFormats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrUnparseable
}

// ParseWithDefault attempts to parse a time string, returning a default if parsing fails
func ParseWithDefault(timeStr string, defaultTime time.Time) time.Time {
	if parsed, err := ParseFlexible(timeStr); err == nil {
		return parsed
	}
	return defaultTime
}
