// Package dateparse reads the loosely formatted dates report screens send.
package dateparse

import (
	"fmt"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateOnly,
}

// Parse accepts RFC3339 and the "YYYY-MM-DD[ HH:MM[:SS]]" forms. Values
// without an offset are read in loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	t, _, err := parse(value, loc)
	return t, err
}

// ParseEnd is Parse for the upper bound of a range: a bare date means the
// whole day, so the result is the last instant of that day.
func ParseEnd(value string, loc *time.Location) (time.Time, error) {
	t, layout, err := parse(value, loc)
	if err != nil {
		return t, err
	}
	if layout == dateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

func parse(value string, loc *time.Location) (time.Time, string, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", value)
}
