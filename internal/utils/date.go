package utils

import (
	"fmt"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601Date   DateFormat = "2006-01-02"
	FormatBrazilianDate DateFormat = "02/01/2006"
	FormatRFC3339       DateFormat = time.RFC3339
)

var dateFormats = []DateFormat{
	FormatISO8601Date,
	FormatBrazilianDate,
	FormatRFC3339,
}

// ParseDate accepts the date formats the forms submit and returns midnight of
// that calendar day in loc.
func ParseDate(input string, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range dateFormats {
		parsed, err := time.ParseInLocation(string(format), input, loc)
		if err != nil {
			continue
		}
		if format == FormatRFC3339 {
			parsed = parsed.In(loc)
		}
		return StartOfDay(parsed), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", input)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsBeforeToday reports whether day falls on an earlier calendar day than now
// in loc.
func IsBeforeToday(day, now time.Time, loc *time.Location) bool {
	return StartOfDay(day.In(loc)).Before(StartOfDay(now.In(loc)))
}

// IsAfterToday reports whether day falls on a later calendar day than now in loc.
func IsAfterToday(day, now time.Time, loc *time.Location) bool {
	return StartOfDay(day.In(loc)).After(StartOfDay(now.In(loc)))
}
