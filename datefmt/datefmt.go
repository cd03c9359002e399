// Package datefmt parses the calendar strings accepted by date and date-time
// fields. A fixed, ordered list of layouts is tried and the first that parses
// wins; nothing is clamped, so "13/01/2024" is not a valid month/day date.
package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	Date     Kind = "date"
	DateTime Kind = "date-time"
)

// ErrNoMatch is returned when no layout accepts the input.
var ErrNoMatch = errors.New("datefmt: no matching layout")

// Month and day accept one or two digits. month/day is tried before
// day/month, two-digit years before four-digit ones.
var dateLayouts = []string{
	"1/2/06",
	"2/1/06",
	"1/2/2006",
	"2/1/2006",
	"1-2-06",
	"2-1-06",
	"1-2-2006",
	"2-1-2006",
	"2006-1-2",
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"2/1/2006 15:04:05",
	"2/1/2006 3:04:05 PM",
}

// Layouts returns the layouts tried for kind, in order.
func Layouts(kind Kind) []string {
	switch kind {
	case Date:
		return append([]string(nil), dateLayouts...)
	case DateTime:
		return append([]string(nil), dateTimeLayouts...)
	}
	return nil
}

// Parse converts text into an instant. date-time results are normalized to
// UTC; inputs without an offset are read as UTC.
func Parse(text string, kind Kind) (time.Time, error) {
	layouts := Layouts(kind)
	if layouts == nil {
		return time.Time{}, fmt.Errorf("datefmt: unknown kind %q", kind)
	}
	text = strings.TrimSpace(text)
	for _, layout := range layouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if kind == DateTime {
			return t.UTC(), nil
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q as %s", ErrNoMatch, text, kind)
}

// Valid reports whether text parses as kind.
func Valid(text string, kind Kind) bool {
	_, err := Parse(text, kind)
	return err == nil
}
