// Package datefmt renders backend timestamps for display and orders todos
// newest first.
package datefmt

import (
	"slices"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

// NA is shown for timestamps that do not parse.
const NA = "N/A"

const (
	DateLayout    = "2/01/06"            // D/MM/YY
	TimeLayout    = "15:04"              // HH:mm
	ISODateLayout = "2006-01-02"         // YYYY-MM-DD
	OwnerLayout   = "02 Jan 2006, 15:04" // owner created-at line
)

// Layouts without a zone are read in the display location.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	ISODateLayout,
}

// Parse reads an ISO-ish timestamp. Zoneless inputs are interpreted in loc.
func Parse(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// DateTime is the display pair for one timestamp.
type DateTime struct {
	Date string
	Time string
}

// FormatDateTime formats s in the local timezone.
func FormatDateTime(s string) DateTime {
	return FormatDateTimeIn(s, time.Local)
}

// FormatDateTimeIn formats s as D/MM/YY and HH:mm in loc, or N/A for both
// when s is not a valid timestamp.
func FormatDateTimeIn(s string, loc *time.Location) DateTime {
	t, ok := Parse(s, loc)
	if !ok {
		return DateTime{Date: NA, Time: NA}
	}
	return DateTime{Date: t.Format(DateLayout), Time: t.Format(TimeLayout)}
}

// FormatOwnerTime renders an owner's created-at line, or N/A.
func FormatOwnerTime(s string, loc *time.Location) string {
	t, ok := Parse(s, loc)
	if !ok {
		return NA
	}
	return t.Format(OwnerLayout)
}

// CompareDate orders a before b when a was created strictly later.
// Unparseable timestamps sort as the oldest.
func CompareDate(a, b model.TodoItem) int {
	ta, _ := Parse(a.CreatedAt, time.UTC)
	tb, _ := Parse(b.CreatedAt, time.UTC)
	switch {
	case ta.After(tb):
		return -1
	case tb.After(ta):
		return 1
	}
	return 0
}

// SortNewestFirst returns a sorted copy; items is left untouched.
func SortNewestFirst(items []model.TodoItem) []model.TodoItem {
	out := slices.Clone(items)
	slices.SortStableFunc(out, CompareDate)
	return out
}
