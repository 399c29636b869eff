// Package search implements the free-text todo filter.
package search

import (
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/datefmt"
	"github.com/Makepad-fr/tada/internal/model"
)

// Matcher matches todos against a query, formatting dates in Loc.
type Matcher struct {
	Loc *time.Location
}

// Matches uses the local timezone.
func Matches(item model.TodoItem, query string) bool {
	return Matcher{Loc: time.Local}.Matches(item, query)
}

// Matches reports whether the trimmed, lowercased query is a substring of the
// todo text or of the creation date (YYYY-MM-DD, D/MM/YY) or time (HH:mm).
// A blank query matches everything.
func (m Matcher) Matches(item model.TodoItem, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(item.TodoText), q) {
		return true
	}
	t, ok := datefmt.Parse(item.CreatedAt, m.Loc)
	if !ok {
		return false
	}
	for _, s := range []string{
		t.Format(datefmt.ISODateLayout),
		t.Format(datefmt.DateLayout),
		t.Format(datefmt.TimeLayout),
	} {
		if strings.Contains(s, q) {
			return true
		}
	}
	return false
}

// Filter returns the items matching query, in input order.
func (m Matcher) Filter(items []model.TodoItem, query string) []model.TodoItem {
	out := make([]model.TodoItem, 0, len(items))
	for _, it := range items {
		if m.Matches(it, query) {
			out = append(out, it)
		}
	}
	return out
}
