package cli

import (
	"fmt"
	"time"

	"github.com/Makepad-fr/tada/internal/datefmt"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const textWidth = 60

func stats(items []model.TodoItem) (done, pending int) {
	for _, it := range items {
		if it.IsDone {
			done++
		} else {
			pending++
		}
	}
	return
}

// flatLines numbers each row with its position in pos, the numbering
// `edit` and `rm` resolve against, whatever order or filter the rows are in.
func flatLines(t ui.Theme, items []model.TodoItem, loc *time.Location, pos map[string]int) []string {
	if len(items) == 0 {
		return []string{t.Muted.Render("No todos.")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := fmt.Sprintf("%2d.", pos[it.ID])
		mark := t.Muted.Render(t.SymNoImage)
		if it.HasImage() {
			mark = t.Accent.Render(t.SymImage)
		}
		text := ui.PadRight(ui.Truncate(it.TodoText, textWidth), textWidth)
		if it.IsDone {
			text = t.Done.Render(text)
		}
		when := datefmt.FormatDateTimeIn(it.CreatedAt, loc)
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			t.Muted.Render(idx), mark, text, t.Muted.Render(when.Date+" "+when.Time)))
	}
	return out
}

func groupLines(t ui.Theme, items []model.TodoItem, loc *time.Location, pos map[string]int) []string {
	var pend, done []model.TodoItem
	for _, it := range items {
		if it.IsDone {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(t, pend, loc, pos)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(t, done, loc, pos)...)
	}
	return lines
}
