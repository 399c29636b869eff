package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/datefmt"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// todoRow adapts a TodoItem to list.Item.
type todoRow struct {
	item model.TodoItem
	when datefmt.DateTime
}

func (r todoRow) FilterValue() string { return r.item.TodoText }

// rowDelegate renders one todo per line.
type rowDelegate struct {
	theme ui.Theme
	width int
}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(todoRow)
	if !ok {
		return
	}
	t := d.theme

	mark := t.Muted.Render(t.SymNoImage)
	if r.item.HasImage() {
		mark = t.Accent.Render(t.SymImage)
	}
	when := fmt.Sprintf("%s %s", r.when.Date, r.when.Time)

	textWidth := d.width - 28
	if textWidth < 10 {
		textWidth = 10
	}
	text := ui.PadRight(ui.Truncate(r.item.TodoText, textWidth), textWidth)
	if r.item.IsDone {
		text = t.Done.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.SymPointer + " ")
		if !r.item.IsDone {
			text = t.Selected.Render(text)
		}
	}
	fmt.Fprintf(w, "%s%s %s %s  %s",
		prefix,
		t.Muted.Render(fmt.Sprintf("%2d.", index+1)),
		mark,
		text,
		t.Muted.Render(when))
}
