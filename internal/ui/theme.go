package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeMono  = "mono"
)

// Theme bundles palette, symbols and borders. Every screen renders through
// one Theme value; switching themes never changes behaviour.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help, Alert                   lipgloss.Style

	BorderColor lipgloss.TerminalColor
	Border      lipgloss.Border

	SymImage, SymNoImage, SymOK, SymFail, SymPointer string

	r *lipgloss.Renderer
}

type palette struct {
	text, soft, accent, accent2, success, pending, errc, border string
}

var (
	darkPalette = palette{
		text: "#ffffff", soft: "#cfd8ff", accent: "#38bdf8", accent2: "#a78bfa",
		success: "#4ade80", pending: "#fbbf24", errc: "#f87171", border: "#334155",
	}
	lightPalette = palette{
		text: "#1a1a1a", soft: "#455a64", accent: "#0ea5e9", accent2: "#7c3aed",
		success: "#15803d", pending: "#b45309", errc: "#b91c1c", border: "#cbd5e1",
	}
)

// NewTheme builds a named theme on r (lipgloss.DefaultRenderer when nil).
func NewTheme(name string, r *lipgloss.Renderer) (Theme, error) {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ThemeDark:
		return colored(ThemeDark, darkPalette, r), nil
	case ThemeLight:
		return colored(ThemeLight, lightPalette, r), nil
	case ThemeMono:
		return mono(r), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (want dark, light or mono)", name)
}

func colored(name string, p palette, r *lipgloss.Renderer) Theme {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:        name,
		Title:       r.NewStyle().Bold(true).Foreground(c(p.text)),
		Muted:       r.NewStyle().Foreground(c(p.soft)).Faint(true),
		Accent:      r.NewStyle().Foreground(c(p.accent)),
		Success:     r.NewStyle().Foreground(c(p.success)),
		Error:       r.NewStyle().Foreground(c(p.errc)).Bold(true),
		Pending:     r.NewStyle().Foreground(c(p.pending)),
		Selected:    r.NewStyle().Bold(true).Foreground(c(p.accent2)),
		Done:        r.NewStyle().Faint(true).Strikethrough(true),
		Help:        r.NewStyle().Foreground(c(p.soft)).Faint(true),
		Alert:       r.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(c(p.errc)).Padding(0, 2),
		BorderColor: c(p.border),
		Border:      lipgloss.RoundedBorder(),
		SymImage:    "▣",
		SymNoImage:  "·",
		SymOK:       "✔",
		SymFail:     "✖",
		SymPointer:  "›",
		r:           r,
	}
}

func mono(r *lipgloss.Renderer) Theme {
	plain := r.NewStyle()
	return Theme{
		Name:        ThemeMono,
		Title:       plain.Bold(true),
		Muted:       plain,
		Accent:      plain,
		Success:     plain,
		Error:       plain.Bold(true),
		Pending:     plain,
		Selected:    plain.Reverse(true),
		Done:        plain,
		Help:        plain,
		Alert:       plain.Border(lipgloss.ASCIIBorder()).Padding(0, 2),
		BorderColor: lipgloss.NoColor{},
		Border:      lipgloss.ASCIIBorder(),
		SymImage:    "[img]",
		SymNoImage:  "     ",
		SymOK:       "ok",
		SymFail:     "x",
		SymPointer:  ">",
		r:           r,
	}
}

// Toggled flips dark and light. Mono stays mono.
func (t Theme) Toggled() Theme {
	var next Theme
	switch t.Name {
	case ThemeDark:
		next, _ = NewTheme(ThemeLight, t.r)
	case ThemeLight:
		next, _ = NewTheme(ThemeDark, t.r)
	default:
		return t
	}
	return next
}

// IsDark reports whether the dark palette is active.
func (t Theme) IsDark() bool { return t.Name == ThemeDark }

// Box frames content with the theme border.
func (t Theme) Box() lipgloss.Style {
	return t.r.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
}

// Panel frames lines as one block.
func (t Theme) Panel(lines []string) string {
	return t.Box().Render(strings.Join(lines, "\n"))
}
