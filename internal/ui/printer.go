package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorEnabled decides whether w gets ANSI colours. disable wins over force.
func ColorEnabled(w io.Writer, force, disable bool) bool {
	if disable {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes the CLI's status lines and panels.
type Printer struct {
	Out, Err io.Writer
	Theme    Theme
}

// NewPrinter builds a themed printer. Without colour the theme renders plain.
func NewPrinter(out, errOut io.Writer, theme string, color bool) (*Printer, error) {
	r := lipgloss.NewRenderer(out)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	t, err := NewTheme(theme, r)
	if err != nil {
		return nil, err
	}
	return &Printer{Out: out, Err: errOut, Theme: t}, nil
}

func (p *Printer) OK(msg string) {
	fmt.Fprintln(p.Out, p.Theme.Success.Render(p.Theme.SymOK+" "+msg))
}

func (p *Printer) Fail(msg string) {
	fmt.Fprintln(p.Err, p.Theme.Error.Render(p.Theme.SymFail+" "+msg))
}

func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.Err, p.Theme.Muted.Render(msg))
}

func (p *Printer) Panel(lines []string) {
	fmt.Fprintln(p.Out, p.Theme.Panel(lines))
}
