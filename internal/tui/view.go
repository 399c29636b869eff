package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/datefmt"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (m Model) View() string {
	var body string
	if m.screen == screenLogin {
		body = m.loginView()
	} else {
		body = m.mainView()
	}
	switch {
	case m.alert != "":
		return m.overlay(m.theme.Alert.Render(
			m.theme.Error.Render(m.theme.SymFail+" "+m.alert) + "\n\n" +
				m.theme.Muted.Render("press any key")))
	case m.preview.open:
		return m.overlay(m.previewView())
	}
	return body
}

func (m Model) overlay(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) loginView() string {
	t := m.theme
	lines := []string{
		t.Title.Render("Login"),
		"",
		m.username.View(),
		m.password.View(),
		"",
	}
	if m.loginErr != "" {
		lines = append(lines, t.Error.Render(m.loginErr))
	} else {
		lines = append(lines, t.Help.Render("enter to continue • tab to switch • esc to quit"))
	}
	return m.overlay(t.Panel(lines))
}

func (m Model) mainView() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.showOwners {
		b.WriteString(t.Accent.Render("Owner List"))
		b.WriteString("\n")
		b.WriteString(strings.Join(m.ownerLines(), "\n"))
		b.WriteString("\n\n")
	}

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(t.Muted.Render("/ to search"))
	}
	b.WriteString("\n")

	b.WriteString(m.list.View())

	if m.formOpen() {
		b.WriteString("\n")
		b.WriteString(m.formView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return t.Box().Render(b.String())
}

func (m Model) headerView() string {
	t := m.theme
	st := m.ctrl.State()
	images := 0
	for _, it := range st.Todos {
		if it.HasImage() {
			images++
		}
	}
	parts := []string{
		t.Title.Render("TODO APP"),
		fmt.Sprintf("%s %d", t.Accent.Render("Total"), len(st.Todos)),
		fmt.Sprintf("%s %d", t.Pending.Render("Shown"), len(m.list.Items())),
		fmt.Sprintf("%s %d", t.Success.Render(t.SymImage), images),
	}
	if m.sess != nil && m.sess.User() != "" {
		parts = append(parts, t.Muted.Render("@"+m.sess.User()))
	}
	parts = append(parts, t.Muted.Render(themeLabel(t)))
	return strings.Join(parts, "  ")
}

func themeLabel(t ui.Theme) string {
	switch {
	case t.IsDark():
		return "☾ " + t.Name
	case t.Name == ui.ThemeLight:
		return "☀ " + t.Name
	}
	return t.Name
}

func (m Model) ownerLines() []string {
	t := m.theme
	if m.ctrl == nil {
		return nil
	}
	owners := m.ctrl.State().Owners
	if len(owners) == 0 {
		return []string{t.Muted.Render("No owners found.")}
	}
	loc := m.ctrl.Location()
	lines := make([]string, 0, len(owners))
	for _, o := range owners {
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			t.Title.Render(o.Name),
			t.Muted.Render(fmt.Sprintf("Course: %s | Section: %s", o.CourseID, o.Section)),
			t.Muted.Render(datefmt.FormatOwnerTime(o.CreatedAt, loc))))
	}
	return lines
}

func (m Model) formView() string {
	t := m.theme
	st := m.ctrl.State()
	title := "Add Todo"
	if st.Mode == controller.ModeEdit {
		title = "Edit Todo"
	}
	head := t.Title.Render(title)
	if m.formErr != "" {
		head += "  " + t.Error.Render(m.formErr)
	}
	hint := "enter to save • tab to switch field • esc to cancel"
	if m.submitting {
		hint = m.spin.View() + " saving..."
	}
	return t.Box().Render(strings.Join([]string{
		head,
		m.text.View(),
		m.image.View(),
		t.Help.Render(hint),
	}, "\n"))
}

func (m Model) statusView() string {
	t := m.theme
	if m.busy > 0 {
		return m.spin.View() + " " + t.Muted.Render("working...")
	}
	return t.Muted.Render(m.status)
}

func (m Model) previewView() string {
	t := m.theme
	lines := []string{
		t.Title.Render(m.preview.alt),
		"",
		t.Accent.Render(m.preview.src),
		"",
		t.Help.Render("c to copy URL • esc to close"),
	}
	if m.status != "" {
		lines = append(lines, t.Muted.Render(m.status))
	}
	return t.Panel(lines)
}
