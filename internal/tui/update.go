package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/controller"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.busy == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadedMsg:
		m.finishWork()
		m.status = ""
		if msg.err != nil {
			// degrade to whatever loaded; the controller already logged it
			m.status = "could not load everything from the backend"
		}
		m.syncList()
		return m, nil

	case submittedMsg:
		m.finishWork()
		m.submitting = false
		if msg.err != nil {
			m.alert = msg.err.Error()
		}
		if !m.formOpen() {
			m.text.SetValue("")
			m.image.SetValue("")
			m.text.Blur()
			m.image.Blur()
			if msg.err == nil {
				m.status = "saved"
			}
		}
		m.syncList()
		return m, nil

	case deletedMsg:
		m.finishWork()
		if msg.err != nil {
			m.alert = msg.err.Error()
		} else {
			m.status = "deleted"
		}
		if !m.formOpen() {
			m.text.Blur()
			m.image.Blur()
		}
		m.syncList()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// the alert blocks everything until dismissed
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		if m.screen == screenLogin {
			return m.updateLogin(msg)
		}
		switch {
		case m.preview.open:
			return m.updatePreview(msg)
		case m.formOpen():
			return m.updateForm(msg)
		case m.searching:
			return m.updateSearch(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.setLoginFocus(1 - m.loginFocus)
		return m, nil
	case "enter":
		if m.loginFocus == 0 {
			m.setLoginFocus(1)
			return m, nil
		}
		err := m.sess.Login(m.username.Value(), m.password.Value())
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				m.logger.Warn().
					Str("username", strings.TrimSpace(m.username.Value())).
					Msg("login rejected")
			}
			m.loginErr = err.Error()
			return m, nil
		}
		m.logger.Info().
			Str("username", m.sess.User()).
			Msg("logged in")
		m.loginErr = ""
		m.password.SetValue("")
		m.username.Blur()
		m.password.Blur()
		m.screen = screenMain
		return m, m.startWork(m.loadCmd())
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	m.loginErr = ""
	return m, cmd
}

func (m *Model) setLoginFocus(i int) {
	m.loginFocus = i
	if i == 0 {
		m.username.Focus()
		m.password.Blur()
		return
	}
	m.password.Focus()
	m.username.Blur()
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit), msg.String() == "esc":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Add):
		m.ctrl.OpenAdd()
		m.openForm()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.StartEdit(r.item.ID); err != nil {
			m.alert = err.Error()
			return m, nil
		}
		m.openForm()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.startWork(m.deleteCmd(r.item.ID))

	case key.Matches(msg, m.keys.Image):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !r.item.HasImage() {
			m.status = "no image attached"
			return m, nil
		}
		m.preview.Open(r.item.Image(), r.item.TodoText)
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startWork(m.loadCmd())

	case key.Matches(msg, m.keys.Theme):
		m.theme = m.theme.Toggled()
		m.applyTheme()
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.Owners):
		m.showOwners = !m.showOwners
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		if m.sess == nil || !m.sess.Required() {
			return m, nil
		}
		m.sess.Logout()
		m.ctrl.Cancel()
		m.searching = false
		m.screen = screenLogin
		m.username.SetValue("")
		m.setLoginFocus(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// openForm loads the controller's form state into the inputs.
func (m *Model) openForm() {
	st := m.ctrl.State()
	m.text.SetValue(st.InputText)
	m.text.CursorEnd()
	m.image.SetValue("")
	m.formErr = ""
	m.formFocus = focusText
	m.text.Focus()
	m.image.Blur()
	m.resize()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.ctrl.CloseForm()
		m.text.Blur()
		m.image.Blur()
		m.formErr = ""
		m.resize()
		return m, nil
	case "tab", "shift+tab":
		if m.formFocus == focusText {
			m.formFocus = focusImage
			m.text.Blur()
			m.image.Focus()
		} else {
			m.formFocus = focusText
			m.image.Blur()
			m.text.Focus()
		}
		return m, nil
	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	if m.formFocus == focusText {
		m.text, cmd = m.text.Update(msg)
		m.ctrl.SetInput(m.text.Value())
	} else {
		m.image, cmd = m.image.Update(msg)
	}
	m.formErr = ""
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	m.ctrl.SetInput(m.text.Value())
	if strings.TrimSpace(m.text.Value()) == "" {
		m.formErr = controller.ErrEmptyText.Error()
		return m, nil
	}
	if err := m.ctrl.SelectImage(m.image.Value()); err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	m.submitting = true
	return m, m.startWork(m.submitCmd())
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.ctrl.ClearSearch()
		fallthrough
	case "enter":
		m.searching = false
		m.search.Blur()
		m.syncList()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearch(m.search.Value())
	m.syncList()
	return m, cmd
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		if err := m.copy(m.preview.src); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "image URL copied"
		}
		return m, nil
	case "esc", "q", "enter", "i":
		m.preview.Close()
	}
	return m, nil
}
