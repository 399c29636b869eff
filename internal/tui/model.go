// Package tui is the interactive todo screen: login gate, owner list,
// searchable todo list, add/edit form and image preview.
package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/datefmt"
	"github.com/Makepad-fr/tada/internal/ui"
)

type screen int

const (
	screenLogin screen = iota
	screenMain
)

const (
	focusText = iota
	focusImage
)

// Options wires the screen to its collaborators.
type Options struct {
	Ctx        context.Context
	Controller *controller.Controller
	Session    *auth.Session
	Theme      ui.Theme
	Logger     zerolog.Logger
}

// Model implements tea.Model.
type Model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	sess   *auth.Session
	logger zerolog.Logger
	theme  ui.Theme
	keys   keyMap
	help   help.Model
	copy   func(string) error

	screen        screen
	width, height int

	username, password textinput.Model
	loginFocus         int
	loginErr           string

	list       list.Model
	search     textinput.Model
	searching  bool
	showOwners bool

	text, image textinput.Model
	formFocus   int
	formErr     string
	submitting  bool

	preview imagePreview
	alert   string
	status  string
	busy    int
	spin    spinner.Model
}

type (
	loadedMsg    struct{ err error }
	submittedMsg struct{ err error }
	deletedMsg   struct {
		id  string
		err error
	}
)

func newInput(prompt, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func New(opt Options) Model {
	ctx := opt.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		ctx:        ctx,
		ctrl:       opt.Controller,
		sess:       opt.Session,
		logger:     opt.Logger,
		theme:      opt.Theme,
		keys:       defaultKeys(),
		help:       help.New(),
		copy:       clipboard.WriteAll,
		width:      80,
		height:     24,
		showOwners: true,
	}

	m.username = newInput("Username: ", "Type your username", 64)
	m.password = newInput("Password: ", "Type your password", 64)
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'

	m.search = newInput("Search: ", "text, YYYY-MM-DD, D/MM/YY or HH:mm", 100)
	m.text = newInput("Todo:  ", "What needs doing?", 200)
	m.image = newInput("Image: ", "optional path to an image file", 4096)

	l := list.New(nil, rowDelegate{theme: m.theme, width: m.width}, m.width, m.height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.DisableQuitKeybindings()
	m.list = l

	m.spin = spinner.New()
	m.spin.Spinner = spinner.MiniDot

	m.applyTheme()

	if m.sess == nil || m.sess.LoggedIn() {
		m.screen = screenMain
		m.busy = 1
	} else {
		m.username.Focus()
	}
	m.resize()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenMain {
		return tea.Batch(m.loadCmd(), m.spin.Tick)
	}
	return nil
}

// Run starts the program on the alternate screen and blocks until it quits
// or ctx is done.
func Run(opt Options) error {
	ctx := opt.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opt), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) applyTheme() {
	t := m.theme
	m.list.SetDelegate(rowDelegate{theme: t, width: m.width})
	m.list.Styles.NoItems = t.Muted.PaddingLeft(2)
	m.list.Styles.ActivePaginationDot = t.Accent.SetString("•")
	m.list.Styles.InactivePaginationDot = t.Muted.SetString("•")
	m.spin.Style = t.Accent
	m.help.Styles.ShortKey = t.Accent
	m.help.Styles.ShortDesc = t.Help
	m.help.Styles.ShortSeparator = t.Help
	m.help.Styles.FullKey = t.Accent
	m.help.Styles.FullDesc = t.Help
	m.help.Styles.FullSeparator = t.Help
	for _, ti := range []*textinput.Model{&m.username, &m.password, &m.search, &m.text, &m.image} {
		ti.PromptStyle = t.Accent
		ti.PlaceholderStyle = t.Muted
	}
}

// resize fits the list between the fixed chrome and any open form.
func (m *Model) resize() {
	chrome := 8
	if m.showOwners {
		chrome += 2 + max(1, len(m.ownerLines()))
	}
	if m.formOpen() {
		chrome += 6
	}
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	m.list.SetSize(w, h)
	m.list.SetDelegate(rowDelegate{theme: m.theme, width: w})
	m.help.Width = w
}

func (m Model) formOpen() bool {
	return m.ctrl != nil && m.ctrl.State().FormOpen
}

// syncList rebuilds the rows from the controller's derived view.
func (m *Model) syncList() {
	view := m.ctrl.View()
	loc := m.ctrl.Location()
	items := make([]list.Item, 0, len(view))
	for _, it := range view {
		items = append(items, todoRow{item: it, when: datefmt.FormatDateTimeIn(it.CreatedAt, loc)})
	}
	m.list.SetItems(items)
	m.resize()
}

func (m Model) selected() (todoRow, bool) {
	r, ok := m.list.SelectedItem().(todoRow)
	return r, ok
}

func (m Model) loadCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

func (m Model) submitCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return submittedMsg{err: ctrl.Submit(ctx)}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return deletedMsg{id: id, err: ctrl.Delete(ctx, id)}
	}
}

// startWork counts an in-flight request and makes sure the spinner runs.
func (m *Model) startWork(cmd tea.Cmd) tea.Cmd {
	m.busy++
	if m.busy == 1 {
		return tea.Batch(cmd, m.spin.Tick)
	}
	return cmd
}

func (m *Model) finishWork() {
	if m.busy > 0 {
		m.busy--
	}
}
