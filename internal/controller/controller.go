// Package controller owns the todo screen state: the loaded collections,
// the search text and the ADD/EDIT form. All transitions go through
// Controller methods.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/datefmt"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/search"
)

type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "ADD"
}

// State is a copy of the controller state at one instant.
type State struct {
	Mode       Mode
	CurTodoID  string
	InputText  string
	ImagePath  string
	FormOpen   bool
	SearchText string
	Todos      []model.TodoItem
	Owners     []model.OwnerItem
}

type Controller struct {
	svc     api.Service
	logger  zerolog.Logger
	matcher search.Matcher

	// opMu serialises mutations so a submit or delete and its re-fetch
	// finish before the next one starts.
	opMu sync.Mutex

	mu         sync.Mutex
	mode       Mode
	curTodoID  string
	inputText  string
	imagePath  string
	formOpen   bool
	searchText string
	todos      []model.TodoItem
	owners     []model.OwnerItem
}

// New returns a controller in ADD mode with empty collections. Dates are
// rendered and searched in loc (time.Local when nil).
func New(svc api.Service, logger zerolog.Logger, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		svc:     svc,
		logger:  logger,
		matcher: search.Matcher{Loc: loc},
		todos:   []model.TodoItem{},
		owners:  []model.OwnerItem{},
	}
}

func (c *Controller) Location() *time.Location { return c.matcher.Loc }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Mode:       c.mode,
		CurTodoID:  c.curTodoID,
		InputText:  c.inputText,
		ImagePath:  c.imagePath,
		FormOpen:   c.formOpen,
		SearchText: c.searchText,
		Todos:      slices.Clone(c.todos),
		Owners:     slices.Clone(c.owners),
	}
}

// View is the todo list filtered by the search text, newest first.
func (c *Controller) View() []model.TodoItem {
	c.mu.Lock()
	todos, q := c.todos, c.searchText
	c.mu.Unlock()
	return datefmt.SortNewestFirst(c.matcher.Filter(todos, q))
}

// Load fetches todos and owners concurrently. A failed fetch is logged and
// leaves its collection as it was; the errors are returned joined.
func (c *Controller) Load(ctx context.Context) error {
	var (
		wg                  sync.WaitGroup
		todosErr, ownersErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		todosErr = c.RefreshTodos(ctx)
	}()
	go func() {
		defer wg.Done()
		ownersErr = c.refreshOwners(ctx)
	}()
	wg.Wait()
	return errors.Join(todosErr, ownersErr)
}

// RefreshTodos replaces the todo collection with the backend's.
func (c *Controller) RefreshTodos(ctx context.Context) error {
	todos, err := c.svc.ListTodos(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("failed to fetch todo list")
		return err
	}
	c.mu.Lock()
	c.todos = todos
	c.mu.Unlock()
	c.logger.Debug().
		Int("count", len(todos)).
		Msg("fetched todos")
	return nil
}

func (c *Controller) refreshOwners(ctx context.Context) error {
	owners, err := c.svc.ListOwners(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("failed to fetch owner list")
		return err
	}
	c.mu.Lock()
	c.owners = owners
	c.mu.Unlock()
	c.logger.Debug().
		Int("count", len(owners)).
		Msg("fetched owners")
	return nil
}

func (c *Controller) SetSearch(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchText = q
}

func (c *Controller) ClearSearch() { c.SetSearch("") }

func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputText = text
}

// OpenAdd opens the form. In EDIT mode the form is already open.
func (c *Controller) OpenAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formOpen = true
}

// StartEdit moves to EDIT for the todo with the given id, pre-filling its text.
func (c *Controller) StartEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.todos, func(it model.TodoItem) bool { return it.ID == id })
	if id == "" || i < 0 {
		return fmt.Errorf("edit %q: %w", id, ErrNoSuchTarget)
	}
	c.mode = ModeEdit
	c.curTodoID = id
	c.inputText = c.todos[i].TodoText
	c.imagePath = ""
	c.formOpen = true
	return nil
}

// Cancel returns to a fresh ADD state with the form closed.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// CloseForm dismisses the form. Closing an edit cancels it; closing an add
// keeps the typed text but drops the selected image.
func (c *Controller) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeEdit {
		c.resetLocked()
		return
	}
	c.imagePath = ""
	c.formOpen = false
}

func (c *Controller) resetLocked() {
	c.mode = ModeAdd
	c.curTodoID = ""
	c.inputText = ""
	c.imagePath = ""
	c.formOpen = false
}

// SelectImage attaches a local image file to the next submit.
func (c *Controller) SelectImage(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		c.ClearImage()
		return nil
	}
	if err := checkImage(path); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imagePath = path
	return nil
}

func (c *Controller) ClearImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imagePath = ""
}

func checkImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read image: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	return nil
}

// Submit sends the form. EDIT without a new image patches the text only;
// anything else goes through the multipart upload. On success the form
// resets to ADD and the todo list is re-fetched; on failure nothing changes.
func (c *Controller) Submit(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	mode, id, text, imagePath := c.mode, c.curTodoID, c.inputText, c.imagePath
	c.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	var err error
	if mode == ModeEdit && imagePath == "" {
		err = c.svc.PatchTodoText(ctx, id, text)
	} else {
		err = c.upload(ctx, mode, id, text, imagePath)
	}
	if err != nil {
		c.logger.Error().
			Err(err).
			Stringer("mode", mode).
			Str("id", id).
			Msg("submit failed")
		return err
	}
	c.logger.Info().
		Stringer("mode", mode).
		Str("id", id).
		Bool("image", imagePath != "").
		Msg("submitted todo")

	c.Cancel()
	return c.RefreshTodos(ctx)
}

func (c *Controller) upload(ctx context.Context, mode Mode, id, text, imagePath string) error {
	in := api.UploadInput{TodoText: text}
	if mode == ModeEdit {
		in.ID = id
	}
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		in.Image = &api.Image{Name: filepath.Base(imagePath), Data: f}
	}
	return c.svc.CreateOrUpdateWithUpload(ctx, in)
}

// Delete removes a todo. Deleting the todo being edited returns to ADD.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.svc.RemoveTodo(ctx, id); err != nil {
		c.logger.Error().
			Err(err).
			Str("id", id).
			Msg("delete failed")
		return err
	}
	c.logger.Info().
		Str("id", id).
		Msg("deleted todo")

	c.mu.Lock()
	if c.mode == ModeEdit && c.curTodoID == id {
		c.resetLocked()
	}
	c.mu.Unlock()
	return c.RefreshTodos(ctx)
}
