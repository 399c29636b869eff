// Package devserver is an in-memory backend speaking the todo REST contract.
// It exists for local development and for exercising the client in tests.
package devserver

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
)

// Timestamps are written the way browsers' Date.toISOString does.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrNotFound = errors.New("todo not found")

type image struct {
	contentType string
	data        []byte
}

// Store holds todos, owners and uploaded images in memory.
type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	save   func([]model.TodoItem)
	todos  []model.TodoItem
	owners []model.OwnerItem
	images map[string]image
}

func NewStore(owners []model.OwnerItem) *Store {
	return &Store{
		now:    time.Now,
		owners: slices.Clone(owners),
		images: make(map[string]image),
	}
}

// SetClock replaces the time source; tests use it for deterministic ordering.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Restore replaces the todo list, e.g. from a snapshot on startup.
func (s *Store) Restore(todos []model.TodoItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = slices.Clone(todos)
}

// OnChange registers fn to receive the todo list after every mutation.
// fn runs under the store lock.
func (s *Store) OnChange(fn func([]model.TodoItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save = fn
}

func (s *Store) changed() {
	if s.save != nil {
		s.save(slices.Clone(s.todos))
	}
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func (s *Store) Todos() []model.TodoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.todos)
}

func (s *Store) Owners() []model.OwnerItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.owners)
}

func (s *Store) Create(text string, imageURL *string) model.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.stamp()
	it := model.TodoItem{
		ID:        uuid.NewString(),
		TodoText:  text,
		CreatedAt: ts,
		UpdatedAt: ts,
		ImageURL:  imageURL,
	}
	s.todos = append(s.todos, it)
	s.changed()
	return it
}

// Replace sets text and image of an existing todo.
func (s *Store) Replace(id, text string, imageURL *string) (model.TodoItem, error) {
	return s.update(id, func(it *model.TodoItem) {
		it.TodoText = text
		it.ImageURL = imageURL
	})
}

// SetText changes only the text; the image is kept.
func (s *Store) SetText(id, text string) (model.TodoItem, error) {
	return s.update(id, func(it *model.TodoItem) {
		it.TodoText = text
	})
}

func (s *Store) update(id string, fn func(*model.TodoItem)) (model.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return model.TodoItem{}, ErrNotFound
	}
	fn(&s.todos[i])
	s.todos[i].UpdatedAt = s.stamp()
	s.changed()
	return s.todos[i], nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.todos = slices.Delete(s.todos, i, i+1)
	s.changed()
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.todos, func(it model.TodoItem) bool { return it.ID == id })
}

func (s *Store) PutImage(name, contentType string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[name] = image{contentType: contentType, data: data}
}

func (s *Store) Image(name string) (contentType string, data []byte, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[name]
	return img.contentType, img.data, ok
}

// DefaultOwners seeds the owner list served at /api/todo/owner.
func DefaultOwners(now time.Time) []model.OwnerItem {
	ts := now.UTC().Format(timestampLayout)
	return []model.OwnerItem{
		{ID: "owner-1", Name: "Ada Lovelace", CourseID: "CS101", Section: "1", CreatedAt: ts},
		{ID: "owner-2", Name: "Alan Turing", CourseID: "CS101", Section: "2", CreatedAt: ts},
	}
}
