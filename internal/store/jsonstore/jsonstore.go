// Package jsonstore snapshots the dev server's todos to a JSON file so a
// restarted server comes back with the same list.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/tada/internal/model"
)

// Single file, human-readable. Callers serialize access.

// Load reads the snapshot at path. A missing file is an empty list.
func Load(path string) ([]model.TodoItem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.TodoItem{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.TodoItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.TodoItem{}
	}
	return items, nil
}

// Save replaces the snapshot at path. The write goes through a temp file in
// the same directory so readers never see half a file.
func Save(path string, items []model.TodoItem) error {
	if items == nil {
		items = []model.TodoItem{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".todos-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
