// Package api is the REST client for the todo backend.
package api

import (
	"context"
	"io"

	"github.com/Makepad-fr/tada/internal/model"
)

const (
	todoPath   = "/api/todo"
	ownerPath  = "/api/todo/owner"
	uploadPath = "/api/todo/upload"
)

// Service is the backend contract. Each call is a single round trip with
// no retry.
type Service interface {
	ListTodos(ctx context.Context) ([]model.TodoItem, error)
	ListOwners(ctx context.Context) ([]model.OwnerItem, error)
	CreateOrUpdateWithUpload(ctx context.Context, in UploadInput) error
	PatchTodoText(ctx context.Context, id, todoText string) error
	RemoveTodo(ctx context.Context, id string) error
}

// Image is a file attached to an upload.
type Image struct {
	Name string
	Data io.Reader
}

// UploadInput is the multipart submission. ID is empty for a new todo; when
// set, the backend replaces that todo's text and image.
type UploadInput struct {
	ID       string
	TodoText string
	Image    *Image
}
