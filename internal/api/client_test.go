package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/devserver"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newClient(t *testing.T, h http.Handler) *api.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := api.NewClient(ts.URL+"/", 5*time.Second, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func newDevClient(t *testing.T) (*api.Client, *devserver.Store) {
	t.Helper()
	st := devserver.NewStore(devserver.DefaultOwners(time.Now()))
	return newClient(t, devserver.New(zerolog.Nop(), st)), st
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://example.com", "://bad"} {
		_, err := api.NewClient(raw, 0, zerolog.Nop())
		assert.Error(t, err, raw)
	}
	c, err := api.NewClient(" http://example.com/base/ ", 0, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/base", c.BaseURL())
}

func TestRoundTripAgainstDevServer(t *testing.T) {
	ctx := context.Background()
	c, st := newDevClient(t)

	todos, err := c.ListTodos(ctx)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)

	owners, err := c.ListOwners(ctx)
	require.NoError(t, err)
	assert.Len(t, owners, 2)

	err = c.CreateOrUpdateWithUpload(ctx, api.UploadInput{
		TodoText: "Buy milk",
		Image:    &api.Image{Name: "milk.png", Data: bytes.NewReader(pngBytes)},
	})
	require.NoError(t, err)
	require.NoError(t, c.CreateOrUpdateWithUpload(ctx, api.UploadInput{TodoText: "Walk dog"}))

	todos, err = c.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.True(t, todos[0].HasImage())
	assert.False(t, todos[1].HasImage())

	require.NoError(t, c.PatchTodoText(ctx, todos[0].ID, "Buy oat milk"))
	got := st.Todos()
	assert.Equal(t, "Buy oat milk", got[0].TodoText)
	assert.Equal(t, todos[0].Image(), got[0].Image())

	require.NoError(t, c.CreateOrUpdateWithUpload(ctx, api.UploadInput{
		ID:       todos[1].ID,
		TodoText: "Walk the dog",
		Image:    &api.Image{Name: "dog.png", Data: bytes.NewReader(pngBytes)},
	}))
	got = st.Todos()
	require.Len(t, got, 2)
	assert.Equal(t, "Walk the dog", got[1].TodoText)
	assert.True(t, got[1].HasImage())

	require.NoError(t, c.RemoveTodo(ctx, todos[0].ID))
	todos, err = c.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Walk the dog", todos[0].TodoText)
}

func TestRequestShape(t *testing.T) {
	type seen struct {
		method, path, contentType, requestID string
		body                                 map[string]any
		form                                 map[string]string
		file                                 []byte
	}
	seenCh := make(chan seen, 1)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
		}
		if strings.HasPrefix(s.contentType, "multipart/") {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.form = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				s.form[k] = v[0]
			}
			if f, _, err := r.FormFile("image"); err == nil {
				s.file, _ = io.ReadAll(f)
				f.Close()
			}
		} else {
			_ = json.NewDecoder(r.Body).Decode(&s.body)
		}
		seenCh <- s
		w.WriteHeader(http.StatusOK)
	})
	c := newClient(t, h)
	ctx := context.Background()

	require.NoError(t, c.PatchTodoText(ctx, "42", "hello"))
	got := <-seenCh
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/api/todo", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, map[string]any{"id": "42", "todoText": "hello"}, got.body)
	assert.Len(t, got.requestID, 36)

	require.NoError(t, c.RemoveTodo(ctx, "42"))
	got = <-seenCh
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "/api/todo", got.path)
	assert.Equal(t, map[string]any{"id": "42"}, got.body)

	require.NoError(t, c.CreateOrUpdateWithUpload(ctx, api.UploadInput{TodoText: "plain"}))
	got = <-seenCh
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/todo/upload", got.path)
	assert.Equal(t, map[string]string{"todoText": "plain"}, got.form)
	assert.Nil(t, got.file)

	require.NoError(t, c.CreateOrUpdateWithUpload(ctx, api.UploadInput{
		ID:       "7",
		TodoText: "pic",
		Image:    &api.Image{Name: "p.png", Data: bytes.NewReader(pngBytes)},
	}))
	got = <-seenCh
	assert.Equal(t, map[string]string{"todoText": "pic", "id": "7"}, got.form)
	assert.Equal(t, pngBytes, got.file)
}

func TestNonSuccessStatusIsNetworkError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database on fire"}`))
	})
	c := newClient(t, h)

	_, err := c.ListTodos(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsNetworkError(err))
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
	assert.Equal(t, "list todos: GET /api/todo: 500 Internal Server Error: database on fire", err.Error())
}

func TestPlainTextErrorBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such todo", http.StatusNotFound)
	})
	c := newClient(t, h)

	err := c.RemoveTodo(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.Contains(t, err.Error(), "no such todo")
}

func TestUnreachableIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := api.NewClient(url, time.Second, zerolog.Nop())
	require.NoError(t, err)
	_, err = c.ListOwners(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsNetworkError(err))
	assert.Equal(t, 0, api.StatusCode(err))
}

func TestContextCancel(t *testing.T) {
	block := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	c := newClient(t, h)
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListTodos(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEmptyBodyListsAreEmpty(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})
	c := newClient(t, h)
	todos, err := c.ListTodos(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}
