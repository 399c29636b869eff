package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/model"
)

const requestIDHeader = "X-Request-ID"

// Client talks to the backend over HTTP. It holds no todo state.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

var _ Service = (*Client)(nil)

// NewClient validates baseURL and returns a client. A timeout of 0 leaves
// requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// BaseURL is the prefix every request path is joined to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListTodos(ctx context.Context) ([]model.TodoItem, error) {
	var todos []model.TodoItem
	if err := c.do(ctx, "list todos", http.MethodGet, todoPath, nil, "", &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.TodoItem{}
	}
	return todos, nil
}

func (c *Client) ListOwners(ctx context.Context) ([]model.OwnerItem, error) {
	var owners []model.OwnerItem
	if err := c.do(ctx, "list owners", http.MethodGet, ownerPath, nil, "", &owners); err != nil {
		return nil, err
	}
	if owners == nil {
		owners = []model.OwnerItem{}
	}
	return owners, nil
}

func (c *Client) CreateOrUpdateWithUpload(ctx context.Context, in UploadInput) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if in.ID != "" {
		if err := mw.WriteField("id", in.ID); err != nil {
			return fmt.Errorf("write id field: %w", err)
		}
	}
	if err := mw.WriteField("todoText", in.TodoText); err != nil {
		return fmt.Errorf("write todoText field: %w", err)
	}
	if in.Image != nil {
		fw, err := mw.CreateFormFile("image", in.Image.Name)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(fw, in.Image.Data); err != nil {
			return fmt.Errorf("copy image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}
	return c.do(ctx, "upload todo", http.MethodPost, uploadPath, &buf, mw.FormDataContentType(), nil)
}

type patchRequest struct {
	ID       string `json:"id"`
	TodoText string `json:"todoText"`
}

func (c *Client) PatchTodoText(ctx context.Context, id, todoText string) error {
	body, err := jsonBody(patchRequest{ID: id, TodoText: todoText})
	if err != nil {
		return err
	}
	return c.do(ctx, "patch todo", http.MethodPatch, todoPath, body, "application/json", nil)
}

type deleteRequest struct {
	ID string `json:"id"`
}

func (c *Client) RemoveTodo(ctx context.Context, id string) error {
	body, err := jsonBody(deleteRequest{ID: id})
	if err != nil {
		return err
	}
	return c.do(ctx, "remove todo", http.MethodDelete, todoPath, body, "application/json", nil)
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return bytes.NewReader(b), nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// do sends one request and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	netErr := func(status int, msg string, err error) *NetworkError {
		return &NetworkError{Op: op, Method: method, Path: path, Status: status, Message: msg, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("request_id", reqID).
			Str("method", method).
			Str("path", path).
			Msg("request failed")
		return netErr(0, "", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return netErr(0, "", fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.Unmarshal(data, &er)
		msg := strings.TrimSpace(er.Error)
		if msg == "" && len(data) > 0 && len(data) <= 200 && !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			msg = strings.TrimSpace(string(data))
		}
		c.logger.Warn().
			Str("request_id", reqID).
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("message", msg).
			Msg("non-success status")
		return netErr(resp.StatusCode, msg, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: json unmarshal: %w", op, err)
	}
	return nil
}
