package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is returned when a request could not reach the backend
// (Status == 0) or came back with a non-2xx status.
type NetworkError struct {
	Op     string
	Method string
	Path   string
	Status int
	// Message is the backend's error text, when it sent one.
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	prefix := fmt.Sprintf("%s: %s %s", e.Op, e.Method, e.Path)
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	msg := fmt.Sprintf("%s: %d %s", prefix, e.Status, http.StatusText(e.Status))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err (or anything it wraps) is a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Status
	}
	return 0
}
