package controller

import "errors"

// ValidationError is raised on the client before any request is made.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	ErrEmptyText    = &ValidationError{msg: "todo text is empty"}
	ErrNotImage     = &ValidationError{msg: "not an image file"}
	ErrNoSuchTarget = &ValidationError{msg: "no todo with that id"}
)

// IsValidation reports whether err was rejected client-side.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
