package hiring

import (
	"errors"
	"fmt"
)

var ErrInvalidSession = errors.New("invalid session")

const msgRequired = "This field is required"

// FieldError is a user input failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func required(field string) *FieldError {
	return &FieldError{Field: field, Message: msgRequired}
}

type UpstreamKind string

const (
	UpstreamChannel UpstreamKind = "channel"
	UpstreamStorage UpstreamKind = "storage"
)

// UpstreamError wraps a failure of the chat platform or the database.
// Side effects that already happened are not undone.
type UpstreamError struct {
	Kind UpstreamKind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
