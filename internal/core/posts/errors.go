package posts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post does not exist
	ErrNotFound = errors.New("post not found")

	// ErrInvalidID is returned when a post identifier is malformed
	ErrInvalidID = errors.New("invalid post ID")

	// ErrForbidden is returned when the requester does not own the post
	ErrForbidden = errors.New("not authorized to modify this post")

	// ErrTitleContentRequired is returned when a create omits title or content
	ErrTitleContentRequired = errors.New("title and content are required")
)

// FieldError describes one invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field problem found in one request
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a problem with field
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any problem was recorded
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Messages returns the human readable messages in order
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) error {
	verr := &ValidationError{}
	verr.Add(field, message)
	return verr
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// DisallowedUpdateError is returned when an update names a field outside
// AllowedUpdates. The whole update is rejected.
type DisallowedUpdateError struct {
	Fields []string
}

func (e *DisallowedUpdateError) Error() string {
	return fmt.Sprintf("invalid updates: %s", strings.Join(e.Fields, ", "))
}

// IsDisallowedUpdate checks if error is a disallowed update error
func IsDisallowedUpdate(err error) bool {
	var dErr *DisallowedUpdateError
	return errors.As(err, &dErr)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
