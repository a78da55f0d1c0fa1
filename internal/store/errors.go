package store

import (
	"errors"
	"fmt"

	"github.com/joss/agentconf/internal/domain"
	"github.com/joss/agentconf/internal/scope"
)

// Common store errors.
var (
	// ErrNotFound indicates the requested artifact does not exist.
	ErrNotFound = errors.New("artifact not found")

	// ErrNameConflict indicates the normalized name is already in use.
	ErrNameConflict = errors.New("name already in use")

	// ErrUnknownKind indicates an artifact kind outside the closed set.
	ErrUnknownKind = errors.New("unknown artifact kind")

	// ErrInvalidName indicates a name left with no usable characters
	// after normalization.
	ErrInvalidName = errors.New("invalid artifact name")
)

// NotFoundError wraps ErrNotFound with artifact details.
type NotFoundError struct {
	Kind  domain.Kind
	Name  string
	Scope scope.Scope
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in %s scope", e.Kind, e.Name, e.Scope)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConflictError wraps ErrNameConflict with the conflicting name so the
// caller can prompt for a different one.
type ConflictError struct {
	Kind  domain.Kind
	Name  string
	Scope scope.Scope
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists in %s scope", e.Kind, e.Name, e.Scope)
}

func (e *ConflictError) Unwrap() error {
	return ErrNameConflict
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a naming conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrNameConflict)
}
