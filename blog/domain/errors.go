package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a slug has no visible post behind it.
	ErrNotFound = errors.New("post not found")

	// ErrInvalidSlug is returned for slugs that would resolve outside the storage directory.
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrMalformedContent marks a post file whose front matter cannot be parsed.
	ErrMalformedContent = errors.New("malformed front matter")
)

// ValidationError reports a request that is missing or has an unusable field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError wraps a filesystem failure with the operation and slug involved.
type StorageError struct {
	Op   string
	Slug string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s post %q: %v", e.Op, e.Slug, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
