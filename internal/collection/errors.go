package collection

import (
	"errors"
	"fmt"
)

// Sentinel errors for collection operations.
var (
	ErrNotFound      = errors.New("not in collection")
	ErrDuplicate     = errors.New("already in collection")
	ErrInvalidRecord = errors.New("record cannot be stored")
)

// CollectionError provides context for a failed mutation.
type CollectionError struct {
	Op   string // Operation that failed (e.g., "add")
	Game string // Game id or title if known
	Err  error  // Underlying error
}

func (e *CollectionError) Error() string {
	if e.Game != "" {
		return fmt.Sprintf("%s '%s': %v", e.Op, e.Game, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// CorruptStateError reports a collection file that exists but cannot be read.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("collection file %s is unreadable: %v", e.Path, e.Err)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}
