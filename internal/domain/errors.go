package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized signals a query issued before the search indices were built.
	ErrNotInitialized = errors.New("search index not initialized")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument signals a malformed request parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidRecord signals a content feed record that failed validation.
	ErrInvalidRecord = errors.New("invalid feed record")
	// ErrTransport signals a content feed fetch or decode failure.
	ErrTransport = errors.New("content feed transport failure")
	// ErrRemoteEffect signals that a remote side effect (like, share) was rejected.
	ErrRemoteEffect = errors.New("remote effect failed")
)

// RecordError wraps ErrInvalidRecord with the offending record position and reason.
type RecordError struct {
	Index  int
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: record %d: %s", ErrInvalidRecord.Error(), e.Index, e.Reason)
}

func (e *RecordError) Unwrap() error { return ErrInvalidRecord }

// NewRecordError creates a record validation error.
func NewRecordError(index int, reason string) error {
	return &RecordError{Index: index, Reason: reason}
}
