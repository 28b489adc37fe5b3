package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable  = errors.New("source unavailable")
	ErrMalformedRecord    = errors.New("malformed source record")
	ErrStorageUnavailable = errors.New("approval storage unavailable")
)

// SourceError names the upstream source that failed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSourceUnavailable, e.Source, e.Err)
}

func (e *SourceError) Unwrap() []error { return []error{ErrSourceUnavailable, e.Err} }

// StorageError wraps a read or write failure of the approval store.
type StorageError struct {
	Op  string // load|save
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorageUnavailable, e.Err} }
