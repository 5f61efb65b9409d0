package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record id does not exist in its collection.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownCollection is returned for collection names outside the registry.
	ErrUnknownCollection = errors.New("unknown collection")
)

// ValidationError reports the required fields left empty on a submitted draft.
// It is raised before any remote call is made.
type ValidationError struct {
	Collection string
	Fields     []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Collection, strings.Join(e.Fields, ", "))
}

// UploadError wraps a blob store failure during a submit. The draft's previous
// image URL is preserved; no document write happens after an upload failure.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload %s: %v", e.Key, e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// StoreError wraps a document store failure, tagged with the failed operation
// so callers can log and surface it without string matching.
type StoreError struct {
	Op         string // "read" | "write" | "delete"
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}
func (e *StoreError) Unwrap() error { return e.Err }
