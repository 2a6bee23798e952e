package host

import (
	"errors"
	"fmt"
)

// Host errors.
var (
	// ErrRegionOutOfRange indicates a region outside the document bounds.
	ErrRegionOutOfRange = errors.New("region out of range")

	// ErrNoSelection indicates narrow-to-region ran without bounds or an active selection.
	ErrNoSelection = errors.New("no active selection")

	// ErrDocumentNotFound indicates no open document has the given id.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentAlreadyOpen indicates a document with the same id is open.
	ErrDocumentAlreadyOpen = errors.New("document already open")

	// ErrForeignDocument indicates a document not created by this package.
	ErrForeignDocument = errors.New("not a host document")
)

// OperationError records which host operation failed on which document.
type OperationError struct {
	Op  string // Operation name (e.g., "narrow-to-defun")
	Doc string // Document id
	Err error  // Underlying error
}

// Error implements error.
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Doc, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}
