package narrow

import "errors"

// Errors returned at the edges of the narrowing core.
var (
	// ErrNilDocument indicates a nil document was passed.
	ErrNilDocument = errors.New("nil document")

	// ErrUnknownOperation indicates no host operation is registered under a name.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrDuplicateOperation indicates an operation name is already registered.
	ErrDuplicateOperation = errors.New("operation already registered")

	// ErrNilOperation indicates a nil operation was registered.
	ErrNilOperation = errors.New("nil operation")
)
