package lua

import "errors"

// Errors for Lua state and strategy operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrTimeout is returned when a call runs past its deadline.
	ErrTimeout = errors.New("lua execution timeout")

	// ErrStrategyNotFound is returned for an unregistered strategy name.
	ErrStrategyNotFound = errors.New("lua strategy not found")

	// ErrBadResult is returned when a strategy function returns something
	// other than nil, a boolean or a pair of offsets.
	ErrBadResult = errors.New("lua strategy returned an invalid result")
)
