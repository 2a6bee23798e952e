package config

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed matches every ValidationError.
	ErrValidationFailed = errors.New("invalid configuration")

	// ErrWatcherClosed is returned by a closed Watcher.
	ErrWatcherClosed = errors.New("config watcher is closed")
)

// ParseError reports a configuration file that is not valid TOML or does
// not match the configuration schema. Line and Column are zero when the
// decoder did not report a position.
type ParseError struct {
	Path         string
	Line, Column int
	Message      string
	Err          error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError names a setting, by its dotted TOML path such as
// "log.level", whose value is rejected.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Path, e.Value, e.Message)
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
