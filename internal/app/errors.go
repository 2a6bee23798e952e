package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoActiveDocument indicates a command needs a document and none is open.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrUnknownCommand indicates a script command that does not exist.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage indicates a command was given the wrong arguments.
	ErrUsage = errors.New("usage")
)

// InitError represents a failure to initialize a component.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// CommandError records which script command failed.
type CommandError struct {
	Line int    // 1-based position in the script, 0 for a single command
	Cmd  string // Command text
	Err  error  // Underlying error
}

func (e *CommandError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("command %d (%s): %v", e.Line, e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
