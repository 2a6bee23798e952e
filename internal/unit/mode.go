package unit

import (
	"fmt"
	"path/filepath"
	"strings"
)

// defaultModes maps document modes to the unit narrowed to when nothing
// more specific applies.
var defaultModes = map[string]Unit{
	"go":         Defun,
	"c":          Defun,
	"cpp":        Defun,
	"rust":       Defun,
	"java":       Defun,
	"javascript": Defun,
	"typescript": Defun,
	"lua":        Defun,
	"lisp":       Defun,
	"prog":       Defun,
	"markdown":   Section,
	"org":        Subtree,
	"text":       Paragraph,
}

// ModeTable maps document modes to default units.
type ModeTable struct {
	modes map[string]Unit
}

// NewModeTable creates the built-in table with overrides applied. An
// override naming an unknown unit is an error.
func NewModeTable(overrides map[string]string) (*ModeTable, error) {
	t := &ModeTable{modes: make(map[string]Unit, len(defaultModes)+len(overrides))}
	for mode, u := range defaultModes {
		t.modes[mode] = u
	}
	for mode, name := range overrides {
		u, err := Parse(name)
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", mode, err)
		}
		t.modes[strings.ToLower(mode)] = u
	}
	return t, nil
}

// ForMode returns the default unit for mode.
func (t *ModeTable) ForMode(mode string) (Unit, bool) {
	u, ok := t.modes[strings.ToLower(mode)]
	return u, ok
}

// ModeForPath guesses a document mode from a file name.
func ModeForPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "text"
	}
	switch strings.ToLower(ext) {
	case "go":
		return "go"
	case "c", "h":
		return "c"
	case "cc", "cpp", "hpp":
		return "cpp"
	case "rs":
		return "rust"
	case "java":
		return "java"
	case "js", "mjs":
		return "javascript"
	case "ts":
		return "typescript"
	case "lua":
		return "lua"
	case "el", "lisp", "scm":
		return "lisp"
	case "md", "markdown":
		return "markdown"
	case "org":
		return "org"
	default:
		return "text"
	}
}
