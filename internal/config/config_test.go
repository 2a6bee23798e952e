package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Narrow.Enabled || !cfg.Narrow.RecenterAfterWiden || cfg.Narrow.WidenOnNoChange {
		t.Errorf("unexpected narrow defaults %+v", cfg.Narrow)
	}
	if !reflect.DeepEqual(cfg.Narrow.Strategies, []string{"selection", "lua", "mode"}) {
		t.Errorf("unexpected default strategies %v", cfg.Narrow.Strategies)
	}
	if cfg.Lua.Timeout() != 2*time.Second {
		t.Errorf("expected 2s lua timeout, got %s", cfg.Lua.Timeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestParse(t *testing.T) {
	data := `
[narrow]
enabled = false
widen_on_no_change = true
operations = ["narrow-to-region", "widen"]
strategies = ["selection", "unit:defun"]

[narrow.modes]
go = "defun"
notes = "paragraph"

[lua]
scripts = ["a.lua"]
timeout_ms = 500

[log]
level = "debug"
`
	cfg, err := Parse("test.toml", []byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Narrow.Enabled || !cfg.Narrow.WidenOnNoChange {
		t.Errorf("unexpected narrow flags %+v", cfg.Narrow)
	}
	if !cfg.Narrow.RecenterAfterWiden {
		t.Error("expected missing key to keep its default")
	}
	if !reflect.DeepEqual(cfg.Narrow.Operations, []string{"narrow-to-region", "widen"}) {
		t.Errorf("unexpected operations %v", cfg.Narrow.Operations)
	}
	if !reflect.DeepEqual(cfg.Narrow.Strategies, []string{"selection", "unit:defun"}) {
		t.Errorf("unexpected strategies %v", cfg.Narrow.Strategies)
	}
	if cfg.Narrow.Modes["notes"] != "paragraph" || cfg.Narrow.Modes["go"] != "defun" {
		t.Errorf("unexpected modes %v", cfg.Narrow.Modes)
	}
	if cfg.Lua.Timeout() != 500*time.Millisecond || cfg.Lua.Scripts[0] != "a.lua" {
		t.Errorf("unexpected lua config %+v", cfg.Lua)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Log.Level)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse("empty.toml", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("bad.toml", []byte("[narrow\nenabled = true\n"))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T %v", err, err)
	}
	if pe.Path != "bad.toml" || pe.Line != 1 {
		t.Errorf("unexpected position %s:%d", pe.Path, pe.Line)
	}
	if pe.Unwrap() == nil {
		t.Error("expected underlying error")
	}
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse("typo.toml", []byte("[narrow]\nenabeld = true\n"))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T %v", err, err)
	}
	if !strings.Contains(pe.Error(), "enabeld") {
		t.Errorf("expected unknown key in message, got %q", pe.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"timeout", "[lua]\ntimeout_ms = -1\n", "lua.timeout_ms"},
		{"mode unit", "[narrow.modes]\ngo = \"chapter\"\n", "narrow.modes.go"},
		{"strategy", "[narrow]\nstrategies = [\"selection\", \" \"]\n", "narrow.strategies[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("v.toml", []byte(tt.data))
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Path != tt.path {
				t.Errorf("expected error for %s, got %v", tt.path, err)
			}
		})
	}
}

func TestLoadResolvesScripts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "narrowstack.toml")
	data := "[lua]\nscripts = [\"strategies.lua\", \"/abs/other.lua\"]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "strategies.lua"), "/abs/other.lua"}
	if !reflect.DeepEqual(cfg.Lua.Scripts, want) {
		t.Errorf("expected %v, got %v", want, cfg.Lua.Scripts)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
