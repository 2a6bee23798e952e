// Package config loads the narrowstack TOML configuration and watches it
// for changes.
//
// A configuration file looks like:
//
//	[narrow]
//	enabled = true
//	widen_on_no_change = false
//	recenter_after_widen = true
//	operations = []            # empty: intercept every host operation
//	strategies = ["selection", "lua", "mode"]
//
//	[narrow.modes]
//	go = "defun"
//	markdown = "section"
//
//	[lua]
//	scripts = ["strategies.lua"]
//	timeout_ms = 2000
//
//	[log]
//	level = "info"
//
// Keys missing from the file keep their defaults. Unknown keys are errors.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/narrowstack/internal/logging"
	"github.com/dshills/narrowstack/internal/unit"
)

// Config is the complete narrowstack configuration.
type Config struct {
	Narrow NarrowConfig `toml:"narrow"`
	Lua    LuaConfig    `toml:"lua"`
	Log    LogConfig    `toml:"log"`
}

// NarrowConfig configures interception and the DWIM dispatcher.
type NarrowConfig struct {
	// Enabled installs the interceptors at startup.
	Enabled bool `toml:"enabled"`
	// WidenOnNoChange widens when the winning strategy left the view as it was.
	WidenOnNoChange bool `toml:"widen_on_no_change"`
	// RecenterAfterWiden registers the recenter hook.
	RecenterAfterWiden bool `toml:"recenter_after_widen"`
	// Operations limits interception to the named host operations.
	Operations []string `toml:"operations"`
	// Strategies is the ordered DWIM strategy list.
	Strategies []string `toml:"strategies"`
	// Modes overrides the default unit per document mode.
	Modes map[string]string `toml:"modes"`
}

// LuaConfig configures script strategies.
type LuaConfig struct {
	// Scripts are loaded in order. Relative paths are resolved against the
	// directory of the configuration file.
	Scripts []string `toml:"scripts"`
	// TimeoutMS bounds each call into Lua. Zero disables the deadline.
	TimeoutMS int `toml:"timeout_ms"`
}

// Timeout returns the call deadline as a duration.
func (c LuaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultStrategies returns the strategy order used when none is configured.
func DefaultStrategies() []string {
	return []string{"selection", "lua", "mode"}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Narrow: NarrowConfig{
			Enabled:            true,
			RecenterAfterWiden: true,
			Strategies:         DefaultStrategies(),
		},
		Lua: LuaConfig{
			TimeoutMS: 2000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Parse decodes TOML data over the defaults and validates the result.
// source names the data in errors.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	cfg.Narrow.Strategies = nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, newParseError(source, err)
	}
	if cfg.Narrow.Strategies == nil {
		cfg.Narrow.Strategies = DefaultStrategies()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

// newParseError converts a go-toml error into a ParseError carrying the
// error position when go-toml reports one.
func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		pe.Line, pe.Column = decErr.Position()
		return pe
	}
	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) && len(strictErr.Errors) > 0 {
		first := strictErr.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = "unknown key " + strings.Join(first.Key(), ".")
	}
	return pe
}

// Load reads and parses the configuration file at path. Relative script
// paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i, script := range cfg.Lua.Scripts {
		if !filepath.IsAbs(script) {
			cfg.Lua.Scripts[i] = filepath.Join(dir, script)
		}
	}
	return cfg, nil
}

// Validate checks values that decode correctly but make no sense.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := logging.LookupLevel(c.Log.Level); !ok {
		errs = append(errs, &ValidationError{Path: "log.level", Message: "unknown level", Value: c.Log.Level})
	}
	if c.Lua.TimeoutMS < 0 {
		errs = append(errs, &ValidationError{Path: "lua.timeout_ms", Message: "must not be negative", Value: c.Lua.TimeoutMS})
	}
	for mode, name := range c.Narrow.Modes {
		if _, err := unit.Parse(name); err != nil {
			errs = append(errs, &ValidationError{Path: "narrow.modes." + mode, Message: "unknown unit", Value: name})
		}
	}
	for i, name := range c.Narrow.Strategies {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("narrow.strategies[%d]", i), Message: "empty strategy name", Value: name})
		}
	}

	return errors.Join(errs...)
}
