// Package app wires the narrowing components together from configuration
// and runs editor scripts against them.
package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/narrowstack/internal/config"
	"github.com/dshills/narrowstack/internal/host"
	"github.com/dshills/narrowstack/internal/logging"
	"github.com/dshills/narrowstack/internal/narrow/hook"
	"github.com/dshills/narrowstack/internal/plugin/lua"
	"github.com/dshills/narrowstack/internal/strategy"
	"github.com/dshills/narrowstack/internal/unit"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses the defaults.
	ConfigPath string

	// Config is used instead of loading ConfigPath when set.
	Config *config.Config

	// LogLevel overrides the configured level when set.
	LogLevel string

	// LogOutput receives log output. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application owns the editor, its narrowing configuration and the Lua
// strategy runtime. Its methods are safe for concurrent use.
type Application struct {
	mu sync.Mutex

	opts    Options
	cfg     *config.Config
	logger  *logging.Logger
	editor  *host.Editor
	scripts *lua.Runtime
	current *host.Document
}

// New creates an application and applies its configuration.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
		if opts.ConfigPath != "" {
			loaded, err := config.Load(opts.ConfigPath)
			if err != nil {
				return nil, &InitError{Component: "config", Err: err}
			}
			cfg = loaded
		}
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(levelFor(opts, cfg))
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	logger := logging.New(logCfg)

	editor, err := host.NewEditor(host.WithLogger(logger))
	if err != nil {
		return nil, &InitError{Component: "editor", Err: err}
	}
	editor.Manager().Hooks().Register(hook.NewLoggingHook(logger.WithComponent("hook")))

	a := &Application{
		opts:   opts,
		logger: logger.WithComponent("app"),
		editor: editor,
	}
	if err := a.apply(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

func levelFor(opts Options, cfg *config.Config) string {
	if opts.LogLevel != "" {
		return opts.LogLevel
	}
	return cfg.Log.Level
}

// Apply replaces the running configuration. On error the previous
// configuration stays in effect.
func (a *Application) Apply(cfg *config.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.apply(cfg)
}

func (a *Application) apply(cfg *config.Config) error {
	modes, err := unit.NewModeTable(cfg.Narrow.Modes)
	if err != nil {
		return &InitError{Component: "modes", Err: err}
	}

	scripts, err := a.loadScripts(cfg.Lua)
	if err != nil {
		return &InitError{Component: "lua", Err: err}
	}

	deps := strategy.Deps{Invoker: a.editor.Registry(), Modes: modes}
	if scripts != nil {
		deps.Scripts = scripts
	}
	strategies, err := strategy.Build(cfg.Narrow.Strategies, deps)
	if err != nil {
		if scripts != nil {
			scripts.Close()
		}
		return &InitError{Component: "strategies", Err: err}
	}

	reg := a.editor.Registry()
	if err := reg.Restrict(cfg.Narrow.Operations); err != nil {
		if scripts != nil {
			scripts.Close()
		}
		return &InitError{Component: "operations", Err: err}
	}

	if a.scripts != nil {
		a.scripts.Close()
	}
	a.scripts = scripts
	a.cfg = cfg

	a.logger.SetLevel(logging.ParseLevel(levelFor(a.opts, cfg)))

	hooks := a.editor.Manager().Hooks()
	if cfg.Narrow.RecenterAfterWiden {
		hooks.Register(hook.NewRecenterHook())
	} else {
		hooks.Unregister("recenter")
	}

	if cfg.Narrow.Enabled {
		reg.Enable()
	} else {
		reg.Disable()
	}

	d := a.editor.Dispatcher()
	d.SetStrategies(strategies)
	d.SetWidenOnNoChange(cfg.Narrow.WidenOnNoChange)

	a.logger.Info("configured: interception=%t strategies=%v", cfg.Narrow.Enabled, strategy.Names(strategies))
	return nil
}

// loadScripts starts a Lua runtime with every configured script loaded.
// It returns nil when no scripts are configured.
func (a *Application) loadScripts(cfg config.LuaConfig) (*lua.Runtime, error) {
	if len(cfg.Scripts) == 0 {
		return nil, nil
	}
	rt := lua.NewRuntime(a.editor.Registry(),
		lua.WithTimeout(cfg.Timeout()),
		lua.WithLogger(a.logger))
	for _, path := range cfg.Scripts {
		if err := rt.LoadFile(path); err != nil {
			rt.Close()
			return nil, err
		}
	}
	return rt, nil
}

// Config returns the configuration in effect.
func (a *Application) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Editor returns the editor.
func (a *Application) Editor() *host.Editor {
	return a.editor
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger {
	return a.logger
}

// OpenFile opens a file and makes it the current document.
func (a *Application) OpenFile(path string) (*host.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	doc, err := a.editor.OpenFile(path)
	if err != nil {
		return nil, err
	}
	a.current = doc
	return doc, nil
}

// OpenText opens an in-memory document and makes it current.
func (a *Application) OpenText(text string, opts ...host.DocumentOption) (*host.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	doc := host.NewDocument(text, opts...)
	if err := a.editor.Open(doc); err != nil {
		return nil, err
	}
	a.current = doc
	return doc, nil
}

// Current returns the current document, or nil.
func (a *Application) Current() *host.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Close releases the Lua runtime.
func (a *Application) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scripts == nil {
		return nil
	}
	err := a.scripts.Close()
	a.scripts = nil
	return err
}

// status describes the narrowing state of doc.
func (a *Application) status(doc *host.Document) string {
	return fmt.Sprintf("depth=%d visible=%s point=%d intercept=%t",
		a.editor.Depth(doc), doc.VisibleRegion(), doc.Point(), a.editor.Registry().Enabled())
}
