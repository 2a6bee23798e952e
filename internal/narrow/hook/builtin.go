package hook

import "github.com/dshills/narrowstack/internal/region"

// Standard hook priorities.
const (
	PriorityLogging  = 1000
	PriorityRecenter = 100
)

// Logger is the interface for the logging hook.
type Logger interface {
	Debug(msg string, args ...any)
}

// RecenterHook recenters the view after a widen when the document supports it.
type RecenterHook struct{}

// NewRecenterHook creates a recenter hook.
func NewRecenterHook() *RecenterHook {
	return &RecenterHook{}
}

// Name implements Hook.
func (h *RecenterHook) Name() string { return "recenter" }

// Priority implements Hook.
func (h *RecenterHook) Priority() int { return PriorityRecenter }

// AfterWiden implements WidenHook.
func (h *RecenterHook) AfterWiden(doc Document, _ region.Region, _ bool) {
	if r, ok := doc.(Refresher); ok {
		r.Recenter()
	}
}

// LoggingHook writes every recorded narrowing and every widen at debug level.
type LoggingHook struct {
	logger Logger
}

// NewLoggingHook creates a logging hook.
func NewLoggingHook(logger Logger) *LoggingHook {
	return &LoggingHook{logger: logger}
}

// Name implements Hook.
func (h *LoggingHook) Name() string { return "logging" }

// Priority implements Hook.
func (h *LoggingHook) Priority() int { return PriorityLogging }

// AfterNarrow implements NarrowHook.
func (h *LoggingHook) AfterNarrow(doc Document, before, after region.Region) {
	if h.logger == nil {
		return
	}
	h.logger.Debug("narrowed %s: %s -> %s", doc.ID(), before, after)
}

// AfterWiden implements WidenHook.
func (h *LoggingHook) AfterWiden(doc Document, visible region.Region, popped bool) {
	if h.logger == nil {
		return
	}
	if popped {
		h.logger.Debug("widened %s one level to %s", doc.ID(), visible)
		return
	}
	h.logger.Debug("widened %s fully to %s", doc.ID(), visible)
}
