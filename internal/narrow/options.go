package narrow

import (
	"github.com/dshills/narrowstack/internal/logging"
	"github.com/dshills/narrowstack/internal/narrow/hook"
)

// Option configures a Manager during creation.
type Option func(*Manager)

// WithLogger sets the logger used by the manager and its states.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithHooks sets the hook manager shared by all states.
func WithHooks(h *hook.Manager) Option {
	return func(m *Manager) {
		if h != nil {
			m.hooks = h
		}
	}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWidenOnNoChange makes the dispatcher widen when the winning strategy
// left the visible region unchanged, not only when no strategy applied.
func WithWidenOnNoChange(enabled bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.widenOnNoChange = enabled
	}
}

// WithDispatcherLogger sets the dispatcher logger.
func WithDispatcherLogger(l *logging.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}
