// Package hook provides priority-ordered observers that run after a
// recorded narrowing or after a widen.
//
// Hooks never touch a document's region stack. They exist for refresh work
// such as recentering the view, and for logging.
//
// # Priority System
//
// Hooks run from highest to lowest priority. Standard priorities:
//
//	PriorityLogging  = 1000 // Observe before anything else runs
//	PriorityRecenter = 100  // Cosmetic view refresh
//
// # Usage
//
//	m := hook.NewManager()
//	m.Register(hook.NewRecenterHook())
//	m.RegisterWiden(hook.NewWidenFunc("status", 50, func(doc hook.Document, visible region.Region, popped bool) {
//	    // update a status line
//	}))
package hook

import "github.com/dshills/narrowstack/internal/region"

// Document is the part of a host document hooks can see.
type Document interface {
	ID() string
	VisibleRegion() region.Region
}

// Refresher is implemented by documents that can recenter their view.
type Refresher interface {
	Recenter()
}

// Hook is the base interface for all hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority. Higher values run first.
	Priority() int
}

// NarrowHook runs after an outermost narrowing changed the visible region
// and the previous view was recorded.
type NarrowHook interface {
	Hook
	AfterNarrow(doc Document, before, after region.Region)
}

// WidenHook runs after every widen. popped reports whether a saved level
// was restored; false means the document was fully widened.
type WidenHook interface {
	Hook
	AfterWiden(doc Document, visible region.Region, popped bool)
}

// NarrowFunc wraps a function as a NarrowHook.
type NarrowFunc struct {
	name     string
	priority int
	fn       func(doc Document, before, after region.Region)
}

// NewNarrowFunc creates a new NarrowFunc hook.
func NewNarrowFunc(name string, priority int, fn func(doc Document, before, after region.Region)) *NarrowFunc {
	return &NarrowFunc{name: name, priority: priority, fn: fn}
}

// Name implements Hook.
func (f *NarrowFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *NarrowFunc) Priority() int { return f.priority }

// AfterNarrow implements NarrowHook.
func (f *NarrowFunc) AfterNarrow(doc Document, before, after region.Region) {
	if f.fn != nil {
		f.fn(doc, before, after)
	}
}

// WidenFunc wraps a function as a WidenHook.
type WidenFunc struct {
	name     string
	priority int
	fn       func(doc Document, visible region.Region, popped bool)
}

// NewWidenFunc creates a new WidenFunc hook.
func NewWidenFunc(name string, priority int, fn func(doc Document, visible region.Region, popped bool)) *WidenFunc {
	return &WidenFunc{name: name, priority: priority, fn: fn}
}

// Name implements Hook.
func (f *WidenFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *WidenFunc) Priority() int { return f.priority }

// AfterWiden implements WidenHook.
func (f *WidenFunc) AfterWiden(doc Document, visible region.Region, popped bool) {
	if f.fn != nil {
		f.fn(doc, visible, popped)
	}
}
