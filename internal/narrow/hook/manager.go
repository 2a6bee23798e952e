package hook

import (
	"sort"
	"sync"

	"github.com/dshills/narrowstack/internal/region"
)

// Manager holds narrow and widen hooks sorted by priority.
type Manager struct {
	mu          sync.RWMutex
	narrowHooks []NarrowHook
	widenHooks  []WidenHook
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{
		narrowHooks: make([]NarrowHook, 0),
		widenHooks:  make([]WidenHook, 0),
	}
}

// RegisterNarrow adds a narrow hook, replacing any hook with the same name.
func (m *Manager) RegisterNarrow(h NarrowHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.narrowHooks {
		if existing.Name() == h.Name() {
			m.narrowHooks[i] = h
			sortByPriority(m.narrowHooks)
			return
		}
	}
	m.narrowHooks = append(m.narrowHooks, h)
	sortByPriority(m.narrowHooks)
}

// RegisterWiden adds a widen hook, replacing any hook with the same name.
func (m *Manager) RegisterWiden(h WidenHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.widenHooks {
		if existing.Name() == h.Name() {
			m.widenHooks[i] = h
			sortByPriority(m.widenHooks)
			return
		}
	}
	m.widenHooks = append(m.widenHooks, h)
	sortByPriority(m.widenHooks)
}

// Register adds h to every list whose interface it implements.
func (m *Manager) Register(h Hook) {
	if n, ok := h.(NarrowHook); ok {
		m.RegisterNarrow(n)
	}
	if w, ok := h.(WidenHook); ok {
		m.RegisterWiden(w)
	}
}

// Unregister removes a hook by name from both lists.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := false
	for i, h := range m.narrowHooks {
		if h.Name() == name {
			m.narrowHooks = append(m.narrowHooks[:i], m.narrowHooks[i+1:]...)
			removed = true
			break
		}
	}
	for i, h := range m.widenHooks {
		if h.Name() == name {
			m.widenHooks = append(m.widenHooks[:i], m.widenHooks[i+1:]...)
			removed = true
			break
		}
	}
	return removed
}

// RunAfterNarrow runs all narrow hooks in priority order.
func (m *Manager) RunAfterNarrow(doc Document, before, after region.Region) {
	m.mu.RLock()
	hooks := make([]NarrowHook, len(m.narrowHooks))
	copy(hooks, m.narrowHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.AfterNarrow(doc, before, after)
	}
}

// RunAfterWiden runs all widen hooks in priority order.
func (m *Manager) RunAfterWiden(doc Document, visible region.Region, popped bool) {
	m.mu.RLock()
	hooks := make([]WidenHook, len(m.widenHooks))
	copy(hooks, m.widenHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.AfterWiden(doc, visible, popped)
	}
}

// NarrowHookNames returns the names of narrow hooks in run order.
func (m *Manager) NarrowHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.narrowHooks))
	for i, h := range m.narrowHooks {
		names[i] = h.Name()
	}
	return names
}

// WidenHookNames returns the names of widen hooks in run order.
func (m *Manager) WidenHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.widenHooks))
	for i, h := range m.widenHooks {
		names[i] = h.Name()
	}
	return names
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.narrowHooks = m.narrowHooks[:0]
	m.widenHooks = m.widenHooks[:0]
}

// sortByPriority sorts hooks by priority descending, keeping registration
// order for equal priorities.
func sortByPriority[H Hook](hooks []H) {
	sort.SliceStable(hooks, func(i, j int) bool {
		return hooks[i].Priority() > hooks[j].Priority()
	})
}
