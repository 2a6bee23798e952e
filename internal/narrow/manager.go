package narrow

import (
	"github.com/dshills/narrowstack/internal/logging"
	"github.com/dshills/narrowstack/internal/narrow/hook"
)

// Manager owns the narrowing State of every attached document.
type Manager struct {
	states map[string]*State
	hooks  *hook.Manager
	logger *logging.Logger
}

// NewManager creates a manager with no attached documents.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		states: make(map[string]*State),
		hooks:  hook.NewManager(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent("narrow")
	return m
}

// Hooks returns the hook manager shared by all states.
func (m *Manager) Hooks() *hook.Manager {
	return m.hooks
}

// Attach creates the empty state for doc. Attaching an already attached
// document returns its existing state.
func (m *Manager) Attach(doc Document) (*State, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if st, ok := m.states[doc.ID()]; ok {
		return st, nil
	}
	st := newState(doc, m.hooks, m.logger)
	m.states[doc.ID()] = st
	m.logger.Debug("attached %s", doc.ID())
	return st, nil
}

// Detach discards the state of the document with the given id.
// It reports whether a state was attached.
func (m *Manager) Detach(id string) bool {
	st, ok := m.states[id]
	if !ok {
		return false
	}
	st.reset()
	delete(m.states, id)
	m.logger.Debug("detached %s", id)
	return true
}

// Lookup returns the state of an attached document.
func (m *Manager) Lookup(id string) (*State, bool) {
	st, ok := m.states[id]
	return st, ok
}

// State returns the state for doc, attaching it first if needed.
func (m *Manager) State(doc Document) (*State, error) {
	return m.Attach(doc)
}

// Narrow runs action through the narrow interceptor of doc.
func (m *Manager) Narrow(doc Document, action func() error) error {
	st, err := m.State(doc)
	if err != nil {
		return err
	}
	return st.Narrow(action)
}

// Widen undoes one narrowing level of doc, or fully widens it.
func (m *Manager) Widen(doc Document) error {
	st, err := m.State(doc)
	if err != nil {
		return err
	}
	return st.Widen()
}

// Depth returns the narrowing depth of doc; 0 when it is not attached.
func (m *Manager) Depth(doc Document) int {
	if doc == nil {
		return 0
	}
	if st, ok := m.states[doc.ID()]; ok {
		return st.Depth()
	}
	return 0
}

// Len returns the number of attached documents.
func (m *Manager) Len() int {
	return len(m.states)
}
