package narrow

import (
	"github.com/dshills/narrowstack/internal/logging"
	"github.com/dshills/narrowstack/internal/narrow/hook"
	"github.com/dshills/narrowstack/internal/region"
)

// State is the narrowing state owned by one document: the stack of views
// that were narrowed away and the re-entrancy guard.
type State struct {
	doc    Document
	stack  region.Stack
	guard  Guard
	hooks  *hook.Manager
	logger *logging.Logger
}

func newState(doc Document, hooks *hook.Manager, logger *logging.Logger) *State {
	return &State{
		doc:    doc,
		hooks:  hooks,
		logger: logger.WithField("doc", doc.ID()),
	}
}

// Document returns the document this state belongs to.
func (s *State) Document() Document {
	return s.doc
}

// Depth returns the number of recorded narrowing levels.
func (s *State) Depth() int {
	return s.stack.Len()
}

// Regions returns the saved views, oldest first.
func (s *State) Regions() []region.Region {
	return s.stack.Regions()
}

// Peek returns the view the next widen would restore.
func (s *State) Peek() (region.Region, bool) {
	return s.stack.Peek()
}

// Nested reports whether an intercepted narrowing is in progress.
func (s *State) Nested() bool {
	return s.guard.Held()
}

// Narrow runs a host narrowing action and records the view it replaced.
//
// Inside an already intercepted narrowing the action runs untouched. The
// outermost call pushes the previous view when the visible region changed
// to one that does not contain it, whether or not the action returned an
// error. A panicking action records nothing; the panic propagates after the
// guard is released.
func (s *State) Narrow(action func() error) error {
	release, ok := s.guard.Acquire()
	if !ok {
		return action()
	}

	before := s.doc.VisibleRegion()
	err := func() error {
		defer release()
		return action()
	}()

	after := s.doc.VisibleRegion()
	switch {
	case after == before:
		s.logger.Debug("narrow left view at %s; nothing recorded", before)
		return err
	case after.ContainsRegion(before):
		// The action widened, typically through a nested widen that
		// already popped its level.
		s.logger.Debug("narrow widened %s to %s; nothing recorded", before, after)
		return err
	}

	s.stack.Push(before)
	s.logger.Debug("recorded %s at depth %d", before, s.stack.Len())
	s.hooks.RunAfterNarrow(s.doc, before, after)
	return err
}

// Widen restores the most recently saved view, or fully widens the
// document through its own FullWiden when nothing is saved.
func (s *State) Widen() error {
	return s.WidenWith(s.doc.FullWiden)
}

// WidenWith is Widen with an explicit full-widen action, used when the
// host registered its own widen operation.
func (s *State) WidenWith(full func() error) error {
	popped, err := s.restore(full)
	if err != nil {
		return err
	}

	visible := s.doc.VisibleRegion()
	if popped {
		s.logger.Debug("restored %s, depth now %d", visible, s.stack.Len())
	} else {
		s.logger.Debug("stack empty; fully widened to %s", visible)
	}
	s.hooks.RunAfterWiden(s.doc, visible, popped)
	return nil
}

// restore pops one level while holding the guard so the restore is never
// seen as a narrowing.
func (s *State) restore(full func() error) (bool, error) {
	if release, ok := s.guard.Acquire(); ok {
		defer release()
	}

	prev, ok := s.stack.Pop()
	if !ok {
		if full == nil {
			return false, nil
		}
		return false, full()
	}
	s.doc.SetVisibleRegion(prev)
	return true, nil
}

// reset discards every saved level.
func (s *State) reset() {
	s.stack.Reset()
}
