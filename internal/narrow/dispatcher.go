package narrow

import (
	"fmt"

	"github.com/dshills/narrowstack/internal/logging"
)

// Strategy is one way of choosing what to narrow to.
type Strategy interface {
	// Name identifies the strategy in logs and configuration.
	Name() string

	// Apply narrows doc if the strategy applies. It reports false, with no
	// error, when it does not apply and the next strategy should be tried.
	Apply(doc Document) (bool, error)
}

// Dispatcher narrows with the first applicable strategy, or widens one
// level when none applies.
type Dispatcher struct {
	manager         *Manager
	strategies      []Strategy
	widenOnNoChange bool
	logger          *logging.Logger
}

// NewDispatcher creates a dispatcher trying strategies in order.
func NewDispatcher(m *Manager, strategies []Strategy, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		manager: m,
		logger:  m.logger,
	}
	d.SetStrategies(strategies)
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("dwim")
	return d
}

// SetStrategies replaces the strategy list.
func (d *Dispatcher) SetStrategies(strategies []Strategy) {
	d.strategies = append([]Strategy(nil), strategies...)
}

// Strategies returns a copy of the strategy list.
func (d *Dispatcher) Strategies() []Strategy {
	return append([]Strategy(nil), d.strategies...)
}

// SetWidenOnNoChange toggles widening when the winning strategy did not
// change the view.
func (d *Dispatcher) SetWidenOnNoChange(enabled bool) {
	d.widenOnNoChange = enabled
}

// NarrowOrWiden narrows doc with the first strategy that applies. All
// attempts run inside one intercepted narrowing, so a call records at most
// one level. When no strategy applies the document is widened one level.
func (d *Dispatcher) NarrowOrWiden(doc Document) error {
	st, err := d.manager.State(doc)
	if err != nil {
		return err
	}

	before := doc.VisibleRegion()
	winner := ""
	err = st.Narrow(func() error {
		for _, s := range d.strategies {
			ok, err := s.Apply(doc)
			if err != nil {
				return fmt.Errorf("strategy %s: %w", s.Name(), err)
			}
			if ok {
				winner = s.Name()
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	switch {
	case winner == "":
		d.logger.Debug("no strategy applied to %s; widening", doc.ID())
		return st.Widen()
	case d.widenOnNoChange && doc.VisibleRegion() == before:
		d.logger.Debug("strategy %s left %s unchanged; widening", winner, doc.ID())
		return st.Widen()
	default:
		d.logger.Debug("strategy %s narrowed %s to %s", winner, doc.ID(), doc.VisibleRegion())
		return nil
	}
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc struct {
	name string
	fn   func(doc Document) (bool, error)
}

// NewStrategyFunc creates a named function strategy.
func NewStrategyFunc(name string, fn func(doc Document) (bool, error)) *StrategyFunc {
	return &StrategyFunc{name: name, fn: fn}
}

// Name implements Strategy.
func (f *StrategyFunc) Name() string { return f.name }

// Apply implements Strategy.
func (f *StrategyFunc) Apply(doc Document) (bool, error) {
	if f.fn == nil {
		return false, nil
	}
	return f.fn(doc)
}
