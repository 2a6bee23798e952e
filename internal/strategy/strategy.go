// Package strategy provides the built-in DWIM narrowing strategies and
// resolves configured strategy names into an ordered list.
package strategy

import (
	"errors"
	"fmt"

	"github.com/dshills/narrowstack/internal/host"
	"github.com/dshills/narrowstack/internal/narrow"
	"github.com/dshills/narrowstack/internal/region"
	"github.com/dshills/narrowstack/internal/unit"
)

// Invoker runs host operations by name. narrow.Registry implements it.
type Invoker interface {
	Invoke(name string, doc narrow.Document, args ...int) error
}

// Selector is implemented by documents with an active selection.
type Selector interface {
	Selection() (region.Region, bool)
}

// Moded is implemented by documents with a major mode.
type Moded interface {
	Mode() string
}

// Selection narrows to the active selection.
type Selection struct {
	inv Invoker
}

// NewSelection creates the selection strategy.
func NewSelection(inv Invoker) *Selection {
	return &Selection{inv: inv}
}

// Name implements narrow.Strategy.
func (s *Selection) Name() string { return "selection" }

// Apply implements narrow.Strategy.
func (s *Selection) Apply(doc narrow.Document) (bool, error) {
	sel, ok := doc.(Selector)
	if !ok {
		return false, nil
	}
	r, ok := sel.Selection()
	if !ok {
		return false, nil
	}
	if err := s.inv.Invoke(host.OpNarrowToRegion, doc, r.Start, r.End); err != nil {
		return false, err
	}
	return true, nil
}

// Op narrows by running one host operation. It does not apply when the
// operation finds no unit at point.
type Op struct {
	inv  Invoker
	name string
	op   string
	args []int
}

// NewOp creates a strategy running operation op with args.
func NewOp(inv Invoker, op string, args ...int) *Op {
	return &Op{inv: inv, name: "op:" + op, op: op, args: args}
}

// NewUnit creates a strategy narrowing to the unit u around point.
func NewUnit(inv Invoker, u unit.Unit) *Op {
	return &Op{inv: inv, name: "unit:" + string(u), op: u.Operation()}
}

// Name implements narrow.Strategy.
func (o *Op) Name() string { return o.name }

// Apply implements narrow.Strategy.
func (o *Op) Apply(doc narrow.Document) (bool, error) {
	return invoke(o.inv, o.op, doc, o.args...)
}

// ModeDefault narrows to the default unit of the document mode.
type ModeDefault struct {
	inv   Invoker
	modes *unit.ModeTable
}

// NewModeDefault creates the mode strategy.
func NewModeDefault(inv Invoker, modes *unit.ModeTable) *ModeDefault {
	return &ModeDefault{inv: inv, modes: modes}
}

// Name implements narrow.Strategy.
func (m *ModeDefault) Name() string { return "mode" }

// Apply implements narrow.Strategy.
func (m *ModeDefault) Apply(doc narrow.Document) (bool, error) {
	md, ok := doc.(Moded)
	if !ok || m.modes == nil {
		return false, nil
	}
	u, ok := m.modes.ForMode(md.Mode())
	if !ok {
		return false, nil
	}
	return invoke(m.inv, u.Operation(), doc)
}

func invoke(inv Invoker, op string, doc narrow.Document, args ...int) (bool, error) {
	err := inv.Invoke(op, doc, args...)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unit.ErrNoUnit):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", op, err)
	}
}
