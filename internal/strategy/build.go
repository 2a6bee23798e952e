package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/narrowstack/internal/narrow"
	"github.com/dshills/narrowstack/internal/unit"
)

// ErrUnknownStrategy indicates a strategy name Build cannot resolve.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Source provides externally defined strategies, such as Lua scripts.
type Source interface {
	// Strategies returns every strategy in registration order.
	Strategies() []narrow.Strategy

	// Strategy returns one strategy by name.
	Strategy(name string) (narrow.Strategy, bool)
}

// Deps holds what Build needs to construct strategies.
type Deps struct {
	Invoker Invoker
	Modes   *unit.ModeTable
	Scripts Source
}

// Build resolves configured names into an ordered strategy list.
//
// Recognized names:
//
//	selection         active selection
//	mode              default unit for the document mode
//	unit:<unit>       a syntactic unit, e.g. unit:defun
//	op:<operation>    any host operation, e.g. op:narrow-to-page
//	lua               every script strategy in registration order
//	lua:<name>        one script strategy
func Build(names []string, deps Deps) ([]narrow.Strategy, error) {
	var out []narrow.Strategy
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		kind, arg, _ := strings.Cut(name, ":")

		switch kind {
		case "selection":
			out = append(out, NewSelection(deps.Invoker))
		case "mode":
			out = append(out, NewModeDefault(deps.Invoker, deps.Modes))
		case "unit":
			u, err := unit.Parse(arg)
			if err != nil {
				return nil, fmt.Errorf("strategy %s: %w", name, err)
			}
			out = append(out, NewUnit(deps.Invoker, u))
		case "op":
			if arg == "" {
				return nil, fmt.Errorf("strategy %s: %w", name, ErrUnknownStrategy)
			}
			out = append(out, NewOp(deps.Invoker, arg))
		case "lua":
			if deps.Scripts == nil {
				if arg == "" {
					continue
				}
				return nil, fmt.Errorf("strategy %s: %w", name, ErrUnknownStrategy)
			}
			if arg == "" {
				out = append(out, deps.Scripts.Strategies()...)
				continue
			}
			s, ok := deps.Scripts.Strategy(arg)
			if !ok {
				return nil, fmt.Errorf("strategy %s: %w", name, ErrUnknownStrategy)
			}
			out = append(out, s)
		default:
			return nil, fmt.Errorf("strategy %q: %w", raw, ErrUnknownStrategy)
		}
	}
	return out, nil
}

// Names returns the names of strategies, in order.
func Names(strategies []narrow.Strategy) []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	return names
}
