package lua

import (
	"errors"
	"fmt"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/narrowstack/internal/logging"
	"github.com/dshills/narrowstack/internal/narrow"
	"github.com/dshills/narrowstack/internal/region"
	"github.com/dshills/narrowstack/internal/unit"
)

const bufferTypeName = "narrow.buffer"

// opNarrowToRegion is the host operation behind buf:narrow.
const opNarrowToRegion = "narrow-to-region"

// Buffer is the document view exposed to scripts.
type Buffer interface {
	narrow.Document
	Point() int
	Len() int
	Mode() string
	Text() string
	Selection() (region.Region, bool)
}

// Invoker runs host operations by name.
type Invoker interface {
	Invoke(name string, doc narrow.Document, args ...int) error
}

// Runtime loads strategy scripts and exposes their strategies.
type Runtime struct {
	state      *State
	invoker    Invoker
	strategies []*Strategy
	logger     *logging.Logger
}

// NewRuntime creates a runtime whose scripts run host operations through inv.
func NewRuntime(inv Invoker, opts ...StateOption) *Runtime {
	st := NewState(opts...)
	r := &Runtime{
		state:   st,
		invoker: inv,
		logger:  st.logger.WithComponent("lua"),
	}
	st.sandbox.logger = r.logger
	r.installAPI()
	return r
}

func (r *Runtime) installAPI() {
	L := r.state.L

	mt := L.NewTypeMetatable(bufferTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"id":        bufID,
		"point":     bufPoint,
		"len":       bufLen,
		"mode":      bufMode,
		"visible":   bufVisible,
		"selection": bufSelection,
		"text":      bufText,
		"narrow":    r.bufNarrow,
		"op":        r.bufOp,
	}))

	r.state.RegisterModule("narrow", map[string]lua.LGFunction{
		"strategy": r.luaRegister,
		"log":      r.luaLog,
	})
}

// LoadFile runs a strategy script.
func (r *Runtime) LoadFile(path string) error {
	if err := r.state.DoFile(path); err != nil {
		return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	r.logger.Debug("loaded %s", path)
	return nil
}

// LoadString runs a strategy script held in memory.
func (r *Runtime) LoadString(name, code string) error {
	if err := r.state.DoString(code); err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	return nil
}

// Strategies returns the registered strategies in registration order.
func (r *Runtime) Strategies() []narrow.Strategy {
	out := make([]narrow.Strategy, len(r.strategies))
	for i, s := range r.strategies {
		out[i] = s
	}
	return out
}

// Strategy returns a registered strategy by name.
func (r *Runtime) Strategy(name string) (narrow.Strategy, bool) {
	s, err := r.lookup(name)
	if err != nil {
		return nil, false
	}
	return s, true
}

func (r *Runtime) lookup(name string) (*Strategy, error) {
	for _, s := range r.strategies {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrStrategyNotFound)
}

// Close releases the Lua state.
func (r *Runtime) Close() error {
	return r.state.Close()
}

// luaRegister implements narrow.strategy(name, fn). Registering an
// existing name replaces its function and keeps its position.
func (r *Runtime) luaRegister(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	if s, err := r.lookup(name); err == nil {
		s.fn = fn
		return 0
	}
	r.strategies = append(r.strategies, &Strategy{runtime: r, name: name, fn: fn})
	r.logger.Debug("registered strategy %s", name)
	return 0
}

func (r *Runtime) luaLog(L *lua.LState) int {
	r.logger.Info("%s", L.CheckString(1))
	return 0
}

// Strategy is a DWIM strategy implemented by a Lua function.
type Strategy struct {
	runtime *Runtime
	name    string
	fn      *lua.LFunction
}

// Name implements narrow.Strategy.
func (s *Strategy) Name() string { return s.name }

// Apply implements narrow.Strategy.
func (s *Strategy) Apply(doc narrow.Document) (bool, error) {
	b, ok := doc.(Buffer)
	if !ok {
		return false, nil
	}

	st := s.runtime.state
	if st.IsClosed() {
		return false, ErrStateClosed
	}

	h := &handle{buf: b}
	ud := st.L.NewUserData()
	ud.Value = h
	st.L.SetMetatable(ud, st.L.GetTypeMetatable(bufferTypeName))

	results, err := st.CallFunction(s.fn, ud)
	if h.err != nil {
		return false, h.err
	}
	if err != nil {
		return false, err
	}
	return s.runtime.interpret(b, h, results)
}

// interpret turns a strategy's return values into an outcome.
func (r *Runtime) interpret(b Buffer, h *handle, results []lua.LValue) (bool, error) {
	if len(results) == 0 {
		return h.narrowed, nil
	}

	switch v := results[0].(type) {
	case *lua.LNilType:
		return h.narrowed, nil
	case lua.LBool:
		return bool(v) || h.narrowed, nil
	case lua.LNumber:
		if len(results) < 2 {
			return false, fmt.Errorf("%w: missing end offset", ErrBadResult)
		}
		end, ok := results[1].(lua.LNumber)
		if !ok {
			return false, fmt.Errorf("%w: end offset is %s", ErrBadResult, results[1].Type())
		}
		if err := r.invoker.Invoke(opNarrowToRegion, b, int(v), int(end)); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrBadResult, v.Type())
	}
}

// handle is the userdata value behind buf. It records whether the script
// narrowed and the first host error it hit.
type handle struct {
	buf      Buffer
	narrowed bool
	err      error
}

func checkHandle(L *lua.LState) *handle {
	ud := L.CheckUserData(1)
	h, ok := ud.Value.(*handle)
	if !ok {
		L.ArgError(1, "buffer expected")
	}
	return h
}

func bufID(L *lua.LState) int {
	L.Push(lua.LString(checkHandle(L).buf.ID()))
	return 1
}

func bufPoint(L *lua.LState) int {
	L.Push(lua.LNumber(checkHandle(L).buf.Point()))
	return 1
}

func bufLen(L *lua.LState) int {
	L.Push(lua.LNumber(checkHandle(L).buf.Len()))
	return 1
}

func bufMode(L *lua.LState) int {
	L.Push(lua.LString(checkHandle(L).buf.Mode()))
	return 1
}

func bufVisible(L *lua.LState) int {
	v := checkHandle(L).buf.VisibleRegion()
	L.Push(lua.LNumber(v.Start))
	L.Push(lua.LNumber(v.End))
	return 2
}

func bufSelection(L *lua.LState) int {
	sel, ok := checkHandle(L).buf.Selection()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(sel.Start))
	L.Push(lua.LNumber(sel.End))
	return 2
}

// bufText returns the visible text, or the part of [start, end) that is
// visible.
func bufText(L *lua.LState) int {
	b := checkHandle(L).buf
	v := b.VisibleRegion()
	r := region.New(L.OptInt(2, v.Start), L.OptInt(3, v.End)).Clamp(v)
	L.Push(lua.LString(b.Text()[r.Start:r.End]))
	return 1
}

func (r *Runtime) bufNarrow(L *lua.LState) int {
	h := checkHandle(L)
	start, end := L.CheckInt(2), L.CheckInt(3)
	if err := r.invoker.Invoke(opNarrowToRegion, h.buf, start, end); err != nil {
		h.fail(err)
		L.RaiseError("%s", err.Error())
		return 0
	}
	h.narrowed = true
	return 0
}

// bufOp runs a host operation. It returns false when the operation found
// no unit at point and raises any other error.
func (r *Runtime) bufOp(L *lua.LState) int {
	h := checkHandle(L)
	name := L.CheckString(2)
	err := r.invoker.Invoke(name, h.buf)
	switch {
	case err == nil:
		h.narrowed = true
		L.Push(lua.LTrue)
		return 1
	case errors.Is(err, unit.ErrNoUnit):
		L.Push(lua.LFalse)
		return 1
	default:
		h.fail(err)
		L.RaiseError("%s", err.Error())
		return 0
	}
}

func (h *handle) fail(err error) {
	if h.err == nil {
		h.err = err
	}
}
