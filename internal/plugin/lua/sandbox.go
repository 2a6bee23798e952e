package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/narrowstack/internal/logging"
)

// unsafeGlobals are removed from every state.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"collectgarbage",
}

// safeModules may be loaded with require.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L      *lua.LState
	logger *logging.Logger
}

// NewSandbox creates a sandbox for L. Script output goes to logger.
func NewSandbox(L *lua.LState, logger *logging.Logger) *Sandbox {
	return &Sandbox{L: L, logger: logger}
}

// Install removes unsafe globals, redirects print and restricts require.
func (s *Sandbox) Install() {
	for _, name := range unsafeGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
	s.installRequire()
}

// installPrint sends print output to the logger.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		s.logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}

// installRequire clears the module search paths and replaces require with
// a whitelist over the built-in modules.
func (s *Sandbox) installRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(L.GetGlobal(name))
		return 1
	}))
}
