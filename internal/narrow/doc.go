// Package narrow implements recursive narrowing: every narrowing of a
// document remembers the view it replaced, and every widen undoes exactly
// one level instead of exposing the whole document at once.
//
// # Architecture
//
//   - State: per-document region stack plus the re-entrancy guard.
//   - State.Narrow: wraps a host narrowing action and records the previous
//     view when the action changed the visible region.
//   - State.Widen: restores the most recent saved view, or fully widens when
//     nothing is saved.
//   - Manager: owns one State per attached document.
//   - Registry: the table of host operations. While enabled, narrowing
//     operations run through State.Narrow and widen operations through
//     State.Widen.
//   - Dispatcher: tries an ordered list of strategies and widens when none
//     of them applies.
//
// # Re-entrancy
//
// Only the outermost narrowing in a call chain is recorded. A narrowing
// operation that triggers other narrowing operations produces at most one
// stack entry, computed from the view before and after the outer call.
// The guard is released with defer, so an action that returns an error or
// panics never leaves the document stuck in the nested state.
//
// # Basic Usage
//
//	m := narrow.NewManager()
//	reg := narrow.NewRegistry(m)
//	reg.Register("narrow-to-region", narrow.KindNarrow, narrowToRegion)
//	reg.Register("widen", narrow.KindWiden, fullWiden)
//	reg.Enable()
//
//	reg.Invoke("narrow-to-region", doc, 10, 50) // stack: [full view]
//	reg.Invoke("widen", doc)                    // back to the full view
//
// # Concurrency
//
// Everything in this package is driven from the host's single execution
// context. State and Manager carry no locks.
package narrow
