package narrow

// Guard marks that an intercepted narrowing is in progress on a document.
// While held, further narrowing in the same call chain is not recorded.
type Guard struct {
	held bool
}

// Held reports whether the guard is currently held.
func (g *Guard) Held() bool {
	return g.held
}

// Acquire takes the guard. It returns false and a nil release when the
// guard is already held. Callers release with defer:
//
//	release, ok := g.Acquire()
//	if !ok {
//	    return action()
//	}
//	defer release()
func (g *Guard) Acquire() (release func(), ok bool) {
	if g.held {
		return nil, false
	}
	g.held = true
	return func() { g.held = false }, true
}
