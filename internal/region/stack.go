package region

// Stack holds the views a document had before each recorded narrowing.
// The head is the view to return to on the next widen.
//
// A Stack belongs to exactly one document and is driven from the host's
// single execution context, so it carries no lock.
type Stack struct {
	entries []Region
}

// Push records r as the new head.
func (s *Stack) Push(r Region) {
	s.entries = append(s.entries, r)
}

// Pop removes and returns the head. The bool is false when the stack is
// empty, which is the base state rather than an error.
func (s *Stack) Pop() (Region, bool) {
	if len(s.entries) == 0 {
		return Region{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Peek returns the head without removing it.
func (s *Stack) Peek() (Region, bool) {
	if len(s.entries) == 0 {
		return Region{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// IsEmpty returns true if nothing is recorded.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the narrowing depth.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Reset discards every entry.
func (s *Stack) Reset() {
	s.entries = nil
}

// Regions returns a copy of the entries, oldest first.
func (s *Stack) Regions() []Region {
	result := make([]Region, len(s.entries))
	copy(result, s.entries)
	return result
}
