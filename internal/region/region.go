// Package region provides the span value type and the per-document LIFO
// stack used to remember views that were narrowed away.
package region

import "fmt"

// Region is a half-open byte span [Start, End) over a document.
// Regions are values; two regions are equal when their bounds are equal.
type Region struct {
	Start int // Inclusive start offset
	End   int // Exclusive end offset
}

// New creates a Region, swapping the bounds if they are reversed.
func New(start, end int) Region {
	if end < start {
		start, end = end, start
	}
	return Region{Start: start, End: end}
}

// String returns a human-readable representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the region in bytes.
func (r Region) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the region has zero length.
func (r Region) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid reports whether the region is well formed for a document of length n.
func (r Region) IsValid(n int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= n
}

// Contains returns true if the given offset is within the region.
// The end offset counts as inside so a point at the end of a view is covered.
func (r Region) Contains(offset int) bool {
	return offset >= r.Start && offset <= r.End
}

// ContainsRegion returns true if other lies entirely within r.
func (r Region) ContainsRegion(other Region) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Clamp restricts r to outer. A region entirely outside outer collapses
// to the nearest edge of outer.
func (r Region) Clamp(outer Region) Region {
	start := min(max(r.Start, outer.Start), outer.End)
	end := min(max(r.End, outer.Start), outer.End)
	return Region{Start: start, End: end}
}
