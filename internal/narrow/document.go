package narrow

import "github.com/dshills/narrowstack/internal/region"

// Document is the host collaborator the core narrows and widens.
type Document interface {
	// ID identifies the document instance for its whole lifetime.
	ID() string

	// VisibleRegion returns the currently exposed span.
	VisibleRegion() region.Region

	// SetVisibleRegion exposes exactly r. This is the raw host primitive and
	// is never intercepted.
	SetVisibleRegion(r region.Region)

	// FullWiden exposes the entire document.
	FullWiden() error
}

// Refresher is implemented by documents that can recenter their view after
// a widen. It is optional and purely cosmetic.
type Refresher interface {
	Recenter()
}
