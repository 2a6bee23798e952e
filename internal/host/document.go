// Package host provides the reference editor host for narrowing: in-memory
// documents with a point, a mark and a visible region, and an Editor that
// owns them together with the narrowing state and the host operation table.
package host

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/narrowstack/internal/region"
	"github.com/dshills/narrowstack/internal/unit"
)

// Document is an open text document.
type Document struct {
	id   string
	path string
	name string
	text string
	mode string

	point      int
	mark       int
	markActive bool

	visible   region.Region
	recenters int
}

// DocumentOption configures a Document during creation.
type DocumentOption func(*Document)

// WithPath records the file the document was loaded from and derives its
// mode from the file name.
func WithPath(path string) DocumentOption {
	return func(d *Document) {
		d.path = path
		d.name = filepath.Base(path)
		d.mode = unit.ModeForPath(path)
	}
}

// WithMode sets the document mode.
func WithMode(mode string) DocumentOption {
	return func(d *Document) {
		d.mode = mode
	}
}

// WithID overrides the generated document id.
func WithID(id string) DocumentOption {
	return func(d *Document) {
		if id != "" {
			d.id = id
		}
	}
}

// NewDocument creates a fully widened document holding text.
func NewDocument(text string, opts ...DocumentOption) *Document {
	d := &Document{
		id:      uuid.New().String(),
		name:    "Untitled",
		text:    text,
		mode:    "text",
		visible: region.New(0, len(text)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LoadDocument reads a document from a file.
func LoadDocument(path string, opts ...DocumentOption) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewDocument(string(data), append([]DocumentOption{WithPath(path)}, opts...)...), nil
}

// ID implements narrow.Document.
func (d *Document) ID() string { return d.id }

// Path returns the file path, empty for scratch documents.
func (d *Document) Path() string { return d.path }

// Name returns the display name.
func (d *Document) Name() string { return d.name }

// Mode returns the document mode.
func (d *Document) Mode() string { return d.mode }

// SetMode changes the document mode.
func (d *Document) SetMode(mode string) { d.mode = mode }

// Text returns the whole document text, hidden parts included.
func (d *Document) Text() string { return d.text }

// Len returns the document length in bytes.
func (d *Document) Len() int { return len(d.text) }

// VisibleText returns the text of the visible region.
func (d *Document) VisibleText() string {
	return d.text[d.visible.Start:d.visible.End]
}

// VisibleRegion implements narrow.Document.
func (d *Document) VisibleRegion() region.Region { return d.visible }

// SetVisibleRegion implements narrow.Document. The region is clamped to the
// document and point is moved inside it.
func (d *Document) SetVisibleRegion(r region.Region) {
	d.visible = r.Clamp(region.New(0, len(d.text)))
	d.point = min(max(d.point, d.visible.Start), d.visible.End)
}

// FullWiden implements narrow.Document.
func (d *Document) FullWiden() error {
	d.visible = region.New(0, len(d.text))
	return nil
}

// IsNarrowed reports whether part of the document is hidden.
func (d *Document) IsNarrowed() bool {
	return d.visible != region.New(0, len(d.text))
}

// Recenter implements narrow.Refresher.
func (d *Document) Recenter() { d.recenters++ }

// Recenters returns how many times the view was recentered.
func (d *Document) Recenters() int { return d.recenters }

// Point returns the cursor offset.
func (d *Document) Point() int { return d.point }

// SetPoint moves the cursor, clamped to the visible region.
func (d *Document) SetPoint(offset int) {
	d.point = min(max(offset, d.visible.Start), d.visible.End)
}

// SetMark sets the mark at offset and activates the selection.
func (d *Document) SetMark(offset int) {
	d.mark = min(max(offset, d.visible.Start), d.visible.End)
	d.markActive = true
}

// DeactivateMark clears the active selection.
func (d *Document) DeactivateMark() {
	d.markActive = false
}

// Selection returns the span between mark and point when the mark is
// active and the span is not empty.
func (d *Document) Selection() (region.Region, bool) {
	if !d.markActive || d.mark == d.point {
		return region.Region{}, false
	}
	return region.New(d.mark, d.point), true
}
