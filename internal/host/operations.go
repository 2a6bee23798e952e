package host

import (
	"github.com/dshills/narrowstack/internal/narrow"
	"github.com/dshills/narrowstack/internal/region"
	"github.com/dshills/narrowstack/internal/unit"
)

// Host operation names.
const (
	OpNarrowToRegion = "narrow-to-region"
	OpWiden          = "widen"
)

// asDocument recovers the host document behind a narrow.Document.
func asDocument(op string, doc narrow.Document) (*Document, error) {
	d, ok := doc.(*Document)
	if !ok {
		return nil, &OperationError{Op: op, Doc: doc.ID(), Err: ErrForeignDocument}
	}
	return d, nil
}

// narrowToRegion narrows to explicit bounds, or to the active selection
// when called without arguments. The selection is deactivated afterwards.
func narrowToRegion(doc narrow.Document, args ...int) error {
	d, err := asDocument(OpNarrowToRegion, doc)
	if err != nil {
		return err
	}

	var r region.Region
	switch {
	case len(args) >= 2:
		r = region.New(args[0], args[1])
		if !r.IsValid(d.Len()) {
			return &OperationError{Op: OpNarrowToRegion, Doc: d.id, Err: ErrRegionOutOfRange}
		}
	default:
		sel, ok := d.Selection()
		if !ok {
			return &OperationError{Op: OpNarrowToRegion, Doc: d.id, Err: ErrNoSelection}
		}
		r = sel
	}

	d.SetVisibleRegion(r)
	d.DeactivateMark()
	return nil
}

// narrowToUnit returns the operation narrowing to the unit around point
// within the visible region.
func narrowToUnit(u unit.Unit) narrow.Operation {
	op := u.Operation()
	return func(doc narrow.Document, _ ...int) error {
		d, err := asDocument(op, doc)
		if err != nil {
			return err
		}
		r, err := unit.Find(u, d.text, d.visible, d.point)
		if err != nil {
			return &OperationError{Op: op, Doc: d.id, Err: err}
		}
		d.SetVisibleRegion(r)
		return nil
	}
}

func widen(doc narrow.Document, _ ...int) error {
	return doc.FullWiden()
}

// RegisterOperations adds every host operation to reg: narrow-to-region,
// one narrow-to-<unit> per syntactic unit, and widen.
func RegisterOperations(reg *narrow.Registry) error {
	if err := reg.Register(OpNarrowToRegion, narrow.KindNarrow, narrowToRegion); err != nil {
		return err
	}
	for _, u := range unit.Units() {
		if err := reg.Register(u.Operation(), narrow.KindNarrow, narrowToUnit(u)); err != nil {
			return err
		}
	}
	return reg.Register(OpWiden, narrow.KindWiden, widen)
}
