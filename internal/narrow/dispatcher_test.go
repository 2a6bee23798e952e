package narrow_test

import (
	"errors"
	"testing"

	"github.com/dshills/narrowstack/internal/narrow"
	"github.com/dshills/narrowstack/internal/region"
)

func skip(name string, calls *[]string) narrow.Strategy {
	return narrow.NewStrategyFunc(name, func(narrow.Document) (bool, error) {
		*calls = append(*calls, name)
		return false, nil
	})
}

func narrowing(name string, r region.Region, calls *[]string) narrow.Strategy {
	return narrow.NewStrategyFunc(name, func(doc narrow.Document) (bool, error) {
		*calls = append(*calls, name)
		doc.SetVisibleRegion(r)
		return true, nil
	})
}

func TestDispatcherFirstApplicableWins(t *testing.T) {
	m := narrow.NewManager()
	doc := newTestDoc("doc", 100)
	var calls []string

	d := narrow.NewDispatcher(m, []narrow.Strategy{
		skip("selection", &calls),
		narrowing("plugin", region.New(10, 20), &calls),
		narrowing("mode", region.New(30, 40), &calls),
	})

	if err := d.NarrowOrWiden(doc); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[0] != "selection" || calls[1] != "plugin" {
		t.Errorf("unexpected strategy calls %v", calls)
	}
	if doc.visible != region.New(10, 20) {
		t.Errorf("expected [10:20), got %s", doc.visible)
	}
	if m.Depth(doc) != 1 {
		t.Errorf("expected depth 1, got %d", m.Depth(doc))
	}
}

func TestDispatcherWidensWhenNothingApplies(t *testing.T) {
	m := narrow.NewManager()
	doc := newTestDoc("doc", 100)
	var calls []string
	st := mustState(t, m, doc)
	_ = st.Narrow(narrowTo(doc, 10, 50))
	_ = st.Narrow(narrowTo(doc, 20, 30))

	d := narrow.NewDispatcher(m, []narrow.Strategy{skip("a", &calls), skip("b", &calls)})

	if err := d.NarrowOrWiden(doc); err != nil {
		t.Fatal(err)
	}
	if doc.visible != region.New(10, 50) || st.Depth() != 1 {
		t.Errorf("expected one level widened, got %s depth %d", doc.visible, st.Depth())
	}

	_ = d.NarrowOrWiden(doc)
	_ = d.NarrowOrWiden(doc)
	if doc.visible != region.New(0, 100) || st.Depth() != 0 || doc.fullWidens != 1 {
		t.Errorf("expected full view, got %s depth %d full widens %d", doc.visible, st.Depth(), doc.fullWidens)
	}
}

func TestDispatcherUnchangedView(t *testing.T) {
	tests := []struct {
		name            string
		widenOnNoChange bool
		wantVisible     region.Region
		wantDepth       int
	}{
		{"keep view", false, region.New(10, 50), 1},
		{"widen on no change", true, region.New(0, 100), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := narrow.NewManager()
			doc := newTestDoc("doc", 100)
			st := mustState(t, m, doc)
			_ = st.Narrow(narrowTo(doc, 10, 50))

			var calls []string
			d := narrow.NewDispatcher(m,
				[]narrow.Strategy{narrowing("same", region.New(10, 50), &calls)},
				narrow.WithWidenOnNoChange(tt.widenOnNoChange))

			if err := d.NarrowOrWiden(doc); err != nil {
				t.Fatal(err)
			}
			if doc.visible != tt.wantVisible || st.Depth() != tt.wantDepth {
				t.Errorf("expected %s depth %d, got %s depth %d", tt.wantVisible, tt.wantDepth, doc.visible, st.Depth())
			}
		})
	}
}

func TestDispatcherRecordsOnceForNestedStrategy(t *testing.T) {
	m := narrow.NewManager()
	doc := newTestDoc("doc", 100)
	st := mustState(t, m, doc)

	multi := narrow.NewStrategyFunc("multi", func(d narrow.Document) (bool, error) {
		for _, r := range []region.Region{region.New(5, 95), region.New(10, 90)} {
			if err := st.Narrow(func() error { d.SetVisibleRegion(r); return nil }); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	dispatcher := narrow.NewDispatcher(m, []narrow.Strategy{multi})

	if err := dispatcher.NarrowOrWiden(doc); err != nil {
		t.Fatal(err)
	}
	assertStack(t, st, region.New(0, 100))
}

func TestDispatcherStrategyInvokingWiden(t *testing.T) {
	m := narrow.NewManager()
	reg := newTestRegistry(t, m)
	reg.Enable()
	doc := newTestDoc("doc", 100)
	st := mustState(t, m, doc)

	if err := reg.Invoke("narrow-to-region", doc, 10, 50); err != nil {
		t.Fatal(err)
	}
	widener := narrow.NewStrategyFunc("widener", func(d narrow.Document) (bool, error) {
		return true, reg.Invoke("widen", d)
	})
	dispatcher := narrow.NewDispatcher(m, []narrow.Strategy{widener})

	if err := dispatcher.NarrowOrWiden(doc); err != nil {
		t.Fatal(err)
	}
	if doc.visible != region.New(0, 100) {
		t.Fatalf("expected strategy widen to show everything, got %s", doc.visible)
	}
	assertStack(t, st)

	if err := reg.Invoke("widen", doc); err != nil {
		t.Fatal(err)
	}
	if doc.visible != region.New(0, 100) {
		t.Errorf("widen after a strategy widen narrowed the view to %s", doc.visible)
	}
}

func TestDispatcherStrategyError(t *testing.T) {
	m := narrow.NewManager()
	doc := newTestDoc("doc", 100)
	errBroken := errors.New("broken")
	var calls []string

	d := narrow.NewDispatcher(m, []narrow.Strategy{
		narrow.NewStrategyFunc("broken", func(narrow.Document) (bool, error) { return false, errBroken }),
		narrowing("never", region.New(1, 2), &calls),
	})

	err := d.NarrowOrWiden(doc)
	if !errors.Is(err, errBroken) {
		t.Errorf("expected wrapped strategy error, got %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("expected later strategies skipped, got %v", calls)
	}
	if st, _ := m.Lookup("doc"); st.Nested() {
		t.Error("expected guard released after strategy error")
	}
}

func TestDispatcherStrategies(t *testing.T) {
	m := narrow.NewManager()
	var calls []string
	in := []narrow.Strategy{skip("a", &calls)}
	d := narrow.NewDispatcher(m, in)

	in[0] = skip("b", &calls)
	if got := d.Strategies(); len(got) != 1 || got[0].Name() != "a" {
		t.Errorf("expected dispatcher to keep its own copy, got %v", got)
	}

	d.SetStrategies(nil)
	doc := newTestDoc("doc", 10)
	if err := d.NarrowOrWiden(doc); err != nil {
		t.Fatal(err)
	}
	if doc.fullWidens != 1 {
		t.Errorf("expected empty strategy list to widen, got %d full widens", doc.fullWidens)
	}

	var nilFn narrow.StrategyFunc
	if ok, err := nilFn.Apply(doc); ok || err != nil {
		t.Error("expected zero StrategyFunc not to apply")
	}
}
