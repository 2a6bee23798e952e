package view

import (
	"io"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/narrowstack/internal/app"
	"github.com/dshills/narrowstack/internal/host"
)

func newTestViewer(t *testing.T, text string, opts ...host.DocumentOption) (*Viewer, tcell.SimulationScreen, *app.Application) {
	t.Helper()
	a, err := app.New(app.Options{LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	if _, err := a.OpenText(text, opts...); err != nil {
		t.Fatal(err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error = %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 6)
	return New(a, screen), screen, a
}

func row(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(string(c.Runes))
	}
	return strings.TrimRight(sb.String(), " ")
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestDrawVisibleText(t *testing.T) {
	v, screen, a := newTestViewer(t, "one\ntwo\nthree\n")
	v.Draw()

	if got := row(screen, 0); got != "one" {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(screen, 2); got != "three" {
		t.Errorf("row 2 = %q", got)
	}
	if status := row(screen, 5); !strings.Contains(status, "depth=0 visible=[0:14) point=0") {
		t.Errorf("unexpected status %q", status)
	}

	if err := a.Run("point 5; narrow line", io.Discard); err != nil {
		t.Fatal(err)
	}
	v.Draw()
	if got := row(screen, 0); got != "two" {
		t.Errorf("expected narrowed line, got %q", got)
	}
	if got := row(screen, 1); got != "" {
		t.Errorf("expected hidden text omitted, got %q", got)
	}
	if status := row(screen, 5); !strings.Contains(status, "depth=1 visible=[4:8)") {
		t.Errorf("unexpected status %q", status)
	}
}

func TestDrawExpandsTabs(t *testing.T) {
	v, screen, _ := newTestViewer(t, "\tx")
	v.Draw()
	if got := row(screen, 0); got != "    x" {
		t.Errorf("row 0 = %q", got)
	}
}

func TestDrawScrollsToPoint(t *testing.T) {
	v, screen, a := newTestViewer(t, "a\nb\nc\nd\ne\nf\ng\n")
	if _, err := a.Exec("point 12"); err != nil {
		t.Fatal(err)
	}
	v.Draw()
	if got := row(screen, 4); got != "g" {
		t.Errorf("expected point line at the bottom, got %q", got)
	}
	if got := row(screen, 0); got != "c" {
		t.Errorf("expected scrolled view, got %q", got)
	}
}

func TestKeyBindings(t *testing.T) {
	src := "package main\n\nfunc a() {\n\treturn\n}\n"
	v, _, a := newTestViewer(t, src, host.WithMode("go"))
	doc := a.Current()

	for _, k := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone),
	} {
		if v.HandleEvent(k) {
			t.Fatal("unexpected quit")
		}
	}
	if doc.Point() != 15 {
		t.Fatalf("expected point 15, got %d", doc.Point())
	}

	v.HandleEvent(key('n'))
	if doc.VisibleText() != "func a() {\n\treturn\n}\n" {
		t.Errorf("expected defun, got %q", doc.VisibleText())
	}
	v.HandleEvent(key('l'))
	if a.Editor().Depth(doc) != 2 {
		t.Errorf("expected depth 2, got %d", a.Editor().Depth(doc))
	}
	v.HandleEvent(key('w'))
	v.HandleEvent(key('w'))
	if doc.IsNarrowed() {
		t.Errorf("expected widened, got %s", doc.VisibleRegion())
	}

	v.HandleEvent(key('i'))
	if a.Editor().Registry().Enabled() {
		t.Error("expected interception toggled off")
	}
	v.HandleEvent(key('i'))
	if !a.Editor().Registry().Enabled() {
		t.Error("expected interception toggled on")
	}

	v.HandleEvent(key('m'))
	if _, ok := doc.Selection(); ok {
		t.Error("expected empty selection inactive")
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if sel, ok := doc.Selection(); !ok || sel.Start != 15 || sel.End != 16 {
		t.Errorf("unexpected selection %v %t", sel, ok)
	}
	v.HandleEvent(key('u'))
	if _, ok := doc.Selection(); ok {
		t.Error("expected mark deactivated")
	}

	if !v.HandleEvent(key('q')) {
		t.Error("expected q to quit")
	}
	if !v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("expected Esc to quit")
	}
}

func TestCommandErrorShown(t *testing.T) {
	v, screen, _ := newTestViewer(t, "\tindented\n")
	v.HandleEvent(key('d'))
	if v.Message() == "" {
		t.Fatal("expected error message")
	}
	v.Draw()
	if status := row(screen, 5); !strings.Contains(status, "depth=0") {
		t.Errorf("unexpected status %q", status)
	}

	v.HandleEvent(key('l'))
	if v.Message() != "" {
		t.Errorf("expected message cleared, got %q", v.Message())
	}
}

func TestRunUntilQuit(t *testing.T) {
	v, screen, a := newTestViewer(t, "one\ntwo\n")
	screen.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	if err := v.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.Editor().Depth(a.Current()) != 1 {
		t.Errorf("expected one narrowing before quit, got %d", a.Editor().Depth(a.Current()))
	}
}
