package unit

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/narrowstack/internal/region"
)

func whole(s string) region.Region {
	return region.New(0, len(s))
}

func TestFindLine(t *testing.T) {
	text := "first\nsecond\nthird"

	tests := []struct {
		point int
		want  region.Region
	}{
		{0, region.New(0, 6)},
		{5, region.New(0, 6)},
		{6, region.New(6, 13)},
		{len(text), region.New(13, len(text))},
	}
	for _, tt := range tests {
		got, err := Find(Line, text, whole(text), tt.point)
		if err != nil {
			t.Fatalf("point %d: %v", tt.point, err)
		}
		if got != tt.want {
			t.Errorf("point %d: expected %s, got %s", tt.point, tt.want, got)
		}
	}

	if _, err := Find(Line, "a\n", region.New(0, 2), 2); !errors.Is(err, ErrNoUnit) {
		t.Errorf("expected ErrNoUnit on empty trailing line, got %v", err)
	}
}

func TestFindParagraph(t *testing.T) {
	text := "one\ntwo\n\nthree\nfour\n"
	three := strings.Index(text, "three")

	got, err := Find(Paragraph, text, whole(text), strings.Index(text, "four"))
	if err != nil {
		t.Fatal(err)
	}
	if want := region.New(three, len(text)); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	got, _ = Find(Paragraph, text, whole(text), 1)
	if want := region.New(0, 8); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	got, _ = Find(Paragraph, text, whole(text), 8)
	if want := region.New(three, len(text)); got != want {
		t.Errorf("blank line: expected next paragraph %s, got %s", want, got)
	}

	if _, err := Find(Paragraph, "a\n\n\n", whole("a\n\n\n"), 3); !errors.Is(err, ErrNoUnit) {
		t.Errorf("expected ErrNoUnit after last paragraph, got %v", err)
	}
}

func TestFindSentence(t *testing.T) {
	text := "Hello world. This is Go. Bye"
	start := strings.Index(text, "This")
	end := strings.Index(text, "Go.") + len("Go.")

	got, err := Find(Sentence, text, whole(text), start+2)
	if err != nil {
		t.Fatal(err)
	}
	if want := region.New(start, end); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	got, _ = Find(Sentence, text, whole(text), len(text))
	if want := region.New(strings.Index(text, "Bye"), len(text)); got != want {
		t.Errorf("expected last sentence %s, got %s", want, got)
	}
}

func TestFindWord(t *testing.T) {
	text := "foo bar-baz"

	tests := []struct {
		point int
		want  string
	}{
		{0, "foo"},
		{3, "foo"}, // just after foo
		{5, "bar"},
		{7, "bar"}, // on the hyphen, just after bar
		{len(text), "baz"},
	}
	for _, tt := range tests {
		got, err := Find(Word, text, whole(text), tt.point)
		if err != nil {
			t.Fatalf("point %d: %v", tt.point, err)
		}
		if text[got.Start:got.End] != tt.want {
			t.Errorf("point %d: expected %q, got %q", tt.point, tt.want, text[got.Start:got.End])
		}
	}

	if _, err := Find(Word, "a  b", whole("a  b"), 2); !errors.Is(err, ErrNoUnit) {
		t.Errorf("expected ErrNoUnit between spaces, got %v", err)
	}
}

func TestFindPage(t *testing.T) {
	text := "a\fb\fc"
	got, err := Find(Page, text, whole(text), 2)
	if err != nil {
		t.Fatal(err)
	}
	if text[got.Start:got.End] != "b" {
		t.Errorf("expected page b, got %q", text[got.Start:got.End])
	}
}

func TestFindDefun(t *testing.T) {
	src := "package main\n\nfunc a() {\n\tx := 1\n}\n\n// b doc\nfunc b() {\n\tif true {\n\t}\n}\n"

	got, err := Find(Defun, src, whole(src), strings.Index(src, "x := 1"))
	if err != nil {
		t.Fatal(err)
	}
	want := region.New(strings.Index(src, "func a"), strings.Index(src, "}\n\n//")+2)
	if got != want {
		t.Errorf("func a: expected %s %q, got %s %q", want, src[want.Start:want.End], got, src[got.Start:got.End])
	}

	got, _ = Find(Defun, src, whole(src), strings.Index(src, "if true"))
	if want := region.New(strings.Index(src, "func b"), len(src)); got != want {
		t.Errorf("func b: expected %s, got %s", want, got)
	}

	got, _ = Find(Defun, src, whole(src), 0)
	if want := region.New(0, len("package main\n")); got != want {
		t.Errorf("package clause: expected %s, got %s", want, got)
	}

	if _, err := Find(Defun, "\tindented\n", whole("\tindented\n"), 2); !errors.Is(err, ErrNoUnit) {
		t.Errorf("expected ErrNoUnit without a top-level line, got %v", err)
	}
}

func TestFindSection(t *testing.T) {
	text := "# A\nintro\n## B\nbody b\n## C\nbody c\n# D\n"

	got, err := Find(Section, text, whole(text), strings.Index(text, "body b"))
	if err != nil {
		t.Fatal(err)
	}
	if want := region.New(strings.Index(text, "## B"), strings.Index(text, "## C")); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	got, _ = Find(Section, text, whole(text), strings.Index(text, "intro"))
	if want := region.New(0, strings.Index(text, "# D")); got != want {
		t.Errorf("expected subtree of A %s, got %s", want, got)
	}

	if _, err := Find(Section, "pre\n# A\n", whole("pre\n# A\n"), 0); !errors.Is(err, ErrNoUnit) {
		t.Errorf("expected ErrNoUnit before first heading, got %v", err)
	}
}

func TestFindSubtree(t *testing.T) {
	text := "* A\n** B\ntext\n*bold* line\n* C\n"

	got, err := Find(Subtree, text, whole(text), strings.Index(text, "text"))
	if err != nil {
		t.Fatal(err)
	}
	if want := region.New(strings.Index(text, "** B"), strings.Index(text, "* C")); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFindWithinVisibleRegion(t *testing.T) {
	text := "zero\none\ntwo\n"
	within := region.New(5, 9) // "one\n"

	got, err := Find(Line, text, within, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != within {
		t.Errorf("expected point clamped into %s, got %s", within, got)
	}

	got, _ = Find(Paragraph, text, within, 6)
	if got != within {
		t.Errorf("expected paragraph confined to %s, got %s", within, got)
	}
}

func TestParseAndUnits(t *testing.T) {
	if u, err := Parse(" Defun "); err != nil || u != Defun {
		t.Errorf("expected defun, got %q %v", u, err)
	}
	if _, err := Parse("chapter"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
	if _, err := Find(Unit("chapter"), "x", whole("x"), 0); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit from Find, got %v", err)
	}
	units := Units()
	if len(units) != 8 || units[0] != Defun {
		t.Errorf("unexpected units %v", units)
	}
}

func TestModeTable(t *testing.T) {
	table, err := NewModeTable(map[string]string{"Text": "sentence", "python": "defun"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		mode string
		want Unit
		ok   bool
	}{
		{"go", Defun, true},
		{"markdown", Section, true},
		{"org", Subtree, true},
		{"text", Sentence, true},
		{"python", Defun, true},
		{"fundamental", "", false},
	}
	for _, tt := range tests {
		got, ok := table.ForMode(tt.mode)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ForMode(%q) = %q %v, want %q %v", tt.mode, got, ok, tt.want, tt.ok)
		}
	}

	if _, err := NewModeTable(map[string]string{"go": "chapter"}); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestModeForPath(t *testing.T) {
	tests := map[string]string{
		"main.go":       "go",
		"README.md":     "markdown",
		"notes.org":     "org",
		"init.el":       "lisp",
		"Makefile":      "text",
		"a/b.c/readme":  "text",
		"a.go/Makefile": "text",
		"src.md/NOTES":  "text",
		"dir.v2/x.RS":   "rust",
		"x.txt":         "text",
	}
	for path, want := range tests {
		if got := ModeForPath(path); got != want {
			t.Errorf("ModeForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestUnitOperation(t *testing.T) {
	if got := Defun.Operation(); got != "narrow-to-defun" {
		t.Errorf("expected narrow-to-defun, got %q", got)
	}
}
