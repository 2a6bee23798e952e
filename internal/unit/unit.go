// Package unit finds syntactic units of text around a point: lines,
// paragraphs, sentences, words, pages, top-level definitions and heading
// sections. Every search is confined to the currently visible region.
package unit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/narrowstack/internal/region"
)

// Unit names a kind of syntactic unit.
type Unit string

// Known units.
const (
	Line      Unit = "line"
	Paragraph Unit = "paragraph"
	Sentence  Unit = "sentence"
	Word      Unit = "word"
	Page      Unit = "page"
	Defun     Unit = "defun"
	Section   Unit = "section"
	Subtree   Unit = "subtree"
)

var (
	// ErrNoUnit indicates there is no unit of the requested kind at point.
	ErrNoUnit = errors.New("no unit at point")

	// ErrUnknownUnit indicates an unrecognized unit name.
	ErrUnknownUnit = errors.New("unknown unit")
)

// finder locates a unit in s around local offset p and returns local bounds.
type finder func(s string, p int) (int, int, error)

var finders = map[Unit]finder{
	Line:      findLine,
	Paragraph: findParagraph,
	Sentence:  findSentence,
	Word:      findWord,
	Page:      findPage,
	Defun:     findDefun,
	Section:   headingFinder('#', true),
	Subtree:   headingFinder('*', false),
}

// Parse returns the unit with the given name.
func Parse(name string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := finders[u]; !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownUnit)
	}
	return u, nil
}

// Units returns every known unit, sorted by name.
func Units() []Unit {
	units := make([]Unit, 0, len(finders))
	for u := range finders {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
	return units
}

// Find returns the unit of kind u around point in text, searching only
// inside within. A point outside within is clamped to it.
func Find(u Unit, text string, within region.Region, point int) (region.Region, error) {
	f, ok := finders[u]
	if !ok {
		return region.Region{}, fmt.Errorf("%q: %w", u, ErrUnknownUnit)
	}
	within = within.Clamp(region.New(0, len(text)))
	point = min(max(point, within.Start), within.End)

	start, end, err := f(text[within.Start:within.End], point-within.Start)
	if err != nil {
		return region.Region{}, fmt.Errorf("%s: %w", u, err)
	}
	if start >= end {
		return region.Region{}, fmt.Errorf("%s: %w", u, ErrNoUnit)
	}
	return region.New(within.Start+start, within.Start+end), nil
}

// Operation returns the name of the host operation narrowing to u.
func (u Unit) Operation() string {
	return "narrow-to-" + string(u)
}
