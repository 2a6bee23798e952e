// Package view is a terminal viewer for narrowing a document
// interactively.
//
// Key bindings:
//
//	n        narrow or widen (DWIM)
//	w        widen one level
//	l p s    narrow to line, paragraph, sentence
//	d h      narrow to defun, section
//	m u      set mark at point, deactivate mark
//	arrows   move point
//	i        toggle interception
//	q Esc    quit
package view

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/narrowstack/internal/app"
	"github.com/dshills/narrowstack/internal/host"
)

const tabWidth = 4

// keyCommands maps rune keys to script commands.
var keyCommands = map[rune]string{
	'n': "dwim",
	'w': "widen",
	'l': "narrow line",
	'p': "narrow paragraph",
	's': "narrow sentence",
	'd': "narrow defun",
	'h': "narrow section",
	'u': "unmark",
}

var (
	styleText     = tcell.StyleDefault
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleSelected = tcell.StyleDefault.Underline(true)
	styleStatus   = tcell.StyleDefault.Reverse(true).Bold(true)
	styleMessage  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Viewer draws the current document of an application and turns key
// presses into narrowing commands.
type Viewer struct {
	app     *app.Application
	screen  tcell.Screen
	top     int
	message string
}

// New creates a viewer on an initialized screen.
func New(a *app.Application, screen tcell.Screen) *Viewer {
	return &Viewer{app: a, screen: screen}
}

// Run draws and handles events until the user quits.
func (v *Viewer) Run() error {
	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if v.HandleEvent(ev) {
			return nil
		}
		v.Draw()
	}
}

// HandleEvent applies one event and reports whether the viewer should quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(e)
	}
	return false
}

func (v *Viewer) handleKey(e *tcell.EventKey) bool {
	doc := v.app.Current()
	if doc == nil {
		return true
	}
	v.message = ""

	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.exec(fmt.Sprintf("point %d", doc.Point()-1))
	case tcell.KeyRight:
		v.exec(fmt.Sprintf("point %d", doc.Point()+1))
	case tcell.KeyUp:
		v.exec(fmt.Sprintf("point %d", lineMove(doc, -1)))
	case tcell.KeyDown:
		v.exec(fmt.Sprintf("point %d", lineMove(doc, 1)))
	case tcell.KeyRune:
		switch r := e.Rune(); r {
		case 'q':
			return true
		case 'm':
			v.exec(fmt.Sprintf("mark %d", doc.Point()))
		case 'i':
			if v.app.Editor().Registry().Enabled() {
				v.exec("disable")
			} else {
				v.exec("enable")
			}
		default:
			if cmd, ok := keyCommands[r]; ok {
				v.exec(cmd)
			}
		}
	}
	return false
}

func (v *Viewer) exec(cmd string) {
	if _, err := v.app.Exec(cmd); err != nil {
		v.message = err.Error()
	}
}

// Message returns the last command error shown on the status line.
func (v *Viewer) Message() string { return v.message }

// line is one line of the visible text with its document offset.
type line struct {
	start int
	text  string
}

func visibleLines(doc *host.Document) []line {
	vis := doc.VisibleRegion()
	text := doc.VisibleText()
	var lines []line
	offset := vis.Start
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, line{start: offset, text: text})
			return lines
		}
		lines = append(lines, line{start: offset, text: text[:i]})
		offset += i + 1
		text = text[i+1:]
	}
}

func lineIndex(lines []line, point int) int {
	for i := len(lines) - 1; i > 0; i-- {
		if point >= lines[i].start {
			return i
		}
	}
	return 0
}

// lineMove returns the offset delta lines away from point, keeping the
// byte column where the target line is long enough.
func lineMove(doc *host.Document, delta int) int {
	lines := visibleLines(doc)
	cur := lineIndex(lines, doc.Point())
	target := min(max(cur+delta, 0), len(lines)-1)
	col := doc.Point() - lines[cur].start
	return lines[target].start + min(col, len(lines[target].text))
}

// Draw renders the document and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	doc := v.app.Current()
	if doc == nil || height < 1 {
		v.screen.Show()
		return
	}

	rows := height - 1
	lines := visibleLines(doc)
	cur := lineIndex(lines, doc.Point())
	switch {
	case cur < v.top:
		v.top = cur
	case cur >= v.top+rows:
		v.top = cur - rows + 1
	}
	v.top = min(v.top, max(len(lines)-1, 0))

	sel, hasSel := doc.Selection()
	for y := 0; y < rows && v.top+y < len(lines); y++ {
		ln := lines[v.top+y]
		x := 0
		g := uniseg.NewGraphemes(ln.text)
		for g.Next() && x < width {
			from, _ := g.Positions()
			offset := ln.start + from
			style := styleText
			if hasSel && offset >= sel.Start && offset < sel.End {
				style = styleSelected
			}
			if offset == doc.Point() {
				style = styleCursor
			}

			runes := g.Runes()
			if runes[0] == '\t' {
				n := tabWidth - x%tabWidth
				for i := 0; i < n && x < width; i++ {
					v.screen.SetContent(x, y, ' ', nil, style)
					style = styleText
					x++
				}
				continue
			}
			v.screen.SetContent(x, y, runes[0], runes[1:], style)
			x += max(uniseg.StringWidth(g.Str()), 1)
		}
		if doc.Point() == ln.start+len(ln.text) && x < width {
			v.screen.SetContent(x, y, ' ', nil, styleCursor)
		}
	}

	v.drawStatus(doc, width, height-1)
	v.screen.Show()
}

func (v *Viewer) drawStatus(doc *host.Document, width, y int) {
	status := fmt.Sprintf(" %s [%s] depth=%d visible=%s point=%d",
		doc.Name(), doc.Mode(), v.app.Editor().Depth(doc), doc.VisibleRegion(), doc.Point())
	if !v.app.Editor().Registry().Enabled() {
		status += " (interception off)"
	}
	style := styleStatus
	if v.message != "" {
		status += "  " + v.message
		style = styleMessage.Reverse(true)
	}

	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}
