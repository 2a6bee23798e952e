package unit

import "strings"

// span is one line of text. end excludes the newline, next is the offset
// of the following line.
type span struct {
	start, end, next int
}

func splitLines(s string) []span {
	var ls []span
	offset := 0
	for {
		i := strings.IndexByte(s[offset:], '\n')
		if i < 0 {
			ls = append(ls, span{start: offset, end: len(s), next: len(s)})
			return ls
		}
		ls = append(ls, span{start: offset, end: offset + i, next: offset + i + 1})
		offset += i + 1
	}
}

// lineAt returns the index of the line holding offset p.
func lineAt(ls []span, p int) int {
	for i, l := range ls {
		if p <= l.end {
			return i
		}
	}
	return len(ls) - 1
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func findLine(s string, p int) (int, int, error) {
	ls := splitLines(s)
	l := ls[lineAt(ls, p)]
	if l.start == l.next {
		return 0, 0, ErrNoUnit
	}
	return l.start, l.next, nil
}

func findParagraph(s string, p int) (int, int, error) {
	ls := splitLines(s)
	i := lineAt(ls, p)

	for i < len(ls) && isBlank(s[ls[i].start:ls[i].end]) {
		i++
	}
	if i == len(ls) {
		return 0, 0, ErrNoUnit
	}

	first, last := i, i
	for first > 0 && !isBlank(s[ls[first-1].start:ls[first-1].end]) {
		first--
	}
	for last < len(ls)-1 && !isBlank(s[ls[last+1].start:ls[last+1].end]) {
		last++
	}
	return ls[first].start, ls[last].next, nil
}

func findPage(s string, p int) (int, int, error) {
	start := strings.LastIndexByte(s[:p], '\f') + 1
	end := len(s)
	if i := strings.IndexByte(s[p:], '\f'); i >= 0 {
		end = p + i
	}
	return start, end, nil
}

// isTopLevel reports whether a line starts a top-level form: it begins at
// column 0 with something other than whitespace or a closing bracket.
func isTopLevel(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ', '\t', '\r', '}', ')', ']':
		return false
	}
	return true
}

// findDefun finds the top-level form around p. A form whose header opens a
// brace block runs to the line holding the matching close brace; any other
// form runs to the last non-blank line before the next top-level line.
func findDefun(s string, p int) (int, int, error) {
	ls := splitLines(s)
	h := lineAt(ls, p)
	for h >= 0 && !isTopLevel(s[ls[h].start:ls[h].end]) {
		h--
	}
	if h < 0 {
		return 0, 0, ErrNoUnit
	}

	next := len(ls)
	for j := h + 1; j < len(ls); j++ {
		if isTopLevel(s[ls[j].start:ls[j].end]) {
			next = j
			break
		}
	}
	limit := len(s)
	if next < len(ls) {
		limit = ls[next].start
	}

	start := ls[h].start
	if open := strings.IndexByte(s[start:limit], '{'); open >= 0 {
		closeAt := matchBrace(s, start+open)
		if closeAt < 0 {
			return start, len(s), nil
		}
		return start, ls[lineAt(ls, closeAt)].next, nil
	}

	last := next - 1
	for last > h && isBlank(s[ls[last].start:ls[last].end]) {
		last--
	}
	return start, ls[last].next, nil
}

// matchBrace returns the offset of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// headingFinder finds the heading subtree around p for headings made of
// repeated marker characters. Markdown headings may stand alone ("##");
// Org headings need a following space.
func headingFinder(marker byte, bare bool) finder {
	level := func(line string) int {
		n := 0
		for n < len(line) && line[n] == marker {
			n++
		}
		if n == 0 {
			return 0
		}
		if n == len(line) {
			if bare {
				return n
			}
			return 0
		}
		if line[n] == ' ' || line[n] == '\t' {
			return n
		}
		return 0
	}

	return func(s string, p int) (int, int, error) {
		ls := splitLines(s)
		h := lineAt(ls, p)
		for h >= 0 && level(s[ls[h].start:ls[h].end]) == 0 {
			h--
		}
		if h < 0 {
			return 0, 0, ErrNoUnit
		}

		lvl := level(s[ls[h].start:ls[h].end])
		end := len(s)
		for j := h + 1; j < len(ls); j++ {
			if l := level(s[ls[j].start:ls[j].end]); l > 0 && l <= lvl {
				end = ls[j].start
				break
			}
		}
		return ls[h].start, end, nil
	}
}
