package unit

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// segment is one piece of text produced by a uniseg iterator.
type segment struct {
	start, end int
	text       string
}

func segments(s string, next func(str string, state int) (string, string, int)) []segment {
	var out []segment
	offset, state, rest := 0, -1, s
	for len(rest) > 0 {
		var piece string
		piece, rest, state = next(rest, state)
		out = append(out, segment{start: offset, end: offset + len(piece), text: piece})
		offset += len(piece)
	}
	return out
}

func findSentence(s string, p int) (int, int, error) {
	for _, seg := range segments(s, uniseg.FirstSentenceInString) {
		if p >= seg.end && seg.end != len(s) {
			continue
		}
		body := strings.TrimRightFunc(seg.text, unicode.IsSpace)
		lead := len(body) - len(strings.TrimLeftFunc(body, unicode.IsSpace))
		if lead == len(body) {
			return 0, 0, ErrNoUnit
		}
		return seg.start + lead, seg.start + len(body), nil
	}
	return 0, 0, ErrNoUnit
}

func isWordSegment(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

// findWord returns the word holding p, or the word ending exactly at p.
func findWord(s string, p int) (int, int, error) {
	segs := segments(s, uniseg.FirstWordInString)
	for i, seg := range segs {
		if p < seg.start || p >= seg.end {
			continue
		}
		if isWordSegment(seg.text) {
			return seg.start, seg.end, nil
		}
		if i > 0 && segs[i-1].end == p && isWordSegment(segs[i-1].text) {
			return segs[i-1].start, segs[i-1].end, nil
		}
		return 0, 0, ErrNoUnit
	}
	if n := len(segs); n > 0 && segs[n-1].end == p && isWordSegment(segs[n-1].text) {
		return segs[n-1].start, segs[n-1].end, nil
	}
	return 0, 0, ErrNoUnit
}
