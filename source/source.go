// Package source defines the input buffer consumed by the parser.
// Match positions and lengths are counted in runes, so the buffer keeps
// the decoded rune content alongside the original text.
package source

import (
	"strings"
)

type Source struct {
	name       string
	text       []rune
	lineStarts []int
}

func New(name, content string) *Source {
	s := &Source{name: name, text: []rune(content)}
	s.lineStarts = make([]int, 1, strings.Count(content, "\n")+1)
	for i, r := range s.text {
		if r == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

func (s *Source) Name() string {
	return s.name
}

// Len returns input length in runes.
func (s *Source) Len() int {
	return len(s.text)
}

func (s *Source) At(pos int) rune {
	return s.text[pos]
}

// Text returns the substring of length runes starting at pos.
// The span is clipped to the buffer.
func (s *Source) Text(pos, length int) string {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.text) {
		pos = len(s.text)
	}
	end := pos + length
	if end > len(s.text) {
		end = len(s.text)
	}
	return string(s.text[pos:end])
}

// Pos is a position in a source, carried by errors as their location.
type Pos struct {
	src *Source
	pos int
}

// Pos returns the position as error context.
func (s *Source) Pos(pos int) Pos {
	return Pos{src: s, pos: pos}
}

func (p Pos) SourceName() string {
	return p.src.Name()
}

func (p Pos) Line() int {
	line, _ := p.src.LineCol(p.pos)
	return line
}

func (p Pos) Col() int {
	_, col := p.src.LineCol(p.pos)
	return col
}

// LineCol returns 1-based line and column numbers for a rune position.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.text) {
		pos = len(s.text)
	}

	lo, hi := 0, len(s.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) >> 1
		if s.lineStarts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, pos - s.lineStarts[lo] + 1
}
