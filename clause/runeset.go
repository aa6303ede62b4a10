package clause

import (
	"fmt"
	"sort"
	"strings"
)

// RuneRange is an inclusive range of runes.
type RuneRange struct {
	Lo, Hi rune
}

// RuneSet is a set of runes kept as sorted, non-overlapping inclusive ranges.
type RuneSet struct {
	ranges []RuneRange
}

func NewRuneSet(chars ...rune) *RuneSet {
	s := &RuneSet{}
	for _, r := range chars {
		s.AddRange(r, r)
	}
	return s
}

func NewRuneSetFromString(chars string) *RuneSet {
	return NewRuneSet([]rune(chars)...)
}

func NewRuneRange(lo, hi rune) *RuneSet {
	s := &RuneSet{}
	s.AddRange(lo, hi)
	return s
}

func (s *RuneSet) AddRange(lo, hi rune) *RuneSet {
	if hi < lo {
		lo, hi = hi, lo
	}
	s.ranges = append(s.ranges, RuneRange{lo, hi})
	s.normalize()
	return s
}

func (s *RuneSet) normalize() {
	if len(s.ranges) < 2 {
		return
	}

	sort.Slice(s.ranges, func(i, j int) bool {
		return s.ranges[i].Lo < s.ranges[j].Lo
	})
	merged := s.ranges[:1]
	for _, r := range s.ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
		} else {
			merged = append(merged, r)
		}
	}
	s.ranges = merged
}

func (s *RuneSet) Contains(r rune) bool {
	lo, hi := 0, len(s.ranges)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		switch {
		case r < s.ranges[mid].Lo:
			hi = mid - 1
		case r > s.ranges[mid].Hi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

func (s *RuneSet) IsEmpty() bool {
	return len(s.ranges) == 0
}

func (s *RuneSet) Ranges() []RuneRange {
	result := make([]RuneRange, len(s.ranges))
	copy(result, s.ranges)
	return result
}

func (s *RuneSet) Copy() *RuneSet {
	return &RuneSet{ranges: s.Ranges()}
}

// Union returns a new set containing every rune of s and t.
// Both inputs are left unchanged.
func (s *RuneSet) Union(t *RuneSet) *RuneSet {
	result := s.Copy()
	result.ranges = append(result.ranges, t.ranges...)
	result.normalize()
	return result
}

// Subtract returns a new set containing the runes of s not present in t.
func (s *RuneSet) Subtract(t *RuneSet) *RuneSet {
	result := &RuneSet{}
	for _, r := range s.ranges {
		lo := r.Lo
		for _, cut := range t.ranges {
			if cut.Hi < lo {
				continue
			}
			if cut.Lo > r.Hi {
				break
			}
			if cut.Lo > lo {
				result.ranges = append(result.ranges, RuneRange{lo, cut.Lo - 1})
			}
			if cut.Hi >= r.Hi {
				lo = r.Hi + 1
				break
			}
			lo = cut.Hi + 1
		}
		if lo <= r.Hi {
			result.ranges = append(result.ranges, RuneRange{lo, r.Hi})
		}
	}
	result.normalize()
	return result
}

// String renders the set body in the bracketed character-set syntax
// used by the langdef text format, without the enclosing brackets.
func (s *RuneSet) String() string {
	var b strings.Builder
	for _, r := range s.ranges {
		b.WriteString(escapeSetRune(r.Lo))
		if r.Hi > r.Lo {
			if r.Hi > r.Lo+1 {
				b.WriteByte('-')
			}
			b.WriteString(escapeSetRune(r.Hi))
		}
	}
	return b.String()
}

func escapeSetRune(r rune) string {
	switch r {
	case '\\', ']', '^', '-':
		return "\\" + string(r)
	case '\n':
		return "\\n"
	case '\r':
		return "\\r"
	case '\t':
		return "\\t"
	}
	if r < 0x20 {
		return fmt.Sprintf("\\u%04x", r)
	}
	return string(r)
}
