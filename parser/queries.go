package parser

import (
	"sort"

	"github.com/pikalang/pika/clause"
)

// BestMatch returns the memoized match of cl at pos, or nil when the clause
// does not match there. pos may be src.Len(), the empty position past the
// last rune.
func (t *MemoTable) BestMatch(cl *clause.Clause, pos int) *Match {
	if cl == nil || pos < 0 || pos > t.src.Len() {
		return nil
	}
	return t.memo(cl, pos)
}

// MatchesFor returns every memoized match of the named rule, in ascending
// start position. An unknown rule name yields no matches.
func (t *MemoTable) MatchesFor(ruleName string) []*Match {
	r := t.grammar.Rule(ruleName)
	if r == nil {
		return nil
	}

	var out []*Match
	for pos := 0; pos <= t.src.Len(); pos++ {
		if m := t.memo(r.Clause, pos); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// NonOverlapping reduces the named rule's matches to a maximal disjoint
// subset by greedy interval scheduling: matches are taken in ascending start
// order and each one starting before the previously kept match's end is
// discarded.
func (t *MemoTable) NonOverlapping(ruleName string) []*Match {
	var out []*Match
	end := 0
	for _, m := range t.MatchesFor(ruleName) {
		if m.Start < end {
			continue
		}
		out = append(out, m)
		end = m.End()
	}
	return out
}

// SyntaxError is an input span no coverage rule matched, reported with its
// literal text.
type SyntaxError struct {
	Start int
	Len   int
	Text  string
}

// SyntaxErrors inverts the coverage of the given rules over the input: the
// non-overlapping matches of every named rule are merged into one interval
// union, and each gap in that union within [0, len) is returned as an error
// span. An input fully covered by the rules yields none.
func (t *MemoTable) SyntaxErrors(coverageRules ...string) []SyntaxError {
	var covered []*Match
	for _, name := range coverageRules {
		covered = append(covered, t.NonOverlapping(name)...)
	}
	sort.SliceStable(covered, func(i, j int) bool {
		return covered[i].Start < covered[j].Start
	})

	var out []SyntaxError
	pos := 0
	for _, m := range covered {
		if m.Start > pos {
			out = append(out, t.errorSpan(pos, m.Start))
		}
		if m.End() > pos {
			pos = m.End()
		}
	}
	if pos < t.src.Len() {
		out = append(out, t.errorSpan(pos, t.src.Len()))
	}
	return out
}

func (t *MemoTable) errorSpan(from, to int) SyntaxError {
	return SyntaxError{Start: from, Len: to - from, Text: t.src.Text(from, to-from)}
}
