// Package parser implements the bottom-up memoizing matcher: one
// right-to-left pass over the input computes the longest match of every
// grammar clause at every position. The resulting memo table answers match
// queries by clause or rule name, reduces a rule's matches to a maximal
// non-overlapping set, and reports the input spans no coverage rule matched.
package parser

import (
	"unicode"

	"github.com/pikalang/pika/clause"
	"github.com/pikalang/pika/grammar"
	"github.com/pikalang/pika/internal/pqueue"
	"github.com/pikalang/pika/source"
)

// MemoTable holds the complete matching result for one (grammar, input)
// pair: a dense table of the best match of each clause at each position.
// It is immutable once Parse returns.
type MemoTable struct {
	grammar *grammar.Grammar
	src     *source.Source
	cells   []*Match // (position * clause count) + topological rank
	arena   matchArena
}

// Parse matches every clause of g at every position of src and returns the
// filled memo table. It always runs to completion; an input the grammar
// cannot match anywhere yields a table without matches, not an error.
//
// Positions are processed from the end of the input backward, so every
// match at a later position is final before any clause at an earlier one is
// evaluated. Within a position a priority queue keyed by topological rank
// evaluates children before parents; whenever a stored match improves, the
// clause's seed parents re-enter the queue until the position is stable.
func Parse(g *grammar.Grammar, src *source.Source) *MemoTable {
	n := src.Len()
	t := &MemoTable{
		grammar: g,
		src:     src,
		cells:   make([]*Match, (n+1)*g.NumClauses()),
	}

	queue := pqueue.New(func(a, b *clause.Clause) bool { return a.Idx < b.Idx })
	for pos := n - 1; pos >= 0; pos-- {
		for _, term := range g.Terminals() {
			queue.Push(term)
		}
		for {
			cl, ok := queue.Pop()
			if !ok {
				break
			}
			t.update(cl, pos, t.evaluate(cl, pos), queue)
		}
	}
	return t
}

// Grammar returns the grammar the table was built for.
func (t *MemoTable) Grammar() *grammar.Grammar {
	return t.grammar
}

// Source returns the matched input.
func (t *MemoTable) Source() *source.Source {
	return t.src
}

// update stores a strictly longer match, or backstops a zero-length match
// for a clause that can match zero characters and has no entry yet, and in
// either case reschedules the clause's seed parents. An equal-length match
// never replaces the stored one, so the first match seen wins true ties.
func (t *MemoTable) update(cl *clause.Clause, pos int, m *Match, queue *pqueue.Queue[*clause.Clause]) {
	i := pos*t.grammar.NumClauses() + cl.Idx
	old := t.cells[i]
	switch {
	case m != nil && (old == nil || m.Len > old.Len):
		t.cells[i] = m
	case old == nil && cl.CanMatchZero:
		t.cells[i] = t.arena.new(Match{Clause: cl, Start: pos})
	default:
		return
	}

	for _, p := range cl.SeedParents {
		queue.Push(p)
	}
}

func (t *MemoTable) memo(cl *clause.Clause, pos int) *Match {
	return t.cells[pos*t.grammar.NumClauses()+cl.Idx]
}

// lookup resolves a child clause during evaluation: the memoized match if
// one exists, a synthesized zero-length match if the clause can match zero
// characters, else no match. Negative lookahead is the exception: it is
// non-monotone (a child match appearing later would flip its result), so it
// is never memoized or scheduled and is evaluated fresh on every lookup.
func (t *MemoTable) lookup(cl *clause.Clause, pos int) *Match {
	if cl.Kind == clause.KindNotFollowedBy {
		return t.evaluate(cl, pos)
	}
	if m := t.memo(cl, pos); m != nil {
		return m
	}
	if cl.CanMatchZero {
		return t.arena.new(Match{Clause: cl, Start: pos})
	}
	return nil
}

func (t *MemoTable) evaluate(cl *clause.Clause, pos int) *Match {
	switch cl.Kind {
	case clause.KindCharSeq:
		return t.matchLiteral(cl, pos)

	case clause.KindCharSet:
		if pos < t.src.Len() && charSetHas(cl, t.src.At(pos)) {
			return t.arena.new(Match{Clause: cl, Start: pos, Len: 1})
		}

	case clause.KindStart:
		if pos == 0 {
			return t.arena.new(Match{Clause: cl, Start: pos})
		}

	case clause.KindNothing:
		return t.arena.new(Match{Clause: cl, Start: pos})

	case clause.KindSeq:
		sub := make([]*Match, len(cl.Children))
		p := pos
		for i, ch := range cl.Children {
			m := t.lookup(ch.Clause, p)
			if m == nil {
				return nil
			}
			sub[i] = m
			p += m.Len
		}
		return t.arena.new(Match{Clause: cl, Start: pos, Len: p - pos, Sub: sub})

	case clause.KindFirst:
		for i, ch := range cl.Children {
			if m := t.lookup(ch.Clause, pos); m != nil {
				return t.arena.new(Match{Clause: cl, Start: pos, Len: m.Len, Alt: i, Sub: []*Match{m}})
			}
		}

	case clause.KindOneOrMore:
		m := t.lookup(cl.Children[0].Clause, pos)
		if m == nil {
			return nil
		}
		// A memoized tail extends the match right-recursively. A missing
		// tail still leaves a valid single-element match.
		if m.Len > 0 {
			if tail := t.memo(cl, pos+m.Len); tail != nil {
				return t.arena.new(Match{Clause: cl, Start: pos, Len: m.Len + tail.Len, Sub: []*Match{m, tail}})
			}
		}
		return t.arena.new(Match{Clause: cl, Start: pos, Len: m.Len, Sub: []*Match{m}})

	case clause.KindFollowedBy:
		if t.lookup(cl.Children[0].Clause, pos) != nil {
			return t.arena.new(Match{Clause: cl, Start: pos})
		}

	case clause.KindNotFollowedBy:
		if t.lookup(cl.Children[0].Clause, pos) == nil {
			return t.arena.new(Match{Clause: cl, Start: pos})
		}
	}
	return nil
}

func (t *MemoTable) matchLiteral(cl *clause.Clause, pos int) *Match {
	p := pos
	for _, r := range cl.Text {
		if p >= t.src.Len() {
			return nil
		}
		c := t.src.At(p)
		if cl.Caseless {
			if unicode.ToLower(c) != unicode.ToLower(r) {
				return nil
			}
		} else if c != r {
			return nil
		}
		p++
	}
	return t.arena.new(Match{Clause: cl, Start: pos, Len: p - pos})
}

func charSetHas(cl *clause.Clause, r rune) bool {
	if cl.Include != nil && !cl.Include.IsEmpty() {
		return cl.Include.Contains(r) && (cl.Exclude == nil || !cl.Exclude.Contains(r))
	}
	return cl.Exclude == nil || !cl.Exclude.Contains(r)
}
