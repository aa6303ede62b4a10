// Package tree turns memoized matches into labeled syntax trees. Tree shape
// is determined by the labels on clause graph edges, not by the grammar
// structure: every labeled submatch becomes a node, and unlabeled submatches
// dissolve, splicing their own labeled descendants into the parent.
package tree

import (
	"github.com/pikalang/pika/clause"
	"github.com/pikalang/pika/parser"
	"github.com/pikalang/pika/source"
)

// Labeled is a child match together with the label of the edge leading to
// it, empty for an unlabeled edge.
type Labeled struct {
	Label string
	Match *parser.Match
}

// Submatches returns the child matches of m in input order. A sequence
// yields one entry per declared child, an ordered choice yields the chosen
// alternative, and a repetition yields its elements with the right-recursive
// chain flattened. Terminals and lookaheads have no submatches, and neither
// do the zero-length matches the matcher synthesizes for zero-width clauses
// it never evaluated, such as an untaken optional inside a sequence.
func Submatches(m *parser.Match) []Labeled {
	if len(m.Sub) == 0 {
		return nil
	}
	switch m.Clause.Kind {
	case clause.KindSeq:
		out := make([]Labeled, len(m.Sub))
		for i, sub := range m.Sub {
			out[i] = Labeled{Label: m.Clause.Children[i].Label, Match: sub}
		}
		return out

	case clause.KindFirst:
		return []Labeled{{Label: m.Clause.Children[m.Alt].Label, Match: m.Sub[0]}}

	case clause.KindOneOrMore:
		label := m.Clause.Children[0].Label
		var out []Labeled
		for {
			out = append(out, Labeled{Label: label, Match: m.Sub[0]})
			if len(m.Sub) < 2 {
				return out
			}
			m = m.Sub[1]
		}
	}
	return nil
}

// Node is one labeled syntax tree node. It borrows its text from the source
// it was extracted with, so it may outlive the memo table but not the source.
type Node struct {
	Label    string
	Clause   *clause.Clause
	Start    int
	Len      int
	Children []*Node

	src *source.Source
}

// FromMatch builds the syntax tree rooted at m, labeling the root with the
// given label (typically the rule name the match was queried by).
func FromMatch(label string, m *parser.Match, src *source.Source) *Node {
	if m == nil {
		return nil
	}
	return &Node{
		Label:    label,
		Clause:   m.Clause,
		Start:    m.Start,
		Len:      m.Len,
		Children: childNodes(m, src),
		src:      src,
	}
}

func childNodes(m *parser.Match, src *source.Source) []*Node {
	var out []*Node
	for _, sub := range Submatches(m) {
		if sub.Label != "" {
			out = append(out, FromMatch(sub.Label, sub.Match, src))
		} else {
			out = append(out, childNodes(sub.Match, src)...)
		}
	}
	return out
}

// End returns the position one past the node's span.
func (n *Node) End() int {
	return n.Start + n.Len
}

// Text returns the matched input slice.
func (n *Node) Text() string {
	return n.src.Text(n.Start, n.Len)
}

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Find returns the first direct child with the given label, or nil.
func (n *Node) Find(label string) *Node {
	for _, c := range n.Children {
		if c.Label == label {
			return c
		}
	}
	return nil
}
