package grammar

import (
	"fmt"

	"github.com/pikalang/pika/clause"
	"github.com/pikalang/pika/internal/ints"
)

// orderClauses collects the clauses reachable from the rule roots and ranks
// them topologically: terminals first, then composites bottom-up. The graph
// may be cyclic after rule substitution, so cycle head clauses (the first
// clause of each cycle reached from a rule root) are ranked as extra roots,
// which breaks every cycle exactly once. The rank order guarantees that when
// the matcher processes a clause, every non-cyclic descendant already holds
// its final memo entry for the current position.
func (c *compilation) orderClauses(e error) error {
	if e != nil {
		return e
	}

	rank := make(map[*clause.Clause]int)
	var all []*clause.Clause
	var collect func(cl *clause.Clause)
	collect = func(cl *clause.Clause) {
		if _, seen := rank[cl]; seen {
			return
		}
		rank[cl] = len(all)
		all = append(all, cl)
		for _, ch := range cl.Children {
			collect(ch.Clause)
		}
	}
	for _, r := range c.rules {
		collect(r.Clause)
	}

	referenced := ints.NewSet()
	for _, cl := range all {
		for _, ch := range cl.Children {
			referenced.Add(rank[ch.Clause])
		}
	}

	onStack := ints.NewSet()
	finished := ints.NewSet()
	heads := ints.NewSet()
	var findHeads func(cl *clause.Clause)
	findHeads = func(cl *clause.Clause) {
		i := rank[cl]
		if onStack.Contains(i) {
			heads.Add(i)
			return
		}
		if finished.Contains(i) {
			return
		}
		onStack.Add(i)
		for _, ch := range cl.Children {
			findHeads(ch.Clause)
		}
		onStack.Remove(i)
		finished.Add(i)
	}
	for _, r := range c.rules {
		findHeads(r.Clause)
	}

	visited := ints.NewSet()
	var order []*clause.Clause
	take := func(cl *clause.Clause) {
		order = append(order, cl)
	}
	for _, cl := range all {
		if cl.IsTerminal() {
			visited.Add(rank[cl])
			take(cl)
		}
	}
	c.terminals = append([]*clause.Clause(nil), order...)

	var rankFrom func(cl *clause.Clause)
	rankFrom = func(cl *clause.Clause) {
		i := rank[cl]
		if visited.Contains(i) {
			return
		}
		visited.Add(i)
		for _, ch := range cl.Children {
			rankFrom(ch.Clause)
		}
		take(cl)
	}

	// Roots, in scheduling priority: clauses nothing references (rule roots
	// of unreferenced rules), precedence group entry points, cycle heads.
	for _, cl := range all {
		if !referenced.Contains(rank[cl]) {
			rankFrom(cl)
		}
	}
	for _, name := range c.entryNames {
		rankFrom(c.index[name].Clause)
	}
	for _, cl := range all {
		if heads.Contains(rank[cl]) {
			rankFrom(cl)
		}
	}
	// Safety sweep for anything reachable only through unranked cycles.
	for _, cl := range all {
		rankFrom(cl)
	}

	for i, cl := range order {
		cl.Idx = i
	}
	c.ordered = order
	return nil
}

// markZeroWidth computes the least fixpoint of the can-match-zero property
// and records authoring diagnostics that depend on it: an ordered choice
// whose non-final alternative can match zero characters hides all later
// alternatives, and a lookahead over a zero-width clause is degenerate.
func (c *compilation) markZeroWidth(e error) error {
	if e != nil {
		return e
	}

	for changed := true; changed; {
		changed = false
		for _, cl := range c.ordered {
			if !cl.CanMatchZero && zeroWidth(cl) {
				cl.CanMatchZero = true
				changed = true
			}
		}
	}

	for _, cl := range c.ordered {
		switch cl.Kind {
		case clause.KindFirst:
			for i, ch := range cl.Children[:len(cl.Children)-1] {
				if ch.Clause.CanMatchZero {
					c.warn(cl, fmt.Sprintf(
						"alternative %d of %s can match zero characters, hiding all later alternatives", i+1, cl))
				}
			}
		case clause.KindFollowedBy, clause.KindNotFollowedBy:
			if cl.Children[0].Clause.CanMatchZero {
				c.warn(cl, fmt.Sprintf("lookahead %s tests a clause that can match zero characters", cl))
			}
		}
	}
	return nil
}

func zeroWidth(cl *clause.Clause) bool {
	switch cl.Kind {
	case clause.KindNothing, clause.KindNotFollowedBy:
		return true
	case clause.KindSeq:
		for _, ch := range cl.Children {
			if !ch.Clause.CanMatchZero {
				return false
			}
		}
		return true
	case clause.KindFirst:
		for _, ch := range cl.Children {
			if ch.Clause.CanMatchZero {
				return true
			}
		}
		return false
	case clause.KindOneOrMore, clause.KindFollowedBy:
		return cl.Children[0].Clause.CanMatchZero
	}
	// CharSeq, CharSet, Start, and a rule reference that survived this far
	// all consume input or, for Start, anchor without epsilon semantics.
	return false
}

func (c *compilation) warn(cl *clause.Clause, message string) {
	c.warnings = append(c.warnings, Warning{Clause: cl, Message: message})
}

// assignSeedParents registers each clause as a seed parent of the children
// whose improved match can improve its own. For a sequence only the prefix
// up to and including the first child that must consume input matters: a
// later child starts at a position the sweep has already finalized, so its
// updates can never reseed the sequence at the current position. Negative
// lookaheads are evaluated on demand during lookup and never scheduled, so
// they register no seed parents.
func (c *compilation) assignSeedParents(e error) error {
	if e != nil {
		return e
	}

	for _, cl := range c.ordered {
		if cl.Kind == clause.KindNotFollowedBy {
			continue
		}

		n := len(cl.Children)
		if cl.Kind == clause.KindSeq {
			for i, ch := range cl.Children {
				n = i + 1
				if !ch.Clause.CanMatchZero {
					break
				}
			}
		}

		seen := make(map[*clause.Clause]bool, n)
		for _, ch := range cl.Children[:n] {
			if seen[ch.Clause] {
				continue
			}
			seen[ch.Clause] = true
			ch.Clause.SeedParents = append(ch.Clause.SeedParents, cl)
		}
	}
	return nil
}

func (c *compilation) grammar() *Grammar {
	g := &Grammar{
		Clauses:   c.ordered,
		Rules:     c.rules,
		Warnings:  c.warnings,
		ruleIndex: c.index,
		terminals: c.terminals,
		source:    c.source,
	}
	for group, entry := range c.alias {
		g.ruleIndex[group] = c.index[entry]
	}
	return g
}
