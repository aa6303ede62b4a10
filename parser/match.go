package parser

import (
	"github.com/pikalang/pika/clause"
)

// Match is one memoized result: the longest known match of a clause at a
// position. Matches are allocated from the memo table's arena and stay valid
// until the table is discarded.
type Match struct {
	Clause *clause.Clause
	Start  int
	// Len is the matched length in runes. Zero-width clauses produce
	// zero-length matches.
	Len int
	// Alt is the index of the chosen alternative for an ordered choice,
	// zero for every other clause kind.
	Alt int
	// Sub holds the child matches: one per child for a sequence, the chosen
	// alternative for an ordered choice, and for a repetition the element
	// match optionally followed by the tail repetition match. Lookaheads and
	// terminals have none.
	Sub []*Match
}

// End returns the position one past the matched span.
func (m *Match) End() int {
	return m.Start + m.Len
}

const arenaBlockSize = 1024

// matchArena bulk-allocates match records in fixed-size blocks. Blocks are
// never reallocated, so returned pointers stay stable, and the whole arena
// is released at once with the memo table.
type matchArena struct {
	blocks [][]Match
}

func (a *matchArena) new(m Match) *Match {
	n := len(a.blocks)
	if n == 0 || len(a.blocks[n-1]) == arenaBlockSize {
		a.blocks = append(a.blocks, make([]Match, 0, arenaBlockSize))
		n++
	}
	b := &a.blocks[n-1]
	*b = append(*b, m)
	return &(*b)[len(*b)-1]
}
