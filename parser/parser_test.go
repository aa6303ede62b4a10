package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikalang/pika/clause"
	"github.com/pikalang/pika/grammar"
	"github.com/pikalang/pika/source"
)

func parse(t *testing.T, input string, rules ...*grammar.Rule) *MemoTable {
	t.Helper()
	g, e := grammar.Compile(rules)
	require.NoError(t, e)
	return Parse(g, source.New("test", input))
}

func ruleMatch(t *MemoTable, name string, pos int) *Match {
	return t.BestMatch(t.Grammar().Rule(name).Clause, pos)
}

func TestLongestMatch(t *testing.T) {
	memo := parse(t, "aaa", grammar.NewRule("A", clause.OneOrMore(clause.Lit("a"))))

	m := ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	assert.Equal(t, 3, m.Len)
	assert.Equal(t, 2, ruleMatch(memo, "A", 1).Len)
	assert.Equal(t, 1, ruleMatch(memo, "A", 2).Len)
	assert.Nil(t, memo.BestMatch(memo.Grammar().Rule("A").Clause, 3))
}

func TestFirstAlternativeWins(t *testing.T) {
	memo := parse(t, "ab", grammar.NewRule("A", clause.First(clause.Lit("ab"), clause.Lit("a"))))

	m := ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Len)
	assert.Equal(t, 0, m.Alt)
}

func TestFirstTieBreak(t *testing.T) {
	// Both alternatives match with the same length; the declared order wins.
	memo := parse(t, "x", grammar.NewRule("A", clause.First(clause.OneOf("xy"), clause.Lit("x"))))

	m := ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	assert.Equal(t, 0, m.Alt)
	assert.Equal(t, clause.KindCharSet, m.Sub[0].Clause.Kind)
}

func TestSeqAndSubmatches(t *testing.T) {
	memo := parse(t, "a12", grammar.NewRule("A", clause.Seq(
		clause.Lit("a"), clause.OneOrMore(clause.Range('0', '9')))))

	m := ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	assert.Equal(t, 3, m.Len)
	require.Len(t, m.Sub, 2)
	assert.Equal(t, 0, m.Sub[0].Start)
	assert.Equal(t, 1, m.Sub[0].Len)
	assert.Equal(t, 1, m.Sub[1].Start)
	assert.Equal(t, 2, m.Sub[1].Len)
}

func TestStartAnchor(t *testing.T) {
	memo := parse(t, "aa", grammar.NewRule("A", clause.Seq(
		clause.Start(), clause.Lit("a"))))

	require.NotNil(t, ruleMatch(memo, "A", 0))
	assert.Nil(t, ruleMatch(memo, "A", 1))
}

func TestCaselessLiteral(t *testing.T) {
	memo := parse(t, "AbC", grammar.NewRule("A", clause.LitCaseless("abc")))
	m := ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	assert.Equal(t, 3, m.Len)
}

func TestCharSetExclusion(t *testing.T) {
	set := clause.Chars(clause.NewRuneRange('a', 'z'))
	set.Exclude = clause.NewRuneSetFromString("q")
	memo := parse(t, "aq", grammar.NewRule("A", set))

	require.NotNil(t, ruleMatch(memo, "A", 0))
	assert.Nil(t, ruleMatch(memo, "A", 1))
}

func TestZeroWidthMatches(t *testing.T) {
	// B? between literals: the zero-width path must not block the sequence.
	memo := parse(t, "ac", grammar.NewRule("A", clause.Seq(
		clause.Lit("a"),
		clause.Optional(clause.Lit("b")),
		clause.Lit("c"))))

	m := ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Len)
	assert.Equal(t, 0, m.Sub[1].Len)

	memo = parse(t, "abc", grammar.NewRule("A", clause.Seq(
		clause.Lit("a"),
		clause.Optional(clause.Lit("b")),
		clause.Lit("c"))))
	m = ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	assert.Equal(t, 3, m.Len)
	assert.Equal(t, 1, m.Sub[1].Len)
}

func TestPositiveLookahead(t *testing.T) {
	memo := parse(t, "ab", grammar.NewRule("A", clause.Seq(
		clause.FollowedBy(clause.Lit("ab")), clause.Lit("a"))))

	m := ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Len)
	assert.Nil(t, ruleMatch(memo, "A", 1))
}

func TestNegativeLookahead(t *testing.T) {
	// An integer is only an integer if no letter follows.
	word := grammar.NewRule("INT", clause.Seq(
		clause.OneOrMore(clause.Range('0', '9')),
		clause.NotFollowedBy(clause.Range('a', 'z'))))

	memo := parse(t, "12a", word)
	assert.Nil(t, ruleMatch(memo, "INT", 0))
	assert.Nil(t, ruleMatch(memo, "INT", 1))

	memo = parse(t, "12 ", word)
	m := ruleMatch(memo, "INT", 0)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Len)
}

func TestLeftRecursion(t *testing.T) {
	// E[0,L] <- E '+' E ; E[1] <- [0-9]+ parsed over "1+2+3" must grow the
	// match at position 0 through repeated reseeding to the full input.
	memo := parse(t, "1+2+3",
		grammar.NewPrecRule("E", 0, grammar.Left, clause.Seq(
			clause.RuleRef("E"), clause.Lit("+"), clause.RuleRef("E"))),
		grammar.NewPrecRule("E", 1, grammar.NonAssoc,
			clause.OneOrMore(clause.Range('0', '9'))),
	)

	m := ruleMatch(memo, "E", 0)
	require.NotNil(t, m)
	assert.Equal(t, 5, m.Len)

	// Left associativity: the left operand of the outermost sum is "1+2".
	require.Equal(t, clause.KindFirst, m.Clause.Kind)
	sum := m.Sub[0]
	require.Len(t, sum.Sub, 3)
	assert.Equal(t, 3, sum.Sub[0].Len)
	assert.Equal(t, 1, sum.Sub[2].Len)
}

func TestMatchesAreStable(t *testing.T) {
	// Submatch pointers must survive later memo updates: the arena never
	// moves records, and updates replace cells, not match objects.
	memo := parse(t, "aaaa", grammar.NewRule("A", clause.OneOrMore(clause.Lit("a"))))

	m := ruleMatch(memo, "A", 0)
	require.NotNil(t, m)
	require.Len(t, m.Sub, 2)
	tail := m.Sub[1]
	assert.Equal(t, 1, tail.Start)
	assert.Equal(t, 3, tail.Len)
	assert.Same(t, tail, ruleMatch(memo, "A", 1))
}

func TestEmptyInput(t *testing.T) {
	memo := parse(t, "", grammar.NewRule("A", clause.OneOrMore(clause.Lit("a"))))
	assert.Nil(t, ruleMatch(memo, "A", 0))
	assert.Empty(t, memo.MatchesFor("A"))
}
