package langdef

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikalang/pika"
	"github.com/pikalang/pika/grammar"
	"github.com/pikalang/pika/parser"
	"github.com/pikalang/pika/source"
	"github.com/pikalang/pika/tree"
)

func mustParse(t *testing.T, text string) *grammar.Grammar {
	t.Helper()
	g, e := ParseString("test.langdef", text)
	require.NoError(t, e)
	return g
}

func parseError(t *testing.T, text string) *pika.Error {
	t.Helper()
	_, e := ParseString("test.langdef", text)
	require.Error(t, e)
	pe, ok := e.(*pika.Error)
	require.True(t, ok, "unexpected error type: %T", e)
	return pe
}

func matchLen(g *grammar.Grammar, rule, input string) int {
	memo := parser.Parse(g, source.New("input", input))
	m := memo.BestMatch(g.Rule(rule).Clause, 0)
	if m == nil {
		return -1
	}
	return m.Len
}

func TestSimpleRule(t *testing.T) {
	g := mustParse(t, `A <- 'a'+;`)
	assert.Equal(t, 3, matchLen(g, "A", "aaa"))
	assert.Equal(t, -1, matchLen(g, "A", "b"))
}

func TestClauseSyntax(t *testing.T) {
	g := mustParse(t, `
		# all clause forms in one grammar
		MAIN  <- ^ 'ab'~ [0-9x-z]* WORD? (';' / ',') !'end' ();
		WORD  <- [a-f]+;
	`)
	assert.Equal(t, 6, matchLen(g, "MAIN", "Ab19z;"))
	assert.Equal(t, 6, matchLen(g, "MAIN", "aB0cd,"))
	assert.Equal(t, -1, matchLen(g, "MAIN", "ab;end"))
}

func TestEscapes(t *testing.T) {
	g := mustParse(t, `A <- '\tA\'' "x\"y";`)
	assert.Equal(t, 6, matchLen(g, "A", "\tA'x\"yz"))

	g = mustParse(t, `B <- [\t\-\]a]+;`)
	assert.Equal(t, 4, matchLen(g, "B", "\t-]a"))
}

func TestNegatedAndUniversalSets(t *testing.T) {
	g := mustParse(t, `A <- [^0-9]+; B <- [^]+;`)
	assert.Equal(t, 2, matchLen(g, "A", "ab1"))
	assert.Equal(t, 3, matchLen(g, "B", "a1\n"))
}

func TestPrecedenceClimbing(t *testing.T) {
	g := mustParse(t, `
		EXPR[0,L] <- l:EXPR op:'+' WSC r:EXPR;
		EXPR[1]   <- num:[0-9]+ WSC;
		WSC       <- [ ]*;
	`)

	src := source.New("input", "1 + 2 + 3")
	memo := parser.Parse(g, src)
	m := memo.BestMatch(g.Rule("EXPR").Clause, 0)
	require.NotNil(t, m)
	assert.Equal(t, src.Len(), m.Len)

	// Left associativity: ((1+2)+3).
	node := tree.FromMatch("EXPR", m, src)
	require.NotNil(t, node.Find("l"))
	assert.Equal(t, "3", strings.TrimSpace(node.Find("r").Text()))
	inner := node.Find("l")
	require.NotNil(t, inner.Find("op"))
	assert.Equal(t, "1", strings.TrimSpace(inner.Find("l").Text()))
	assert.Equal(t, "2", strings.TrimSpace(inner.Find("r").Text()))
}

func TestListExample(t *testing.T) {
	g := mustParse(t, `
		LIST <- '(' WS EXPR* WS ')';
		EXPR <- num:[0-9] WS;
		WS   <- [ ]*;
	`)

	src := source.New("input", "(1 2 3)")
	memo := parser.Parse(g, src)
	m := memo.BestMatch(g.Rule("LIST").Clause, 0)
	require.NotNil(t, m)
	assert.Equal(t, 7, m.Len)

	node := tree.FromMatch("LIST", m, src)
	require.Len(t, node.Children, 3)
	for i, want := range []struct {
		start int
		text  string
	}{{1, "1"}, {3, "2"}, {5, "3"}} {
		c := node.Children[i]
		assert.Equal(t, "num", c.Label)
		assert.Equal(t, want.start, c.Start)
		assert.Equal(t, 1, c.Len)
		assert.Equal(t, want.text, c.Text())
	}
}

// A grammar rendered to its canonical text and recompiled through the text
// format must accept the same inputs.
func TestSelfHostingRoundTrip(t *testing.T) {
	text := `
		LIST <- '(' WS ITEM* WS ')';
		ITEM <- num:[0-9]+ WS;
		WS   <- [ \t]*;
	`
	g1 := mustParse(t, text)
	rendered := g1.Render()
	g2, e := ParseString("rendered.langdef", rendered)
	require.NoError(t, e, "rendered form:\n%s", rendered)
	assert.Equal(t, g1.Render(), g2.Render())

	for _, input := range []string{"(1 22 3)", "()", "( 7 )", "(x)", "12"} {
		assert.Equalf(t, matchLen(g1, "LIST", input), matchLen(g2, "LIST", input),
			"input %q", input)
	}
}

// Precedence groups must survive the round trip as groups: the rendered
// form declares [prec,assoc] tags again instead of leaking the rewritten
// level names into clause bodies.
func TestSelfHostingPrecedence(t *testing.T) {
	text := `
		E[0,L] <- l:E op:'+' WSC r:E;
		E[1]   <- n:[0-9]+ WSC;
		WSC    <- [ ]*;
	`
	g1 := mustParse(t, text)
	rendered := g1.Render()
	g2, e := ParseString("rendered.langdef", rendered)
	require.NoError(t, e, "rendered form:\n%s", rendered)
	assert.Equal(t, g1.Render(), g2.Render())
	assert.Contains(t, rendered, "E[0,L] <-")

	for _, input := range []string{"1+2+3", "7", "1+", ""} {
		assert.Equalf(t, matchLen(g1, "E", input), matchLen(g2, "E", input),
			"input %q", input)
	}
	assert.Equal(t, 5, matchLen(g2, "E", "1+2+3"))
}

func TestSyntaxErrorAggregation(t *testing.T) {
	e := parseError(t, "A <- 'a'+; %% B <- 'b'; $$")
	assert.Equal(t, SyntaxError, e.Code)
	assert.Contains(t, e.Message, `"%%"`)
	assert.Contains(t, e.Message, `"$$"`)
	assert.Contains(t, e.Message, "2 syntax error(s)")
}

func TestNoGrammar(t *testing.T) {
	e := parseError(t, "  # comments only\n")
	assert.Equal(t, NoGrammarError, e.Code)

	e = parseError(t, "")
	assert.Equal(t, NoGrammarError, e.Code)
}

func TestBadClauses(t *testing.T) {
	assert.Equal(t, ClauseError, parseError(t, `A <- '';`).Code)
	assert.Equal(t, ClauseError, parseError(t, `A <- !();`).Code)
	assert.Equal(t, CharSetError, parseError(t, `A <- [];`).Code)
	assert.Equal(t, EscapeError, parseError(t, `A <- '\q';`).Code)
	assert.Equal(t, EscapeError, parseError(t, `A <- '\u00GG';`).Code)
	assert.Equal(t, CharSetError, parseError(t, `A <- [z-a];`).Code)
}

func TestCompileErrorsPropagate(t *testing.T) {
	e := parseError(t, `A <- B;`)
	assert.Equal(t, grammar.UnknownRuleError, e.Code)

	e = parseError(t, `A <- A;`)
	assert.Equal(t, grammar.SelfRefError, e.Code)
}

func TestErrorPosition(t *testing.T) {
	e := parseError(t, "A <- 'a'+;\nB <- ???;\n")
	assert.Equal(t, "test.langdef", e.SourceName)
	assert.Equal(t, 2, e.Line)
}
