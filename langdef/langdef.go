/*
Package langdef compiles grammar descriptions written in a small text format
into grammars, using the library itself as the implementation: the format's
own meta-grammar is built with the clause algebra, matched with the parser,
and walked with the tree package to reconstruct rules for the grammar
compiler.

The format is one rule per declaration:

	name <- clause ;
	name[prec] <- clause ;
	name[prec,assoc] <- clause ;

where assoc is L or R. Clauses are composed of alternation ("a / b"),
juxtaposition sequences ("a b c"), postfix repetition and option
("a+", "a*", "a?"), prefix lookahead ("&a", "!a"), AST labels ("label:a"),
string literals ('...' or "...", with an optional ~ suffix for caseless
matching), bracketed character sets ("[a-z_]", negated "[^0-9]", "[^]" for
any rune), "^" for the start of input, "()" for the empty string, and rule
names. Literals and set bodies understand \n, \r, \t, \uXXXX, and
backslash-escaped punctuation. Whitespace is insignificant between tokens
and "#" comments run to the end of the line.
*/
package langdef

import (
	"github.com/pikalang/pika/clause"
	"github.com/pikalang/pika/grammar"
	"github.com/pikalang/pika/parser"
	"github.com/pikalang/pika/source"
	"github.com/pikalang/pika/tree"
)

var meta *grammar.Grammar

func init() {
	g, err := grammar.Compile(metaRules())
	if err != nil {
		panic("langdef: meta-grammar: " + err.Error())
	}
	meta = g
}

// ref is a rule reference whose match becomes a named node of the meta
// parse tree. References in parsed grammar texts stay unlabeled; tree shape
// there is controlled by explicit label: prefixes only.
func ref(name string) *clause.Clause {
	return clause.Label(name, clause.RuleRef(name))
}

func metaRules() []*grammar.Rule {
	ws := clause.RuleRef("WSC")
	escape := func() *clause.Clause {
		return clause.Seq(clause.Lit("\\"), clause.AnyChar())
	}
	letter := clause.Union(clause.Range('A', 'Z'), clause.Range('a', 'z'), clause.OneOf("_"))
	alnum := clause.Union(letter, clause.Range('0', '9'))

	strAlt := func(quote string, bodyChar *clause.Clause) *clause.Clause {
		return clause.Seq(
			clause.Lit(quote),
			clause.Label("body", clause.ZeroOrMore(bodyChar)),
			clause.Lit(quote),
			clause.Optional(clause.Label("ci", clause.Lit("~"))),
			ws)
	}

	return []*grammar.Rule{
		grammar.NewRule("GRAMMAR", clause.Seq(
			clause.Start(), ws, clause.OneOrMore(ref("RULE")))),

		grammar.NewRule("RULE", clause.Seq(
			ref("IDENT"), ws,
			clause.Optional(ref("PRECSPEC")),
			clause.Lit("<-"), ws,
			ref("CLAUSE"),
			clause.Lit(";"), ws)),

		grammar.NewRule("PRECSPEC", clause.Seq(
			clause.Lit("["), ws,
			ref("NUM"), ws,
			clause.Optional(clause.Seq(clause.Lit(","), ws, ref("ASSOC"), ws)),
			clause.Lit("]"), ws)),

		grammar.NewRule("NUM", clause.OneOrMore(clause.Range('0', '9'))),
		grammar.NewRule("ASSOC", clause.OneOf("LR")),

		grammar.NewRule("CLAUSE", clause.Seq(
			ref("SEQ"),
			clause.ZeroOrMore(clause.Seq(clause.Lit("/"), ws, ref("SEQ"))))),

		grammar.NewRule("SEQ", clause.OneOrMore(ref("UNIT"))),

		grammar.NewRule("UNIT", clause.First(
			clause.Seq(clause.Label("op", clause.OneOf("&!")), ws, ref("UNIT")),
			ref("LABELED"))),

		grammar.NewRule("LABELED", clause.First(
			clause.Seq(clause.Label("name", clause.RuleRef("IDENT")), clause.Lit(":"), ws, ref("SUFFIX")),
			ref("SUFFIX"))),

		grammar.NewRule("SUFFIX", clause.Seq(
			ref("PRIM"),
			clause.ZeroOrMore(clause.Seq(clause.Label("op", clause.OneOf("+*?")), ws)))),

		grammar.NewRule("PRIM", clause.First(
			clause.Seq(clause.Label("ref", clause.RuleRef("IDENT")), ws),
			ref("STR"),
			ref("CHARSET"),
			clause.Seq(clause.Label("start", clause.Lit("^")), ws),
			clause.Seq(clause.Label("nothing", clause.Seq(clause.Lit("("), ws, clause.Lit(")"))), ws),
			clause.Seq(clause.Lit("("), ws, ref("CLAUSE"), clause.Lit(")"), ws))),

		grammar.NewRule("STR", clause.First(
			strAlt("'", clause.First(escape(), clause.NoneOf("'\\"))),
			strAlt("\"", clause.First(escape(), clause.NoneOf("\"\\"))))),

		grammar.NewRule("CHARSET", clause.Seq(
			clause.Lit("["),
			clause.Optional(clause.Label("neg", clause.Lit("^"))),
			clause.Label("body", clause.ZeroOrMore(clause.First(escape(), clause.NoneOf("]\\")))),
			clause.Lit("]"), ws)),

		grammar.NewRule("IDENT", clause.Seq(letter, clause.ZeroOrMore(alnum))),

		grammar.NewRule("WSC", clause.ZeroOrMore(clause.First(
			clause.OneOf(" \t\r\n"),
			clause.Seq(clause.Lit("#"), clause.ZeroOrMore(clause.NoneOf("\n")))))),
	}
}

// ParseString compiles a grammar description. name identifies the text in
// error messages. All uncovered spans of the description are aggregated into
// a single syntax error before any rule is built.
func ParseString(name, content string) (*grammar.Grammar, error) {
	src := source.New(name, content)
	memo := parser.Parse(meta, src)

	if errs := memo.SyntaxErrors("RULE", "WSC"); len(errs) > 0 {
		return nil, syntaxError(src, errs)
	}
	top := memo.NonOverlapping("GRAMMAR")
	if len(top) != 1 || top[0].Start != 0 || top[0].Len != src.Len() {
		return nil, noGrammarError(src, len(top))
	}

	rules, err := buildRules(src, tree.FromMatch("GRAMMAR", top[0], src))
	if err != nil {
		return nil, err
	}
	return grammar.Compile(rules)
}
