package langdef

import (
	"strconv"

	"github.com/pikalang/pika/clause"
	"github.com/pikalang/pika/grammar"
	"github.com/pikalang/pika/source"
	"github.com/pikalang/pika/tree"
)

// buildRules walks the meta parse tree and reconstructs the rule set for the
// grammar compiler.
func buildRules(src *source.Source, root *tree.Node) ([]*grammar.Rule, error) {
	rules := make([]*grammar.Rule, 0, len(root.Children))
	for _, n := range root.Children {
		r, err := buildRule(src, n)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func buildRule(src *source.Source, n *tree.Node) (*grammar.Rule, error) {
	name := n.Find("IDENT").Text()
	cl, err := buildClause(src, n.Find("CLAUSE"))
	if err != nil {
		return nil, err
	}

	spec := n.Find("PRECSPEC")
	if spec == nil {
		return grammar.NewRule(name, cl), nil
	}

	numNode := spec.Find("NUM")
	prec, err := strconv.Atoi(numNode.Text())
	if err != nil {
		return nil, clauseError(src.Pos(numNode.Start), "invalid precedence %q", numNode.Text())
	}
	assoc := grammar.NonAssoc
	if a := spec.Find("ASSOC"); a != nil {
		if a.Text() == "L" {
			assoc = grammar.Left
		} else {
			assoc = grammar.Right
		}
	}
	return grammar.NewPrecRule(name, prec, assoc, cl), nil
}

func buildClause(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	switch n.Label {
	case "CLAUSE":
		return buildChoice(src, n)
	case "SEQ":
		return buildSeq(src, n)
	case "UNIT":
		return buildUnit(src, n)
	case "LABELED":
		return buildLabeled(src, n)
	case "SUFFIX":
		return buildSuffix(src, n)
	case "PRIM":
		return buildPrim(src, n)
	case "STR":
		return buildStr(src, n)
	case "CHARSET":
		return buildCharSet(src, n)
	}
	return nil, clauseError(src.Pos(n.Start), "unexpected %q node", n.Label)
}

func buildChoice(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	alts := make([]*clause.Clause, len(n.Children))
	for i, c := range n.Children {
		alt, err := buildClause(src, c)
		if err != nil {
			return nil, err
		}
		alts[i] = alt
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return clause.First(alts...), nil
}

func buildSeq(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	units := make([]*clause.Clause, len(n.Children))
	for i, c := range n.Children {
		unit, err := buildClause(src, c)
		if err != nil {
			return nil, err
		}
		units[i] = unit
	}
	if len(units) == 1 {
		return units[0], nil
	}
	return clause.Seq(units...), nil
}

func buildUnit(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	op := n.Find("op")
	if op == nil {
		return buildClause(src, n.Children[0])
	}

	inner, err := buildClause(src, n.Find("UNIT"))
	if err != nil {
		return nil, err
	}
	var cl *clause.Clause
	if op.Text() == "&" {
		cl = clause.FollowedBy(inner)
	} else {
		cl = clause.NotFollowedBy(inner)
	}
	if cl == nil {
		return nil, clauseError(src.Pos(n.Start), "lookahead %q applied to a clause that always matches", op.Text())
	}
	return cl, nil
}

func buildLabeled(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	name := n.Find("name")
	if name == nil {
		return buildClause(src, n.Children[0])
	}
	inner, err := buildClause(src, n.Find("SUFFIX"))
	if err != nil {
		return nil, err
	}
	return clause.Label(name.Text(), inner), nil
}

func buildSuffix(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	cl, err := buildClause(src, n.Children[0])
	if err != nil {
		return nil, err
	}
	for _, op := range n.Children[1:] {
		switch op.Text() {
		case "+":
			cl = clause.OneOrMore(cl)
		case "*":
			cl = clause.ZeroOrMore(cl)
		case "?":
			cl = clause.Optional(cl)
		}
	}
	return cl, nil
}

func buildPrim(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	c := n.Children[0]
	switch c.Label {
	case "ref":
		return clause.RuleRef(c.Text()), nil
	case "start":
		return clause.Start(), nil
	case "nothing":
		return clause.Nothing(), nil
	}
	return buildClause(src, c)
}

func buildStr(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	body := n.Find("body")
	text, err := unescape(src, body)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, clauseError(src.Pos(n.Start), "empty string literal")
	}
	if n.Find("ci") != nil {
		return clause.LitCaseless(text), nil
	}
	return clause.Lit(text), nil
}

func buildCharSet(src *source.Source, n *tree.Node) (*clause.Clause, error) {
	body := n.Find("body")
	set, err := parseSetBody(src, body)
	if err != nil {
		return nil, err
	}

	if n.Find("neg") != nil {
		return clause.NotChars(set), nil
	}
	if set.IsEmpty() {
		return nil, charSetError(src.Pos(n.Start), "empty character set")
	}
	return clause.Chars(set), nil
}

// setItem is one decoded rune of a character-set body; escaped runes lose
// any structural meaning, so an escaped dash is always a literal.
type setItem struct {
	r       rune
	escaped bool
}

func parseSetBody(src *source.Source, body *tree.Node) (*clause.RuneSet, error) {
	items, err := decodeSetItems(src, body)
	if err != nil {
		return nil, err
	}

	set := clause.NewRuneSet()
	for i := 0; i < len(items); i++ {
		lo := items[i]
		if i+2 < len(items) && items[i+1].r == '-' && !items[i+1].escaped {
			hi := items[i+2]
			if hi.r < lo.r {
				return nil, charSetError(src.Pos(body.Start), "reversed range %c-%c", lo.r, hi.r)
			}
			set.AddRange(lo.r, hi.r)
			i += 2
			continue
		}
		set.AddRange(lo.r, lo.r)
	}
	return set, nil
}

func decodeSetItems(src *source.Source, body *tree.Node) ([]setItem, error) {
	text := []rune(body.Text())
	var items []setItem
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			items = append(items, setItem{r: text[i]})
			continue
		}
		r, next, err := decodeEscape(src, body, text, i)
		if err != nil {
			return nil, err
		}
		items = append(items, setItem{r: r, escaped: true})
		i = next - 1
	}
	return items, nil
}

// unescape decodes the body of a string literal.
func unescape(src *source.Source, body *tree.Node) (string, error) {
	text := []rune(body.Text())
	var out []rune
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			out = append(out, text[i])
			continue
		}
		r, next, err := decodeEscape(src, body, text, i)
		if err != nil {
			return "", err
		}
		out = append(out, r)
		i = next - 1
	}
	return string(out), nil
}

// decodeEscape decodes the backslash escape starting at text[i] and returns
// the rune and the index just past the escape. A backslash before any
// non-letter rune yields that rune.
func decodeEscape(src *source.Source, body *tree.Node, text []rune, i int) (rune, int, error) {
	pos := src.Pos(body.Start + i)
	if i+1 >= len(text) {
		return 0, 0, escapeError(pos, string(text[i:]))
	}

	switch c := text[i+1]; c {
	case 'n':
		return '\n', i + 2, nil
	case 'r':
		return '\r', i + 2, nil
	case 't':
		return '\t', i + 2, nil
	case 'u':
		if i+6 > len(text) {
			return 0, 0, escapeError(pos, string(text[i:]))
		}
		var r rune
		for _, d := range text[i+2 : i+6] {
			v := hexDigit(d)
			if v < 0 {
				return 0, 0, escapeError(pos, string(text[i:i+6]))
			}
			r = r<<4 | rune(v)
		}
		return r, i + 6, nil
	default:
		if isLetterOrDigit(c) {
			return 0, 0, escapeError(pos, string(text[i:i+2]))
		}
		return c, i + 2, nil
	}
}

func hexDigit(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}

func isLetterOrDigit(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
