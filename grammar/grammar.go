// Package grammar compiles named rules built from the clause algebra into
// a closed clause graph ready for matching: precedence groups are rewritten
// into fall-through chains, structurally equal clauses are hash-consed,
// rule references are substituted, and every clause receives a topological
// rank, a zero-width flag, and its seed-parent set.
package grammar

import (
	"strconv"
	"strings"

	"github.com/pikalang/pika/clause"
)

// Assoc is the declared associativity of a precedence-tagged rule.
type Assoc int

const (
	NonAssoc Assoc = iota
	Left
	Right
)

func (a Assoc) String() string {
	switch a {
	case Left:
		return "L"
	case Right:
		return "R"
	}
	return ""
}

// Rule is a named entry point into the clause graph. Rules sharing a name
// and declaring distinct precedence values form a precedence group.
type Rule struct {
	Name string
	// Prec is the precedence level, or -1 for an untagged rule.
	Prec  int
	Assoc Assoc
	// Label is the AST label of the rule root edge, taken from a transient
	// clause.Label wrapper passed as the root.
	Label  string
	Clause *clause.Clause
}

// NewRule creates an untagged rule. A clause.Label wrapper passed as root
// is consumed: its label becomes the rule's root edge label.
func NewRule(name string, c *clause.Clause) *Rule {
	r := &Rule{Name: name, Prec: -1, Clause: c}
	if c != nil && c.Kind == clause.KindLabel {
		r.Label = c.Text
		r.Clause = c.Children[0].Clause
	}
	return r
}

// NewPrecRule creates a precedence-tagged rule. prec must be non-negative.
func NewPrecRule(name string, prec int, assoc Assoc, c *clause.Clause) *Rule {
	r := NewRule(name, c)
	r.Prec = prec
	r.Assoc = assoc
	return r
}

// Render returns the rule in the langdef text syntax.
func (r *Rule) Render() string {
	var b strings.Builder
	b.WriteString(r.Name)
	// Rewritten precedence group members already carry the tag in the name.
	if r.Prec >= 0 && !strings.ContainsRune(r.Name, '[') {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(r.Prec))
		if r.Assoc != NonAssoc {
			b.WriteByte(',')
			b.WriteString(r.Assoc.String())
		}
		b.WriteByte(']')
	}
	b.WriteString(" <- ")
	b.WriteString(clause.Child{Label: r.Label, Clause: r.Clause}.String())
	b.WriteByte(';')
	return b.String()
}

// Warning is a non-fatal grammar-authoring diagnostic.
type Warning struct {
	Clause  *clause.Clause
	Message string
}

// Grammar is the compiled artifact. It exclusively owns its clauses: rule
// clauses are deep-copied on compilation, so the input rules can be reused
// or discarded freely.
type Grammar struct {
	// Clauses lists every reachable clause in topological order: terminals
	// first, then composites, children before parents along non-cyclic edges.
	// Clauses[i].Idx == i.
	Clauses []*clause.Clause

	// Rules lists the rules after precedence rewriting; members of a
	// precedence group appear renamed to "name[prec]".
	Rules []*Rule

	// Warnings collects authoring diagnostics found during compilation.
	Warnings []Warning

	ruleIndex map[string]*Rule
	terminals []*clause.Clause
	source    []*Rule
}

// Rule returns the rule with the given name. For a precedence group the
// plain group name resolves to the lowest-precedence member, the group's
// external entry point.
func (g *Grammar) Rule(name string) *Rule {
	return g.ruleIndex[name]
}

// NumClauses returns the number of clauses in the compiled graph.
func (g *Grammar) NumClauses() int {
	return len(g.Clauses)
}

// Terminals returns the terminal clauses (CharSeq, CharSet, Start) that the
// matcher seeds at every input position. Nothing is not included.
func (g *Grammar) Terminals() []*clause.Clause {
	return g.terminals
}

// Render returns the whole grammar in the langdef text syntax, one rule per
// line. The rules are rendered as given to Compile, before precedence
// rewriting and reference substitution, so the result recompiles to an
// equivalent grammar: precedence groups come back as "name[prec,assoc]"
// declarations, not as their expanded fall-through chains.
func (g *Grammar) Render() string {
	var b strings.Builder
	for _, r := range g.source {
		b.WriteString(r.Render())
		b.WriteByte('\n')
	}
	return b.String()
}

// Compile turns a set of rules into a Grammar. It never returns a partial
// grammar: any rule or reference problem aborts compilation. Non-fatal
// authoring diagnostics are collected in Grammar.Warnings.
func Compile(rules []*Rule) (*Grammar, error) {
	c := newCompilation(rules)

	e := c.checkRules()
	e = c.rewritePrecedence(e)
	e = c.indexRules(e)
	e = c.internClauses(e)
	e = c.resolveRefs(e)
	e = c.orderClauses(e)
	e = c.markZeroWidth(e)
	e = c.assignSeedParents(e)
	if e != nil {
		return nil, e
	}

	return c.grammar(), nil
}
