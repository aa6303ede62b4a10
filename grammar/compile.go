package grammar

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/pikalang/pika/clause"
)

type compilation struct {
	rules      []*Rule
	source     []*Rule // pristine copy of the input rules, kept for rendering
	alias      map[string]string // group name -> entry rule name
	entryNames []string
	index      map[string]*Rule
	warnings   []Warning

	byHash map[uint64][]*clause.Clause
	byPtr  map[*clause.Clause]*clause.Clause

	ordered   []*clause.Clause
	terminals []*clause.Clause
}

func newCompilation(rules []*Rule) *compilation {
	c := &compilation{
		rules:  make([]*Rule, len(rules)),
		alias:  make(map[string]string),
		index:  make(map[string]*Rule),
		byHash: make(map[uint64][]*clause.Clause),
		byPtr:  make(map[*clause.Clause]*clause.Clause),
	}

	// The grammar exclusively owns its clause graph, so every rule clause is
	// copied up front; callers may reuse their clause objects elsewhere.
	// A second, untouched copy survives precedence rewriting and reference
	// substitution to back Grammar.Render.
	memo := make(map[*clause.Clause]*clause.Clause)
	srcMemo := make(map[*clause.Clause]*clause.Clause)
	c.source = make([]*Rule, len(rules))
	for i, r := range rules {
		if r == nil {
			continue
		}
		cp := *r
		cp.Clause = copyClause(r.Clause, memo)
		c.rules[i] = &cp
		src := *r
		src.Clause = copyClause(r.Clause, srcMemo)
		c.source[i] = &src
	}
	return c
}

// copyClause clones a clause tree. With a non-nil memo the sharing structure
// is preserved; with a nil memo every occurrence becomes a fresh node, which
// the precedence rewriter needs to retarget individual self-references.
func copyClause(c *clause.Clause, memo map[*clause.Clause]*clause.Clause) *clause.Clause {
	if c == nil {
		return nil
	}
	if memo != nil {
		if done, ok := memo[c]; ok {
			return done
		}
	}

	out := &clause.Clause{Kind: c.Kind, Text: c.Text, Caseless: c.Caseless}
	if c.Include != nil {
		out.Include = c.Include.Copy()
	}
	if c.Exclude != nil {
		out.Exclude = c.Exclude.Copy()
	}
	if memo != nil {
		memo[c] = out
	}
	if len(c.Children) > 0 {
		out.Children = make([]clause.Child, len(c.Children))
		for i, ch := range c.Children {
			out.Children[i] = clause.Child{Label: ch.Label, Clause: copyClause(ch.Clause, memo)}
		}
	}
	return out
}

func (c *compilation) checkRules() error {
	if len(c.rules) == 0 {
		return noRulesError()
	}

	for _, r := range c.rules {
		if r == nil || r.Name == "" {
			return badRuleError("")
		}
		if r.Clause == nil || hasNilClause(r.Clause, map[*clause.Clause]bool{}) {
			return badRuleError(r.Name)
		}
	}
	return nil
}

func hasNilClause(c *clause.Clause, seen map[*clause.Clause]bool) bool {
	if seen[c] {
		return false
	}
	seen[c] = true
	for _, ch := range c.Children {
		if ch.Clause == nil || hasNilClause(ch.Clause, seen) {
			return true
		}
	}
	return false
}

// rewritePrecedence applies precedence climbing to every group of rules
// sharing a name: members are renamed to "name[prec]", every level but the
// highest falls through to the next one, and self-references are retargeted
// according to the declared associativity. The lowest level becomes the
// group's external entry point.
func (c *compilation) rewritePrecedence(e error) error {
	if e != nil {
		return e
	}

	names := make([]string, 0, len(c.rules))
	groups := make(map[string][]*Rule)
	for _, r := range c.rules {
		if _, has := groups[r.Name]; !has {
			names = append(names, r.Name)
		}
		groups[r.Name] = append(groups[r.Name], r)
	}

	out := make([]*Rule, 0, len(c.rules))
	for _, name := range names {
		group := groups[name]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}

		rewritten, e := c.rewriteGroup(name, group)
		if e != nil {
			return e
		}
		out = append(out, rewritten...)
	}

	c.rules = out
	return nil
}

func (c *compilation) rewriteGroup(name string, group []*Rule) ([]*Rule, error) {
	for _, r := range group {
		if r.Prec < 0 {
			if len(group) > 1 && groupHasPrec(group) {
				return nil, mixedPrecedenceError(name)
			}
			return nil, duplicateRuleError(name)
		}
	}

	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Prec < group[j].Prec
	})
	levelNames := make([]string, len(group))
	for i, r := range group {
		if i > 0 && r.Prec == group[i-1].Prec {
			return nil, duplicatePrecedenceError(name, r.Prec)
		}
		levelNames[i] = fmt.Sprintf("%s[%d]", name, r.Prec)
	}

	out := make([]*Rule, len(group))
	for i, r := range group {
		curr := levelNames[i]
		// Self-references at the highest level restart the whole group, so
		// "next" wraps around to the lowest precedence there.
		next := levelNames[(i+1)%len(group)]

		root := copyClause(r.Clause, nil)
		retargetSelfRefs(root, name, curr, next, r.Assoc)
		if i < len(group)-1 {
			root = fallThrough(root, levelNames[i+1])
		}
		out[i] = &Rule{Name: curr, Prec: r.Prec, Assoc: r.Assoc, Label: r.Label, Clause: root}
	}

	c.alias[name] = levelNames[0]
	c.entryNames = append(c.entryNames, levelNames[0])
	return out, nil
}

func groupHasPrec(group []*Rule) bool {
	for _, r := range group {
		if r.Prec >= 0 {
			return true
		}
	}
	return false
}

// retargetSelfRefs rewrites references to the group name inside one level.
// Left associativity binds the leftmost self-reference to the current level
// and the rest to the next one; right associativity mirrors that; without
// declared associativity every self-reference moves to the next level.
func retargetSelfRefs(root *clause.Clause, name, curr, next string, assoc Assoc) {
	var refs []*clause.Clause
	collectRefs(root, name, &refs)
	if len(refs) == 0 {
		return
	}

	for _, ref := range refs {
		ref.Text = next
	}
	switch assoc {
	case Left:
		refs[0].Text = curr
	case Right:
		refs[len(refs)-1].Text = curr
	}
}

func collectRefs(c *clause.Clause, name string, out *[]*clause.Clause) {
	if c.Kind == clause.KindRuleRef {
		if c.Text == name {
			*out = append(*out, c)
		}
		return
	}
	for _, ch := range c.Children {
		collectRefs(ch.Clause, name, out)
	}
}

// fallThrough chains a level to the next lower-binding one: First(own, next).
// When the level root is already an ordered choice the reference is appended
// as a last alternative, which is the same clause without the extra nesting.
func fallThrough(root *clause.Clause, next string) *clause.Clause {
	ref := clause.RuleRef(next)
	if root.Kind == clause.KindFirst {
		root.Children = append(root.Children, clause.Child{Clause: ref})
		return root
	}
	return clause.First(root, ref)
}

func (c *compilation) indexRules(e error) error {
	if e != nil {
		return e
	}

	for _, r := range c.rules {
		if _, has := c.index[r.Name]; has {
			return duplicateRuleError(r.Name)
		}
		c.index[r.Name] = r
	}
	return nil
}

// internClauses hash-conses the clause graph bottom-up, collapsing
// structurally identical subclauses to one shared node. The canonical
// printed form is the identity; an xxhash digest of it keys the table and
// string comparison settles collisions. Interning runs while rule
// references are still symbolic, so every clause has a finite form, and it
// caches that form for later rendering of the (possibly cyclic) resolved
// graph.
func (c *compilation) internClauses(e error) error {
	if e != nil {
		return e
	}

	for _, r := range c.rules {
		r.Clause = c.intern(r.Clause)
	}
	return nil
}

func (c *compilation) intern(cl *clause.Clause) *clause.Clause {
	if done, ok := c.byPtr[cl]; ok {
		return done
	}

	for i := range cl.Children {
		cl.Children[i].Clause = c.intern(cl.Children[i].Clause)
	}

	key := cl.String()
	h := xxhash.Sum64String(key)
	for _, cand := range c.byHash[h] {
		if cand.String() == key {
			c.byPtr[cl] = cand
			return cand
		}
	}
	c.byHash[h] = append(c.byHash[h], cl)
	c.byPtr[cl] = cl
	return cl
}

// resolveRefs substitutes every rule reference with the referenced rule's
// root clause, chasing multi-hop references. A reference to an undefined
// rule, a rule referencing only itself, and a cycle of pure references are
// errors; structural cycles through composite clauses are legal and handled
// by the topological ordering.
func (c *compilation) resolveRefs(e error) error {
	if e != nil {
		return e
	}

	for _, r := range c.rules {
		if r.Clause.Kind == clause.KindRuleRef {
			target, e := c.chase(r.Name, r.Clause.Text)
			if e != nil {
				return e
			}
			r.Clause = target
		}
	}

	visited := make(map[*clause.Clause]bool)
	for _, r := range c.rules {
		if e := c.substitute(r.Name, r.Clause, visited); e != nil {
			return e
		}
	}
	return nil
}

func (c *compilation) substitute(origin string, cl *clause.Clause, visited map[*clause.Clause]bool) error {
	if visited[cl] {
		return nil
	}
	visited[cl] = true

	for i := range cl.Children {
		ch := cl.Children[i].Clause
		if ch.Kind == clause.KindRuleRef {
			target, e := c.chase(origin, ch.Text)
			if e != nil {
				return e
			}
			cl.Children[i].Clause = target
			ch = target
		}
		if e := c.substitute(origin, ch, visited); e != nil {
			return e
		}
	}
	return nil
}

func (c *compilation) aliased(name string) string {
	if entry, has := c.alias[name]; has {
		return entry
	}
	return name
}

func (c *compilation) chase(origin, name string) (*clause.Clause, error) {
	var chain []string
	for {
		target := c.index[c.aliased(name)]
		if target == nil {
			return nil, unknownRuleError(origin, name)
		}
		if target.Clause.Kind != clause.KindRuleRef {
			return target.Clause, nil
		}

		next := target.Clause.Text
		if c.aliased(next) == c.aliased(name) {
			return nil, selfRefError(target.Name)
		}
		for _, seen := range chain {
			if seen == target.Name {
				return nil, refCycleError(append(chain, target.Name))
			}
		}
		chain = append(chain, target.Name)
		name = next
	}
}
