// Package clause defines the algebra of matching clauses used to build
// grammars. Constructors enforce well-formedness: a misused combinator
// returns nil instead of a clause, and the grammar compiler reports nil
// clauses with rule context. Clauses built here are plain trees; sharing,
// rule resolution, and matching metadata are added by the grammar package.
package clause

// Kind discriminates clause variants.
type Kind int

const (
	// KindCharSeq matches a literal string, optionally caseless.
	KindCharSeq Kind = iota
	// KindCharSet matches one rune in the inclusion set minus the exclusion set.
	// An empty inclusion set stands for the whole rune universe.
	KindCharSet
	// KindStart matches the empty string at input position 0 only.
	KindStart
	// KindNothing always matches the empty string.
	KindNothing
	// KindSeq matches its children consecutively.
	KindSeq
	// KindFirst matches the first child that matches (ordered choice).
	KindFirst
	// KindOneOrMore matches its child one or more times, greedily.
	KindOneOrMore
	// KindFollowedBy matches the empty string iff its child matches.
	KindFollowedBy
	// KindNotFollowedBy matches the empty string iff its child does not match.
	KindNotFollowedBy
	// KindRuleRef is a named reference to another rule, eliminated by the
	// grammar compiler; it never reaches the matcher.
	KindRuleRef
	// KindLabel is a transient wrapper created by Label. Constructors and the
	// rule builder consume it, moving the label onto the child edge.
	KindLabel
)

// Child is an edge in the clause graph. The label, if any, belongs to the
// edge, so one shared clause can carry different labels under different
// parents.
type Child struct {
	Label  string
	Clause *Clause
}

// Clause is a node in the grammar DAG. Idx, CanMatchZero, and SeedParents
// are zero until the grammar compiler fills them in.
type Clause struct {
	Kind     Kind
	Text     string // literal text for KindCharSeq, target name for KindRuleRef, label for KindLabel
	Caseless bool
	Include  *RuneSet // KindCharSet only
	Exclude  *RuneSet // KindCharSet only
	Children []Child

	// Filled in by the grammar compiler:

	// Idx is the dense topological rank; terminals come first and rank grows
	// toward rule roots.
	Idx int
	// CanMatchZero reports whether the clause can succeed consuming no input.
	CanMatchZero bool
	// SeedParents lists clauses to re-examine when this clause's memoized
	// match improves.
	SeedParents []*Clause

	str string
}

// IsTerminal reports whether the clause is scheduled as a terminal by the
// matcher. Nothing is deliberately not a terminal: seeding it at every
// position would flood the memo table with epsilon entries.
func (c *Clause) IsTerminal() bool {
	return c.Kind == KindCharSeq || c.Kind == KindCharSet || c.Kind == KindStart
}

// Lit creates a literal string clause. Empty text is a usage error.
func Lit(text string) *Clause {
	if text == "" {
		return nil
	}
	return &Clause{Kind: KindCharSeq, Text: text}
}

// LitCaseless creates a literal string clause matching case-insensitively.
func LitCaseless(text string) *Clause {
	if text == "" {
		return nil
	}
	return &Clause{Kind: KindCharSeq, Text: text, Caseless: true}
}

// Chars creates a character-set clause matching any rune of the set.
// An empty set matches nothing and is a usage error.
func Chars(set *RuneSet) *Clause {
	if set == nil || set.IsEmpty() {
		return nil
	}
	return &Clause{Kind: KindCharSet, Include: set.Copy()}
}

// NotChars creates a character-set clause matching any rune not in the set.
func NotChars(set *RuneSet) *Clause {
	if set == nil {
		return nil
	}
	return &Clause{Kind: KindCharSet, Exclude: set.Copy()}
}

// OneOf creates a character-set clause matching any rune of chars.
func OneOf(chars string) *Clause {
	return Chars(NewRuneSetFromString(chars))
}

// NoneOf creates a character-set clause matching any rune not in chars.
func NoneOf(chars string) *Clause {
	return NotChars(NewRuneSetFromString(chars))
}

// Range creates a character-set clause matching runes lo through hi inclusive.
func Range(lo, hi rune) *Clause {
	return Chars(NewRuneRange(lo, hi))
}

// AnyChar creates a character-set clause matching any single rune.
func AnyChar() *Clause {
	return NotChars(NewRuneSet())
}

// Invert swaps the inclusion and exclusion sets of a character-set clause.
// Inverting the universal set would produce an empty set and returns nil.
func Invert(c *Clause) *Clause {
	if c == nil || c.Kind != KindCharSet {
		return nil
	}

	if c.Include != nil && !c.Include.IsEmpty() {
		return NotChars(c.Include)
	}
	if c.Exclude == nil || c.Exclude.IsEmpty() {
		return nil
	}
	return Chars(c.Exclude)
}

// Union combines character-set clauses into one. Inputs are not modified;
// the result references copies of their sets. Mixed polarity is handled
// set-theoretically: the complement of the union of a negated set and any
// other sets is the intersection of the negated sets minus the positive ones.
func Union(clauses ...*Clause) *Clause {
	if len(clauses) == 0 {
		return nil
	}

	positive := NewRuneSet()
	var negative *RuneSet
	for _, c := range clauses {
		if c == nil || c.Kind != KindCharSet {
			return nil
		}

		if c.Include != nil && !c.Include.IsEmpty() {
			positive = positive.Union(c.Include)
			continue
		}
		if negative == nil {
			negative = c.Exclude.Copy()
		} else {
			// intersection: a ∩ b == a \ (a \ b)
			negative = negative.Subtract(negative.Subtract(c.Exclude))
		}
	}

	if negative == nil {
		return Chars(positive)
	}
	return NotChars(negative.Subtract(positive))
}

// Start creates the zero-width clause matching only at input position 0.
func Start() *Clause {
	return &Clause{Kind: KindStart}
}

// Nothing creates the zero-width clause that always matches (epsilon).
func Nothing() *Clause {
	return &Clause{Kind: KindNothing}
}

// Seq creates an ordered conjunction. Fewer than two children is a usage
// error, as is any nil child.
func Seq(children ...*Clause) *Clause {
	return composite(KindSeq, children)
}

// First creates an ordered choice with PEG semantics: the first matching
// child wins. Fewer than two children is a usage error.
func First(children ...*Clause) *Clause {
	return composite(KindFirst, children)
}

func composite(kind Kind, children []*Clause) *Clause {
	if len(children) < 2 {
		return nil
	}

	result := &Clause{Kind: kind, Children: make([]Child, len(children))}
	for i, c := range children {
		if c == nil {
			return nil
		}
		result.Children[i] = unwrap(c)
	}
	return result
}

// unwrap consumes a transient Label wrapper, turning it into a labeled edge.
func unwrap(c *Clause) Child {
	if c.Kind == KindLabel {
		return Child{Label: c.Text, Clause: c.Children[0].Clause}
	}
	return Child{Clause: c}
}

// OneOrMore creates a greedy repetition clause. Wrapping a clause that is
// already a repetition, a lookahead, Nothing, or Start is meaningless and
// returns the input unchanged.
func OneOrMore(c *Clause) *Clause {
	if c == nil {
		return nil
	}

	switch unwrap(c).Clause.Kind {
	case KindOneOrMore, KindNothing, KindFollowedBy, KindNotFollowedBy, KindStart:
		return c
	}
	return &Clause{Kind: KindOneOrMore, Children: []Child{unwrap(c)}}
}

// Optional matches c or the empty string: First(c, Nothing).
func Optional(c *Clause) *Clause {
	if c == nil {
		return nil
	}
	return First(c, Nothing())
}

// ZeroOrMore matches c any number of times: Optional(OneOrMore(c)).
func ZeroOrMore(c *Clause) *Clause {
	if c == nil {
		return nil
	}
	return Optional(OneOrMore(c))
}

// FollowedBy creates a zero-width positive lookahead. Applying it to
// Nothing, Start, or another lookahead is redundant and a usage error.
func FollowedBy(c *Clause) *Clause {
	if c == nil {
		return nil
	}

	switch unwrap(c).Clause.Kind {
	case KindNothing, KindStart, KindFollowedBy, KindNotFollowedBy:
		return nil
	}
	return &Clause{Kind: KindFollowedBy, Children: []Child{unwrap(c)}}
}

// NotFollowedBy creates a zero-width negative lookahead. Applying it to
// Nothing or Start (which always match where they are legal) or to a
// positive lookahead is a usage error; double negation rewrites to
// FollowedBy.
func NotFollowedBy(c *Clause) *Clause {
	if c == nil {
		return nil
	}

	inner := unwrap(c)
	switch inner.Clause.Kind {
	case KindNothing, KindStart, KindFollowedBy:
		return nil
	case KindNotFollowedBy:
		return &Clause{Kind: KindFollowedBy, Children: inner.Clause.Children}
	}
	return &Clause{Kind: KindNotFollowedBy, Children: []Child{inner}}
}

// RuleRef creates a named reference to a rule, resolved during grammar
// compilation.
func RuleRef(name string) *Clause {
	if name == "" {
		return nil
	}
	return &Clause{Kind: KindRuleRef, Text: name}
}

// Label attaches an AST label to c. The wrapper is transient: when the
// result is used as a rule root or as a child of another constructor, the
// label moves onto the referencing edge and the wrapper disappears.
// Labeling an already labeled clause replaces the label.
func Label(label string, c *Clause) *Clause {
	if c == nil || label == "" {
		return nil
	}

	return &Clause{Kind: KindLabel, Text: label, Children: []Child{unwrap(c)}}
}
