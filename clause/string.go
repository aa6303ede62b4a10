package clause

import (
	"fmt"
	"strings"
)

// Printing precedence, lowest first. Used to decide where the canonical
// form needs parentheses so that it parses back to the same structure.
const (
	precFirst = iota
	precSeq
	precLookahead
	precSuffix
	precLabel
	precTerm
)

func precOf(c *Clause) int {
	switch c.Kind {
	case KindFirst:
		return precFirst
	case KindSeq:
		return precSeq
	case KindFollowedBy, KindNotFollowedBy:
		return precLookahead
	case KindOneOrMore:
		return precSuffix
	case KindCharSeq:
		if c.Caseless {
			return precSuffix
		}
		return precTerm
	case KindLabel:
		return precLabel
	}
	return precTerm
}

// String returns the canonical form of the clause in the langdef text
// syntax. The form doubles as the hash-consing key, so structurally equal
// clauses print identically. The result is cached; the grammar compiler
// relies on every clause being rendered before rule references are
// substituted, since the resolved graph may be cyclic.
func (c *Clause) String() string {
	if c.str != "" {
		return c.str
	}

	var s string
	switch c.Kind {
	case KindCharSeq:
		s = quoteLiteral(c.Text)
		if c.Caseless {
			s += "~"
		}
	case KindCharSet:
		if c.Include != nil && !c.Include.IsEmpty() {
			s = "[" + c.Include.String() + "]"
		} else if c.Exclude != nil {
			s = "[^" + c.Exclude.String() + "]"
		} else {
			s = "[^]"
		}
	case KindStart:
		s = "^"
	case KindNothing:
		s = "()"
	case KindSeq:
		parts := make([]string, len(c.Children))
		for i, ch := range c.Children {
			parts[i] = childString(ch, precLookahead)
		}
		s = strings.Join(parts, " ")
	case KindFirst:
		parts := make([]string, len(c.Children))
		for i, ch := range c.Children {
			parts[i] = childString(ch, precSeq)
		}
		s = strings.Join(parts, " / ")
	case KindOneOrMore:
		s = childString(c.Children[0], precLabel) + "+"
	case KindFollowedBy:
		s = "&" + childString(c.Children[0], precSuffix)
	case KindNotFollowedBy:
		s = "!" + childString(c.Children[0], precSuffix)
	case KindRuleRef:
		s = c.Text
	case KindLabel:
		s = c.Text + ":" + childString(c.Children[0], precTerm)
	}

	c.str = s
	return s
}

// String returns the canonical form of the edge, label included.
func (ch Child) String() string {
	return childString(ch, 0)
}

// childString renders an edge, parenthesizing the clause when its printed
// form would bind looser than the position requires.
func childString(ch Child, min int) string {
	if ch.Label == "" {
		return subString(ch.Clause, min)
	}

	s := ch.Label + ":" + subString(ch.Clause, precTerm)
	// A label binds looser than postfix repetition in the text syntax, so a
	// labeled edge under a repetition or lookahead must be parenthesized.
	if min >= precLabel {
		s = "(" + s + ")"
	}
	return s
}

func subString(c *Clause, min int) string {
	s := c.String()
	if precOf(c) < min {
		s = "(" + s + ")"
	}
	return s
}

func quoteLiteral(text string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range text {
		switch r {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, "\\u%04x", r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}
