package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuneSetMerge(t *testing.T) {
	s := NewRuneSet()
	s.AddRange('a', 'd')
	s.AddRange('f', 'h')
	assert.Len(t, s.Ranges(), 2)

	// Adjacent and overlapping ranges collapse.
	s.AddRange('e', 'e')
	assert.Len(t, s.Ranges(), 1)
	assert.Equal(t, []RuneRange{{'a', 'h'}}, s.Ranges())

	// Reversed bounds are normalized.
	r := NewRuneRange('z', 'x')
	assert.True(t, r.Contains('y'))
}

func TestRuneSetContains(t *testing.T) {
	s := NewRuneSetFromString("az09")
	assert.True(t, s.Contains('a'))
	assert.True(t, s.Contains('9'))
	assert.False(t, s.Contains('b'))
	assert.False(t, NewRuneSet().Contains('a'))
}

func TestRuneSetUnionSubtract(t *testing.T) {
	a := NewRuneRange('a', 'm')
	b := NewRuneRange('k', 'z')

	u := a.Union(b)
	assert.Equal(t, []RuneRange{{'a', 'z'}}, u.Ranges())
	// Inputs stay untouched.
	assert.Equal(t, []RuneRange{{'a', 'm'}}, a.Ranges())

	d := u.Subtract(NewRuneRange('e', 'g'))
	assert.Equal(t, []RuneRange{{'a', 'd'}, {'h', 'z'}}, d.Ranges())
	assert.True(t, u.Subtract(u).IsEmpty())
}

func TestRuneSetString(t *testing.T) {
	assert.Equal(t, "a-z", NewRuneRange('a', 'z').String())
	assert.Equal(t, "ab", NewRuneSetFromString("ab").String())
	assert.Equal(t, "09a-z", NewRuneRange('a', 'z').Union(NewRuneSetFromString("09")).String())

	// Structural punctuation is escaped so the body reparses.
	assert.Equal(t, `\-\]`, NewRuneSetFromString("-]").String())
	assert.Equal(t, `\\\^`, NewRuneSetFromString(`\^`).String())
	assert.Equal(t, `\t\n`, NewRuneSetFromString("\n\t").String())
}
