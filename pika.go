/*
Package pika is a scannerless parsing library built on the pika algorithm:
a bottom-up, priority-driven, memoizing parser that computes the longest
match of every grammar clause at every input position in a single
right-to-left pass, then exposes those matches as labeled syntax trees.

Consists of subpackages:
  - clause: algebra of matching clauses (literals, character sets, sequences,
    ordered choice, repetition, lookahead) used to build grammars in code;
  - grammar: compiles a set of named, optionally precedence-tagged rules into
    a closed, topologically ordered, hash-consed clause graph;
  - parser: the matching engine and its memo table, plus match queries
    (per-rule matches, non-overlapping match covers, uncovered-span reports);
  - tree: extraction of labeled syntax trees from raw matches;
  - langdef: converts grammar descriptions written in a small text format to
    compiled grammars, using the library itself as the implementation;
  - source: input buffer with line/column lookup for diagnostics.

Typical usage is:

1. Describe a grammar, either programmatically with the clause and grammar
packages or as text parsed by langdef.

2. Run parser.Parse over an input source. Matching never fails: absence of a
match is an ordinary query result, and uncovered input spans are reported
through MemoTable.SyntaxErrors.

3. Extract syntax trees with the tree package; tree shape is controlled by
clause labels, not by grammar structure.
*/
package pika

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors = 1   // used by grammar
	LangDefErrors = 101 // used by langdef
)

// Error is the error type used by pika subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source text or 0.
	Line int

	// Col contains column number in source text or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error.
type SourcePos interface {
	// SourceName returns source name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
