package langdef

import (
	"fmt"
	"strings"

	"github.com/pikalang/pika"
	"github.com/pikalang/pika/parser"
	"github.com/pikalang/pika/source"
)

// Error codes used by the langdef compiler:
const (
	SyntaxError = pika.LangDefErrors + iota
	NoGrammarError
	ClauseError
	EscapeError
	CharSetError
)

func syntaxError(src *source.Source, errs []parser.SyntaxError) *pika.Error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d syntax error(s) in grammar description", len(errs))
	for _, e := range errs {
		line, col := src.LineCol(e.Start)
		fmt.Fprintf(&b, "\n  line %d col %d: unexpected %q", line, col, e.Text)
	}
	return pika.FormatErrorPos(src.Pos(errs[0].Start), SyntaxError, b.String())
}

func noGrammarError(src *source.Source, matches int) *pika.Error {
	if matches == 0 {
		return pika.FormatError(NoGrammarError, "%s contains no grammar rules", src.Name())
	}
	return pika.FormatError(NoGrammarError,
		"%s did not reduce to a single grammar (%d partial matches)", src.Name(), matches)
}

func clauseError(pos source.Pos, msg string, params ...any) *pika.Error {
	return pika.FormatErrorPos(pos, ClauseError, msg, params...)
}

func escapeError(pos source.Pos, text string) *pika.Error {
	return pika.FormatErrorPos(pos, EscapeError, "invalid escape in %q", text)
}

func charSetError(pos source.Pos, msg string, params ...any) *pika.Error {
	return pika.FormatErrorPos(pos, CharSetError, msg, params...)
}
