package grammar

import (
	"strings"

	"github.com/pikalang/pika"
)

// Error codes used by the grammar compiler:
const (
	NoRulesError = pika.GrammarErrors + iota
	BadRuleError
	DuplicateRuleError
	MixedPrecedenceError
	DuplicatePrecedenceError
	UnknownRuleError
	SelfRefError
	RefCycleError
)

func noRulesError() *pika.Error {
	return pika.FormatError(NoRulesError, "no rules given")
}

func badRuleError(name string) *pika.Error {
	if name == "" {
		return pika.FormatError(BadRuleError, "rule with empty name")
	}
	return pika.FormatError(BadRuleError, "invalid clause construction in rule %q", name)
}

func duplicateRuleError(name string) *pika.Error {
	return pika.FormatError(DuplicateRuleError, "rule %q defined more than once", name)
}

func mixedPrecedenceError(name string) *pika.Error {
	return pika.FormatError(MixedPrecedenceError, "all rules of precedence group %q must declare a precedence", name)
}

func duplicatePrecedenceError(name string, prec int) *pika.Error {
	return pika.FormatError(DuplicatePrecedenceError, "precedence %d declared twice in group %q", prec, name)
}

func unknownRuleError(origin, name string) *pika.Error {
	return pika.FormatError(UnknownRuleError, "rule %q references undefined rule %q", origin, name)
}

func selfRefError(name string) *pika.Error {
	return pika.FormatError(SelfRefError, "rule %q references only itself", name)
}

func refCycleError(names []string) *pika.Error {
	return pika.FormatError(RefCycleError, "rule reference cycle: "+strings.Join(names, " -> "))
}
