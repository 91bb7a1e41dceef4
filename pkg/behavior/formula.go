package behavior

import (
	"strconv"
	"strings"
)

// Eval evaluates a rule's value formula against ctx. The grammar is kept
// intentionally minimal: an integer literal, a named field, or a single
// product of a field and a literal ("power * 2", "2 * power"). Any
// unrecognized token evaluates to zero rather than failing, so a typo in
// content lowers a magnitude instead of halting the encounter.
func Eval(formula string, ctx Context) int {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return 0
	}

	parts := strings.Split(formula, "*")
	switch len(parts) {
	case 1:
		return int(term(parts[0], ctx))
	case 2:
		return int(term(parts[0], ctx) * term(parts[1], ctx))
	}
	return 0
}

// term resolves one factor: a numeric literal or a context field.
func term(tok string, ctx Context) float64 {
	tok = strings.TrimSpace(tok)
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return n
	}
	v, _ := ctx.Field(tok)
	return v
}
