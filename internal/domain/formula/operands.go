package formula

import (
	"regexp"
	"strings"
)

// Variable is the only name a formula may reference.
const Variable = "gci"

var (
	operandPattern = regexp.MustCompile(`\$?(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?`)
	operandCleaner = strings.NewReplacer("$", "", ",", "")
)

// ExtractOperands returns every number in the message in order of
// appearance, with currency signs and thousands separators removed.
func ExtractOperands(message string) []string {
	found := operandPattern.FindAllString(message, -1)
	out := make([]string, 0, len(found))
	for _, raw := range found {
		cleaned := operandCleaner.Replace(raw)
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// Substitute replaces Variable in the formula with each operand in turn.
// Every pass starts from the original formula, so the last operand wins.
func Substitute(formula string, operands []string) string {
	expr := formula
	for _, op := range operands {
		expr = strings.ReplaceAll(formula, Variable, op)
	}
	return expr
}
