// Package formula computes knowledge-base formulas against figures quoted in
// a chat message.
package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNoOperands means the message did not contain any number.
	ErrNoOperands = errors.New("no numeric operands in message")
	// ErrMalformed means the substituted formula is not valid arithmetic.
	ErrMalformed = errors.New("malformed formula expression")
)

// Result describes a successful evaluation.
type Result struct {
	Value      float64
	Operand    string
	Expression string
}

// Evaluate substitutes the message's figure into the formula and computes it,
// rounded to two decimals.
func Evaluate(formula, message string) (Result, error) {
	if strings.TrimSpace(formula) == "" {
		return Result{}, fmt.Errorf("%w: empty formula", ErrMalformed)
	}
	operands := ExtractOperands(message)
	if len(operands) == 0 {
		return Result{}, ErrNoOperands
	}
	expr := Substitute(formula, operands)
	value, err := Calculate(expr)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Value:      Round2(value),
		Operand:    operands[len(operands)-1],
		Expression: expr,
	}, nil
}

// Round2 rounds to two decimal places using the exact decimal value of v,
// breaking exact ties toward the even digit.
func Round2(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
