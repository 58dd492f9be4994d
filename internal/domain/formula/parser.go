package formula

import (
	"fmt"
	"math"
	"strconv"
)

const maxNesting = 64

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind  tokenKind
	text  string
	value float64
	pos   int
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(expr) && (isDigit(expr[i]) || expr[i] == '.') {
				i++
			}
			text := expr[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q at %d", ErrMalformed, text, start)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: v, pos: start})
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrMalformed, string(c), i)
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(expr)})
	return tokens, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parser is a recursive-descent evaluator for
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type parser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if t.text == "*" {
			left *= right
			continue
		}
		if right == 0 {
			return 0, fmt.Errorf("%w: division by zero at %d", ErrMalformed, t.pos)
		}
		left /= right
	}
}

func (p *parser) unary() (float64, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "+" || t.text == "-") {
		if err := p.enter(t); err != nil {
			return 0, err
		}
		defer p.leave()
		p.next()
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if t.text == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.value, nil
	case tokLParen:
		if err := p.enter(t); err != nil {
			return 0, err
		}
		defer p.leave()
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return 0, fmt.Errorf("%w: missing ')' at %d", ErrMalformed, closing.pos)
		}
		return v, nil
	case tokEOF:
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrMalformed)
	default:
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrMalformed, t.text, t.pos)
	}
}

func (p *parser) enter(t token) error {
	p.depth++
	if p.depth > maxNesting {
		return fmt.Errorf("%w: nesting too deep at %d", ErrMalformed, t.pos)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// Calculate evaluates a purely arithmetic expression. Only numbers, the four
// basic operators, unary signs and parentheses are accepted.
func Calculate(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{tokens: tokens}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrMalformed, t.text, t.pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: result is not a finite number", ErrMalformed)
	}
	return v, nil
}
