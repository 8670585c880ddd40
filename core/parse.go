package core

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse reads an expression in rendered form. It accepts what String
// produces, plus an unparenthesized top level ("a&b"), n-ary groups of one
// operator ("(a|b|c)"), the shorthand "~a" and arbitrary whitespace between
// tokens. Different binary operators may not share a group.
func Parse(text string) (Expression, error) {
	p := &parser{src: text}
	p.skipSpace()
	if p.done() {
		return nil, fmt.Errorf("%w: empty input", ErrParse)
	}
	e, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Expression {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.done() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: at offset %d: %s", ErrParse, p.pos, fmt.Sprintf(format, args...))
}

// parseGroup parses operand (op operand)* with a single binary op.
func (p *parser) parseGroup() (Expression, error) {
	first, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	operands := []Expression{first}
	var op *Operator
	for {
		p.skipSpace()
		c := p.peek()
		if c == 0 || c == ')' {
			break
		}
		next := operatorBySymbol(string(c))
		if next == nil || !next.IsBinary() {
			return nil, p.errorf("expected binary operator, found %q", c)
		}
		if op != nil && next != op {
			return nil, p.errorf("mixed operators %s and %s need parentheses", op, next)
		}
		op = next
		p.pos++
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	if op == nil {
		return first, nil
	}
	node, err := NewNode(op, operands...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return node, nil
}

func (p *parser) parseOperand() (Expression, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '(':
		p.pos++
		inner, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.pos++
		return inner, nil
	case c == Not.Symbol[0]:
		p.pos++
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return newNode(Not, []Expression{operand}), nil
	case strings.IndexByte(reservedChars, c) >= 0:
		return nil, p.errorf("unexpected %q", c)
	}
	start := p.pos
	for !p.done() {
		c := p.src[p.pos]
		if strings.IndexByte(reservedChars, c) >= 0 || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	leaf, err := NewLeaf(p.src[start:p.pos])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return leaf, nil
}
