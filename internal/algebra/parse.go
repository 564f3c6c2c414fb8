package algebra

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ErrParse is returned for malformed expression or equation text.
var ErrParse = errors.New("parse error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(input string) ([]token, error) {
	var toks []token
	rs := []rune(input)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			dot := false
			for i < len(rs) && (unicode.IsDigit(rs[i]) || (rs[i] == '.' && !dot)) {
				if rs[i] == '.' {
					dot = true
				}
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: string(rs[start:i]), pos: start})
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(rs) && (rs[i] == '_' || unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i]), pos: start})
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^()=", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrParse, r, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(rs)})
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(op string) bool {
	if t := p.peek(); t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

func (p *parser) unexpected() error {
	t := p.peek()
	if t.kind == tokEOF {
		return fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	return fmt.Errorf("%w: unexpected %q at offset %d", ErrParse, t.text, t.pos)
}

// ParseExpr parses a single expression such as "a*b + c".
func ParseExpr(text string) (Expr, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.unexpected()
	}
	return e, nil
}

// ParseEquation parses "<left> = <right>" with exactly one '='.
func ParseEquation(text string) (Equation, error) {
	toks, err := lex(text)
	if err != nil {
		return Equation{}, err
	}
	p := &parser{toks: toks}
	lhs, err := p.expr()
	if err != nil {
		return Equation{}, err
	}
	if !p.accept("=") {
		if p.peek().kind == tokEOF {
			return Equation{}, fmt.Errorf("%w: missing '='", ErrParse)
		}
		return Equation{}, p.unexpected()
	}
	rhs, err := p.expr()
	if err != nil {
		return Equation{}, err
	}
	if p.peek().kind != tokEOF {
		return Equation{}, p.unexpected()
	}
	return Equation{LHS: lhs, RHS: rhs}, nil
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for {
		switch {
		case p.accept("+"):
			t, err := p.term()
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
		case p.accept("-"):
			t, err := p.term()
			if err != nil {
				return nil, err
			}
			terms = append(terms, neg(t))
		default:
			return add(terms...), nil
		}
	}
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for {
		switch {
		case p.accept("*"):
			f, err := p.unary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, f)
		case p.accept("/"):
			f, err := p.unary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, reciprocal(f))
		default:
			return mul(factors...), nil
		}
	}
}

func (p *parser) unary() (Expr, error) {
	switch {
	case p.accept("-"):
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		return neg(e), nil
	case p.accept("+"):
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.accept("**") || p.accept("^") {
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Power{Base: base, Exp: exp}, nil
	}
	return base, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.peek()
	switch {
	case t.kind == tokNumber:
		p.next()
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %q at offset %d", ErrParse, t.text, t.pos)
		}
		return Number{val: r}, nil
	case t.kind == tokIdent:
		p.next()
		return Symbol{Name: t.text}, nil
	case t.kind == tokOp && t.text == "(":
		p.next()
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if !p.accept(")") {
			return nil, p.unexpected()
		}
		return e, nil
	}
	return nil, p.unexpected()
}

func reciprocal(e Expr) Expr {
	if n, ok := e.(Number); ok && !n.IsZero() {
		return Number{val: new(big.Rat).Inv(n.rat())}
	}
	return Power{Base: e, Exp: Int(-1)}
}
