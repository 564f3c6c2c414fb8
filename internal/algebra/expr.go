// Package algebra is a small exact computer-algebra engine: it parses
// equation text, simplifies expressions to a canonical rational-function
// form, substitutes sub-expressions and solves low-degree equations.
//
// All values are immutable and every function is pure, so an Engine can be
// shared freely.
package algebra

import (
	"math/big"
	"sort"
	"strings"
)

// Expr is an algebraic term over symbols. Implementations are Number,
// Symbol, Sum, Product and Power.
type Expr interface {
	String() string
	isExpr()
}

// Number is an exact rational constant.
type Number struct {
	val *big.Rat
}

// Symbol is a named variable. Symbols compare and order by name.
type Symbol struct {
	Name string
}

// Sum is the addition of its terms. Subtraction is a term multiplied by -1.
type Sum struct {
	Terms []Expr
}

// Product is the multiplication of its factors. Division is a factor raised
// to a negative power.
type Product struct {
	Factors []Expr
}

// Power is Base raised to Exp.
type Power struct {
	Base Expr
	Exp  Expr
}

func (Number) isExpr()  {}
func (Symbol) isExpr()  {}
func (Sum) isExpr()     {}
func (Product) isExpr() {}
func (Power) isExpr()   {}

// NewNumber returns a Number holding a copy of r.
func NewNumber(r *big.Rat) Number {
	return Number{val: new(big.Rat).Set(r)}
}

// Int returns the integer constant n.
func Int(n int64) Number {
	return Number{val: new(big.Rat).SetInt64(n)}
}

// NewSymbol returns the symbol with the given name.
func NewSymbol(name string) Symbol {
	return Symbol{Name: name}
}

// Rat returns a copy of the number's value.
func (n Number) Rat() *big.Rat {
	return new(big.Rat).Set(n.rat())
}

func (n Number) rat() *big.Rat {
	if n.val == nil {
		return new(big.Rat)
	}
	return n.val
}

func (n Number) IsZero() bool { return n.rat().Sign() == 0 }

func (n Number) isOne() bool { return n.rat().Cmp(big.NewRat(1, 1)) == 0 }

func (n Number) isNegative() bool { return n.rat().Sign() < 0 }

func (n Number) String() string {
	return ratString(n.rat())
}

func (s Symbol) String() string { return s.Name }

func (s Sum) String() string {
	var b strings.Builder
	for i, t := range s.Terms {
		neg, abs := splitSign(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(wrap(abs, precSum+1))
	}
	return b.String()
}

func (p Product) String() string {
	coef := big.NewRat(1, 1)
	var numer, denom []Expr
	for _, f := range p.Factors {
		switch v := f.(type) {
		case Number:
			coef.Mul(coef, v.rat())
		case Power:
			if e, ok := v.Exp.(Number); ok && e.isNegative() {
				inv := new(big.Rat).Neg(e.rat())
				if inv.Cmp(big.NewRat(1, 1)) == 0 {
					denom = append(denom, v.Base)
				} else {
					denom = append(denom, Power{Base: v.Base, Exp: NewNumber(inv)})
				}
				continue
			}
			numer = append(numer, f)
		default:
			numer = append(numer, f)
		}
	}

	var b strings.Builder
	if coef.Sign() < 0 {
		b.WriteString("-")
		coef.Neg(coef)
	}

	var parts []string
	if !coef.Num().IsInt64() || coef.Num().Int64() != 1 || len(numer) == 0 {
		parts = append(parts, coef.Num().String())
	}
	for _, f := range numer {
		parts = append(parts, wrap(f, precProduct+1))
	}
	b.WriteString(strings.Join(parts, "*"))

	if !coef.IsInt() {
		denom = append([]Expr{NewNumber(new(big.Rat).SetInt(coef.Denom()))}, denom...)
	}
	switch len(denom) {
	case 0:
	case 1:
		b.WriteString("/")
		b.WriteString(wrap(denom[0], precProduct+1))
	default:
		b.WriteString("/(")
		ds := make([]string, len(denom))
		for i, d := range denom {
			ds[i] = wrap(d, precProduct+1)
		}
		b.WriteString(strings.Join(ds, "*"))
		b.WriteString(")")
	}
	return b.String()
}

func (p Power) String() string {
	if e, ok := p.Exp.(Number); ok && e.isNegative() {
		return Product{Factors: []Expr{p}}.String()
	}
	base := wrap(p.Base, precPower+1)
	if n, ok := p.Base.(Number); ok && (n.isNegative() || !n.rat().IsInt()) {
		base = "(" + n.String() + ")"
	}
	exp := wrap(p.Exp, precAtom)
	if n, ok := p.Exp.(Number); ok && !n.rat().IsInt() {
		exp = "(" + n.String() + ")"
	}
	return base + "**" + exp
}

const (
	precSum = iota + 1
	precProduct
	precPower
	precAtom
)

func precedence(e Expr) int {
	switch v := e.(type) {
	case Sum:
		if len(v.Terms) == 1 {
			return precedence(v.Terms[0])
		}
		return precSum
	case Product:
		return precProduct
	case Power:
		if n, ok := v.Exp.(Number); ok && n.isNegative() {
			return precProduct
		}
		return precPower
	case Number:
		if v.isNegative() || !v.rat().IsInt() {
			return precProduct
		}
		return precAtom
	default:
		return precAtom
	}
}

func wrap(e Expr, min int) string {
	if precedence(e) < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// splitSign reports whether a sum term prints with a leading minus and
// returns the term with that sign removed.
func splitSign(e Expr) (bool, Expr) {
	switch v := e.(type) {
	case Number:
		if v.isNegative() {
			return true, NewNumber(new(big.Rat).Neg(v.rat()))
		}
	case Product:
		if len(v.Factors) > 0 {
			if n, ok := v.Factors[0].(Number); ok && n.isNegative() {
				abs := new(big.Rat).Neg(n.rat())
				rest := append([]Expr(nil), v.Factors[1:]...)
				if abs.Cmp(big.NewRat(1, 1)) != 0 || len(rest) == 0 {
					rest = append([]Expr{NewNumber(abs)}, rest...)
				}
				if len(rest) == 1 {
					return true, rest[0]
				}
				return true, Product{Factors: rest}
			}
		}
	}
	return false, e
}

func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.Num().String() + "/" + r.Denom().String()
}

// FreeSymbols returns the distinct symbols occurring in e, sorted by name.
func FreeSymbols(e Expr) []Symbol {
	seen := make(map[string]struct{})
	collectSymbols(e, seen)
	return sortedSymbols(seen)
}

func collectSymbols(e Expr, seen map[string]struct{}) {
	switch v := e.(type) {
	case Symbol:
		seen[v.Name] = struct{}{}
	case Sum:
		for _, t := range v.Terms {
			collectSymbols(t, seen)
		}
	case Product:
		for _, f := range v.Factors {
			collectSymbols(f, seen)
		}
	case Power:
		collectSymbols(v.Base, seen)
		collectSymbols(v.Exp, seen)
	}
}

func sortedSymbols(seen map[string]struct{}) []Symbol {
	out := make([]Symbol, 0, len(seen))
	for name := range seen {
		out = append(out, Symbol{Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// add builds a flattened sum.
func add(terms ...Expr) Expr {
	var flat []Expr
	for _, t := range terms {
		if s, ok := t.(Sum); ok {
			flat = append(flat, s.Terms...)
			continue
		}
		flat = append(flat, t)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Sum{Terms: flat}
}

// mul builds a flattened product.
func mul(factors ...Expr) Expr {
	var flat []Expr
	for _, f := range factors {
		if p, ok := f.(Product); ok {
			flat = append(flat, p.Factors...)
			continue
		}
		flat = append(flat, f)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Product{Factors: flat}
}

func neg(e Expr) Expr {
	if n, ok := e.(Number); ok {
		return NewNumber(new(big.Rat).Neg(n.rat()))
	}
	return mul(Int(-1), e)
}
