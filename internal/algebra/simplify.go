package algebra

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrUndefined is returned when an expression divides by zero.
	ErrUndefined = errors.New("undefined expression")
	// ErrTooComplex is returned when an intermediate polynomial exceeds
	// maxTerms terms or maxDegree total degree.
	ErrTooComplex = errors.New("expression too complex")
)

const (
	// maxExpandPower bounds integer powers that are expanded; larger ones
	// stay opaque.
	maxExpandPower = 64
	maxTerms       = 32
	maxDegree      = 64
)

// ratFunc is num/den in lowest terms. den is monic on its leading term.
type ratFunc struct {
	num, den poly
}

func constRat(r *big.Rat) ratFunc {
	return ratFunc{num: constPoly(r), den: constPoly(big.NewRat(1, 1))}
}

func (f ratFunc) isZero() bool { return f.num.isZero() }

func (f ratFunc) isConst() bool { return f.num.isConst() && f.den.isConst() }

func (f ratFunc) constValue() *big.Rat {
	return new(big.Rat).Quo(f.num.constValue(), f.den.constValue())
}

func normalize(num, den poly) (ratFunc, error) {
	if den.isZero() {
		return ratFunc{}, fmt.Errorf("%w: division by zero", ErrUndefined)
	}
	if err := checkSize(num); err != nil {
		return ratFunc{}, err
	}
	if err := checkSize(den); err != nil {
		return ratFunc{}, err
	}
	if hasFoldable(num) || hasFoldable(den) {
		return foldRadicals(num, den)
	}
	one := unitPoly()
	if num.isZero() {
		return ratFunc{num: newPoly(), den: one}, nil
	}
	if den.isConst() {
		return ratFunc{num: num.scale(new(big.Rat).Inv(den.constValue())), den: one}, nil
	}
	if q, ok := num.divExact(den); ok {
		return ratFunc{num: q, den: one}, nil
	}
	if !num.isConst() {
		if q, ok := den.divExact(num); ok {
			num, den = one, q
		}
	}
	if m := commonMonomial(num, den); len(m) > 0 {
		num, den = num.divMonomial(m), den.divMonomial(m)
	}
	if !num.isConst() && !den.isConst() {
		num, den = cancelCommon(num, den)
	}
	if den.isConst() {
		return ratFunc{num: num.scale(new(big.Rat).Inv(den.constValue())), den: one}, nil
	}
	lc := new(big.Rat).Inv(den.leading().coef)
	return ratFunc{num: num.scale(lc), den: den.scale(lc)}, nil
}

func (f ratFunc) add(o ratFunc) (ratFunc, error) {
	return normalize(f.num.mul(o.den).add(o.num.mul(f.den)), f.den.mul(o.den))
}

func (f ratFunc) mul(o ratFunc) (ratFunc, error) {
	return normalize(f.num.mul(o.num), f.den.mul(o.den))
}

func (f ratFunc) inv() (ratFunc, error) {
	return normalize(f.den, f.num)
}

func (f ratFunc) pow(n int) (ratFunc, error) {
	if n < 0 {
		g, err := f.inv()
		if err != nil {
			return ratFunc{}, err
		}
		return g.pow(-n)
	}
	num, err := powLimited(f.num, n)
	if err != nil {
		return ratFunc{}, err
	}
	den, err := powLimited(f.den, n)
	if err != nil {
		return ratFunc{}, err
	}
	return normalize(num, den)
}

// cancelCommon divides num and den by their polynomial gcd. When the gcd
// is too costly to compute the fraction is returned as is.
func cancelCommon(num, den poly) (poly, poly) {
	g, ok := polyGCD(num, den)
	if !ok || g.isConst() {
		return num, den
	}
	n, ok := num.divExact(g)
	if !ok {
		return num, den
	}
	d, ok := den.divExact(g)
	if !ok {
		return num, den
	}
	return n, d
}

func checkSize(p poly) error {
	if len(p.terms) > maxTerms {
		return fmt.Errorf("%w: %d terms", ErrTooComplex, len(p.terms))
	}
	for _, t := range p.terms {
		if d := t.mono.degree(); d > maxDegree {
			return fmt.Errorf("%w: degree %d", ErrTooComplex, d)
		}
	}
	return nil
}

// powLimited is p**n, failing as soon as a partial product is too large.
func powLimited(p poly, n int) (poly, error) {
	out := unitPoly()
	base := p
	for n > 0 {
		if n&1 == 1 {
			out = out.mul(base)
			if err := checkSize(out); err != nil {
				return poly{}, err
			}
		}
		n >>= 1
		if n > 0 {
			base = base.mul(base)
			if err := checkSize(base); err != nil {
				return poly{}, err
			}
		}
	}
	return out, nil
}

// foldExponent reports the integer exponent of base when f is an opaque
// power base**(p/q) raised to a multiple of q.
func foldExponent(f factor) (int, bool) {
	pw, ok := f.atom.expr.(Power)
	if !ok {
		return 0, false
	}
	e, ok := pw.Exp.(Number)
	if !ok || e.rat().IsInt() {
		return 0, false
	}
	k := new(big.Rat).Mul(e.rat(), big.NewRat(int64(f.exp), 1))
	if !k.IsInt() || !k.Num().IsInt64() {
		return 0, false
	}
	n := k.Num().Int64()
	if n < -maxExpandPower || n > maxExpandPower {
		return 0, false
	}
	return int(n), true
}

func hasFoldable(p poly) bool {
	for _, t := range p.terms {
		for _, f := range t.mono {
			if _, ok := foldExponent(f); ok {
				return true
			}
		}
	}
	return false
}

// foldRadicals rewrites (b**(p/q))**(k*q) as b**(k*p) in num and den and
// renormalizes the quotient.
func foldRadicals(num, den poly) (ratFunc, error) {
	n, err := foldPoly(num)
	if err != nil {
		return ratFunc{}, err
	}
	d, err := foldPoly(den)
	if err != nil {
		return ratFunc{}, err
	}
	inv, err := d.inv()
	if err != nil {
		return ratFunc{}, err
	}
	return n.mul(inv)
}

func foldPoly(p poly) (ratFunc, error) {
	acc := constRat(new(big.Rat))
	for _, t := range p.sorted() {
		var rest monomial
		var folded []ratFunc
		for _, f := range t.mono {
			k, ok := foldExponent(f)
			if !ok {
				rest = append(rest, f)
				continue
			}
			base, err := toRatFunc(f.atom.expr.(Power).Base)
			if err != nil {
				return ratFunc{}, err
			}
			b, err := base.pow(k)
			if err != nil {
				return ratFunc{}, err
			}
			folded = append(folded, b)
		}
		rp := newPoly()
		rp.addTerm(term{mono: rest, coef: t.coef})
		tf := ratFunc{num: rp, den: unitPoly()}
		for _, b := range folded {
			var err error
			if tf, err = tf.mul(b); err != nil {
				return ratFunc{}, err
			}
		}
		var err error
		if acc, err = acc.add(tf); err != nil {
			return ratFunc{}, err
		}
	}
	return acc, nil
}

// toRatFunc converts an expression tree to canonical rational form.
func toRatFunc(e Expr) (ratFunc, error) {
	switch v := e.(type) {
	case Number:
		return constRat(v.rat()), nil
	case Symbol:
		return ratFunc{num: atomPoly(symbolAtom(v.Name)), den: constPoly(big.NewRat(1, 1))}, nil
	case Sum:
		acc := constRat(new(big.Rat))
		for _, t := range v.Terms {
			f, err := toRatFunc(t)
			if err != nil {
				return ratFunc{}, err
			}
			if acc, err = acc.add(f); err != nil {
				return ratFunc{}, err
			}
		}
		return acc, nil
	case Product:
		acc := constRat(big.NewRat(1, 1))
		for _, t := range v.Factors {
			f, err := toRatFunc(t)
			if err != nil {
				return ratFunc{}, err
			}
			if acc, err = acc.mul(f); err != nil {
				return ratFunc{}, err
			}
		}
		return acc, nil
	case Power:
		return powerRatFunc(v)
	}
	return ratFunc{}, fmt.Errorf("%w: unsupported expression %T", ErrUndefined, e)
}

func powerRatFunc(p Power) (ratFunc, error) {
	base, err := toRatFunc(p.Base)
	if err != nil {
		return ratFunc{}, err
	}
	exp, err := toRatFunc(p.Exp)
	if err != nil {
		return ratFunc{}, err
	}
	if exp.isConst() {
		k := exp.constValue()
		if k.IsInt() && k.Num().IsInt64() {
			n := k.Num().Int64()
			switch {
			case n == 0:
				return constRat(big.NewRat(1, 1)), nil
			case n >= -maxExpandPower && n <= maxExpandPower:
				return base.pow(int(n))
			}
		}
		if base.isConst() && k.Denom().Cmp(big.NewInt(2)) == 0 && k.Num().IsInt64() {
			if n := k.Num().Int64(); n >= -maxExpandPower && n <= maxExpandPower {
				if root, ok := exactSqrt(base.constValue()); ok {
					return constRat(root).pow(int(n))
				}
			}
		}
		if base.isZero() && k.Sign() > 0 {
			return constRat(new(big.Rat)), nil
		}
	}
	if base.isConst() && base.constValue().Cmp(big.NewRat(1, 1)) == 0 {
		return constRat(big.NewRat(1, 1)), nil
	}
	a := opaqueAtom(base.expr(), exp.expr())
	return ratFunc{num: atomPoly(a), den: constPoly(big.NewRat(1, 1))}, nil
}

// exactSqrt returns the rational square root of a non-negative rational
// when both numerator and denominator are perfect squares.
func exactSqrt(r *big.Rat) (*big.Rat, bool) {
	if r.Sign() < 0 {
		return nil, false
	}
	n, d := new(big.Int).Sqrt(r.Num()), new(big.Int).Sqrt(r.Denom())
	if new(big.Int).Mul(n, n).Cmp(r.Num()) != 0 || new(big.Int).Mul(d, d).Cmp(r.Denom()) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(n, d), true
}

// expr renders the rational function as a canonical tree.
func (f ratFunc) expr() Expr {
	num := polyExpr(f.num)
	if f.den.isConst() {
		return num
	}
	terms := f.den.sorted()
	if len(terms) == 1 {
		t := terms[0]
		factors := []Expr{num}
		for _, fa := range t.mono {
			factors = append(factors, Power{Base: fa.atom.expr, Exp: Int(-int64(fa.exp))})
		}
		return mul(factors...)
	}
	return mul(num, Power{Base: polyExpr(f.den), Exp: Int(-1)})
}

func polyExpr(p poly) Expr {
	terms := p.sorted()
	if len(terms) == 0 {
		return Int(0)
	}
	out := make([]Expr, len(terms))
	for i, t := range terms {
		out[i] = termExpr(t)
	}
	return add(out...)
}

func termExpr(t term) Expr {
	var factors []Expr
	if t.coef.Cmp(big.NewRat(1, 1)) != 0 || len(t.mono) == 0 {
		factors = append(factors, NewNumber(t.coef))
	}
	for _, f := range t.mono {
		if f.exp == 1 {
			factors = append(factors, f.atom.expr)
			continue
		}
		factors = append(factors, Power{Base: f.atom.expr, Exp: Int(int64(f.exp))})
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return Product{Factors: factors}
}

// Simplify returns the canonical form of e. It fails with ErrUndefined or
// ErrTooComplex.
func Simplify(e Expr) (Expr, error) {
	f, err := toRatFunc(e)
	if err != nil {
		return nil, err
	}
	return f.expr(), nil
}

// canonicalKey is the printed canonical form of e, or its raw form when e
// cannot be simplified.
func canonicalKey(e Expr) string {
	s, err := Simplify(e)
	if err != nil {
		return e.String()
	}
	return s.String()
}
