package algebra

import (
	"math/big"
	"sort"
)

// Solve returns the solutions of eq for sym, or none when the equation is
// not linear or quadratic in sym. Quadratic roots with constant
// coefficients are returned in ascending order. Roots that make a
// denominator vanish are dropped.
func Solve(eq Equation, sym Symbol) ([]Expr, error) {
	f, err := toRatFunc(add(eq.LHS, neg(eq.RHS)))
	if err != nil {
		return nil, err
	}
	for _, a := range f.num.atoms() {
		if _, ok := a.syms[sym.Name]; ok && a.key != sym.Name {
			return nil, nil
		}
	}
	coeffs := f.num.coefficientsIn(sym.Name)
	degree := 0
	for d := range coeffs {
		if d > degree {
			degree = d
		}
	}
	coeff := func(d int) poly {
		if c, ok := coeffs[d]; ok {
			return c
		}
		return newPoly()
	}

	var roots []Expr
	switch degree {
	case 1:
		r, err := normalize(coeff(0).neg(), coeff(1))
		if err != nil {
			return nil, nil
		}
		roots = []Expr{r.expr()}
	case 2:
		roots = solveQuadratic(coeff(2), coeff(1), coeff(0))
	default:
		return nil, nil
	}

	den := polyExpr(f.den)
	out := make([]Expr, 0, len(roots))
	for _, r := range roots {
		d, err := toRatFunc(Substitute(den, sym, r))
		if err != nil || d.isZero() {
			continue
		}
		dup := false
		for _, o := range out {
			if o.String() == r.String() {
				dup = true
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out, nil
}

// solveQuadratic handles c2*x**2 + c1*x + c0 with either a vanishing
// constant term, a vanishing linear term, or constant coefficients.
func solveQuadratic(c2, c1, c0 poly) []Expr {
	allConst := c2.isConst() && c1.isConst() && c0.isConst()
	switch {
	case c0.isZero():
		r, err := normalize(c1.neg(), c2)
		if err != nil {
			return nil
		}
		return sortNumeric([]Expr{Int(0), r.expr()})
	case allConst:
		return constQuadratic(c2.constValue(), c1.constValue(), c0.constValue())
	case c1.isZero():
		q, err := normalize(c0.neg(), c2)
		if err != nil {
			return nil
		}
		root := Power{Base: q.expr(), Exp: NewNumber(big.NewRat(1, 2))}
		return []Expr{simplifyOr(neg(root)), simplifyOr(root)}
	}
	return nil
}

// constQuadratic solves a*x**2 + b*x + c = 0 over the reals.
func constQuadratic(a, b, c *big.Rat) []Expr {
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	if disc.Sign() < 0 {
		return nil
	}
	twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
	center := new(big.Rat).Quo(new(big.Rat).Neg(b), twoA)
	if root, ok := exactSqrt(disc); ok {
		off := new(big.Rat).Quo(root, twoA)
		lo := new(big.Rat).Sub(center, off)
		hi := new(big.Rat).Add(center, off)
		return sortNumeric([]Expr{NewNumber(lo), NewNumber(hi)})
	}
	scale := new(big.Rat).Inv(twoA)
	sq := Power{Base: NewNumber(disc), Exp: NewNumber(big.NewRat(1, 2))}
	minus := simplifyOr(add(NewNumber(center), mul(NewNumber(new(big.Rat).Neg(scale)), sq)))
	plus := simplifyOr(add(NewNumber(center), mul(NewNumber(scale), sq)))
	if scale.Sign() < 0 {
		return []Expr{plus, minus}
	}
	return []Expr{minus, plus}
}

func simplifyOr(e Expr) Expr {
	if s, err := Simplify(e); err == nil {
		return s
	}
	return e
}

// sortNumeric orders constant roots ascending and keeps symbolic roots after
// them in their original order.
func sortNumeric(roots []Expr) []Expr {
	sort.SliceStable(roots, func(i, j int) bool {
		a, aok := roots[i].(Number)
		b, bok := roots[j].(Number)
		switch {
		case aok && bok:
			return a.rat().Cmp(b.rat()) < 0
		case aok:
			return true
		}
		return false
	})
	return roots
}
