package algebra

import "math/big"

// gcdTermLimit bounds intermediate pseudo-remainders. Past it polyGCD gives
// up and the caller keeps the fraction unreduced.
const gcdTermLimit = 4 * maxTerms

// polyGCD returns the greatest common divisor of p and q with a leading
// coefficient of 1, using a primitive remainder sequence in the
// lowest-keyed atom and recursing into the coefficients. It reports false
// when the computation outgrows gcdTermLimit.
func polyGCD(p, q poly) (poly, bool) {
	switch {
	case p.isZero():
		return monic(q), true
	case q.isZero():
		return monic(p), true
	case p.isConst() || q.isConst():
		return unitPoly(), true
	}

	x := mainAtom(p, q)
	dp, dq := degreeIn(p, x.key), degreeIn(q, x.key)
	switch {
	case dp == 0:
		cq, ok := contentIn(q, x.key)
		if !ok {
			return poly{}, false
		}
		return polyGCD(p, cq)
	case dq == 0:
		cp, ok := contentIn(p, x.key)
		if !ok {
			return poly{}, false
		}
		return polyGCD(cp, q)
	}

	cp, ok := contentIn(p, x.key)
	if !ok {
		return poly{}, false
	}
	cq, ok := contentIn(q, x.key)
	if !ok {
		return poly{}, false
	}
	c, ok := polyGCD(cp, cq)
	if !ok {
		return poly{}, false
	}
	a, ok := p.divExact(cp)
	if !ok {
		return poly{}, false
	}
	b, ok := q.divExact(cq)
	if !ok {
		return poly{}, false
	}
	if dp < dq {
		a, b = b, a
	}

	for {
		r, ok := pseudoRem(a, b, x)
		if !ok {
			return poly{}, false
		}
		if r.isZero() {
			break
		}
		if degreeIn(r, x.key) == 0 {
			b = unitPoly()
			break
		}
		a = b
		if b, ok = primitivePart(r, x.key); !ok {
			return poly{}, false
		}
	}
	return monic(c.mul(b)), true
}

// pseudoRem is the pseudo-remainder of a by b as polynomials in x.
func pseudoRem(a, b poly, x atom) (poly, bool) {
	db := degreeIn(b, x.key)
	lb := b.coefficientsIn(x.key)[db]
	r := a
	for !r.isZero() {
		dr := degreeIn(r, x.key)
		if dr < db {
			break
		}
		lr := r.coefficientsIn(x.key)[dr]
		shift := lr.mulTerm(term{mono: atomPower(x, dr-db), coef: big.NewRat(1, 1)})
		r = r.mul(lb).sub(shift.mul(b))
		if len(r.terms) > gcdTermLimit {
			return poly{}, false
		}
	}
	return r, true
}

// contentIn is the gcd of p's coefficients as a polynomial in key.
func contentIn(p poly, key string) (poly, bool) {
	g := newPoly()
	for _, c := range p.coefficientsIn(key) {
		var ok bool
		if g, ok = polyGCD(g, c); !ok {
			return poly{}, false
		}
		if g.isConst() {
			return g, true
		}
	}
	return g, true
}

func primitivePart(p poly, key string) (poly, bool) {
	c, ok := contentIn(p, key)
	if !ok {
		return poly{}, false
	}
	return p.divExact(c)
}

// mainAtom is the atom with the smallest key in p or q.
func mainAtom(p, q poly) atom {
	var best atom
	found := false
	for _, src := range []poly{p, q} {
		for k, a := range src.atoms() {
			if !found || k < best.key {
				best, found = a, true
			}
		}
	}
	return best
}

func degreeIn(p poly, key string) int {
	d := 0
	for _, t := range p.terms {
		if e := t.mono.expOf(key); e > d {
			d = e
		}
	}
	return d
}

func atomPower(a atom, n int) monomial {
	if n == 0 {
		return nil
	}
	return monomial{{atom: a, exp: n}}
}

func unitPoly() poly { return constPoly(big.NewRat(1, 1)) }

// monic scales p so its leading coefficient is 1.
func monic(p poly) poly {
	if p.isZero() {
		return p
	}
	return p.scale(new(big.Rat).Inv(p.leading().coef))
}
