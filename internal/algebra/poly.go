package algebra

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// atom is a polynomial indeterminate: a symbol, or an opaque power whose
// exponent is not a small integer.
type atom struct {
	key  string
	expr Expr
	syms map[string]struct{}
}

func symbolAtom(name string) atom {
	return atom{key: name, expr: Symbol{Name: name}, syms: map[string]struct{}{name: {}}}
}

// opaque atoms sort after every symbol.
func opaqueAtom(base, exp Expr) atom {
	e := Power{Base: base, Exp: exp}
	syms := make(map[string]struct{})
	collectSymbols(e, syms)
	return atom{key: "~" + e.String(), expr: e, syms: syms}
}

type factor struct {
	atom atom
	exp  int
}

// monomial is a product of atoms with positive exponents, sorted by key.
type monomial []factor

func (m monomial) key() string {
	parts := make([]string, len(m))
	for i, f := range m {
		parts[i] = f.atom.key + "\x1e" + strconv.Itoa(f.exp)
	}
	return strings.Join(parts, "\x1f")
}

func (m monomial) degree() int {
	d := 0
	for _, f := range m {
		d += f.exp
	}
	return d
}

func (m monomial) expOf(key string) int {
	for _, f := range m {
		if f.atom.key == key {
			return f.exp
		}
	}
	return 0
}

func (m monomial) mul(o monomial) monomial {
	out := make(monomial, 0, len(m)+len(o))
	i, j := 0, 0
	for i < len(m) && j < len(o) {
		switch {
		case m[i].atom.key < o[j].atom.key:
			out = append(out, m[i])
			i++
		case m[i].atom.key > o[j].atom.key:
			out = append(out, o[j])
			j++
		default:
			out = append(out, factor{atom: m[i].atom, exp: m[i].exp + o[j].exp})
			i++
			j++
		}
	}
	out = append(out, m[i:]...)
	return append(out, o[j:]...)
}

// div returns m/o when o divides m.
func (m monomial) div(o monomial) (monomial, bool) {
	out := make(monomial, 0, len(m))
	j := 0
	for _, f := range m {
		if j < len(o) && o[j].atom.key == f.atom.key {
			switch {
			case o[j].exp > f.exp:
				return nil, false
			case o[j].exp < f.exp:
				out = append(out, factor{atom: f.atom, exp: f.exp - o[j].exp})
			}
			j++
			continue
		}
		if j < len(o) && o[j].atom.key < f.atom.key {
			return nil, false
		}
		out = append(out, f)
	}
	if j < len(o) {
		return nil, false
	}
	return out, true
}

// without removes the atom with the given key.
func (m monomial) without(key string) monomial {
	out := make(monomial, 0, len(m))
	for _, f := range m {
		if f.atom.key != key {
			out = append(out, f)
		}
	}
	return out
}

// cmpMonomial orders graded-lexicographically with earlier atoms ranking
// higher, so a**2 > a*b > a > b > 1.
func cmpMonomial(a, b monomial) int {
	if da, db := a.degree(), b.degree(); da != db {
		if da > db {
			return 1
		}
		return -1
	}
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b):
			return 1
		case i >= len(a):
			return -1
		case a[i].atom.key < b[j].atom.key:
			return 1
		case a[i].atom.key > b[j].atom.key:
			return -1
		case a[i].exp != b[j].exp:
			if a[i].exp > b[j].exp {
				return 1
			}
			return -1
		}
		i++
		j++
	}
	return 0
}

type term struct {
	mono monomial
	coef *big.Rat
}

// poly is a polynomial with exact rational coefficients keyed by monomial.
type poly struct {
	terms map[string]term
}

func newPoly() poly { return poly{terms: make(map[string]term)} }

func constPoly(r *big.Rat) poly {
	p := newPoly()
	p.addTerm(term{coef: new(big.Rat).Set(r)})
	return p
}

func atomPoly(a atom) poly {
	p := newPoly()
	p.addTerm(term{mono: monomial{{atom: a, exp: 1}}, coef: big.NewRat(1, 1)})
	return p
}

func (p poly) addTerm(t term) {
	if t.coef.Sign() == 0 {
		return
	}
	k := t.mono.key()
	if cur, ok := p.terms[k]; ok {
		c := new(big.Rat).Add(cur.coef, t.coef)
		if c.Sign() == 0 {
			delete(p.terms, k)
			return
		}
		p.terms[k] = term{mono: cur.mono, coef: c}
		return
	}
	p.terms[k] = term{mono: t.mono, coef: new(big.Rat).Set(t.coef)}
}

func (p poly) isZero() bool { return len(p.terms) == 0 }

func (p poly) isConst() bool {
	if len(p.terms) == 0 {
		return true
	}
	if len(p.terms) > 1 {
		return false
	}
	_, ok := p.terms[""]
	return ok
}

func (p poly) constValue() *big.Rat {
	if t, ok := p.terms[""]; ok {
		return new(big.Rat).Set(t.coef)
	}
	return new(big.Rat)
}

func (p poly) add(o poly) poly {
	out := newPoly()
	for _, t := range p.terms {
		out.addTerm(t)
	}
	for _, t := range o.terms {
		out.addTerm(t)
	}
	return out
}

func (p poly) scale(r *big.Rat) poly {
	out := newPoly()
	for _, t := range p.terms {
		out.addTerm(term{mono: t.mono, coef: new(big.Rat).Mul(t.coef, r)})
	}
	return out
}

func (p poly) neg() poly { return p.scale(big.NewRat(-1, 1)) }

func (p poly) sub(o poly) poly { return p.add(o.neg()) }

func (p poly) mulTerm(t term) poly {
	out := newPoly()
	for _, u := range p.terms {
		out.addTerm(term{mono: u.mono.mul(t.mono), coef: new(big.Rat).Mul(u.coef, t.coef)})
	}
	return out
}

func (p poly) mul(o poly) poly {
	out := newPoly()
	for _, t := range o.terms {
		for _, u := range p.terms {
			out.addTerm(term{mono: u.mono.mul(t.mono), coef: new(big.Rat).Mul(u.coef, t.coef)})
		}
	}
	return out
}

// sorted returns the terms in descending monomial order.
func (p poly) sorted() []term {
	out := make([]term, 0, len(p.terms))
	for _, t := range p.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return cmpMonomial(out[i].mono, out[j].mono) > 0 })
	return out
}

func (p poly) leading() term {
	var lead term
	first := true
	for _, t := range p.terms {
		if first || cmpMonomial(t.mono, lead.mono) > 0 {
			lead = t
			first = false
		}
	}
	return lead
}

// divExact returns p/d when d divides p with no remainder. For a single
// divisor the division algorithm leaves a zero remainder exactly when the
// division is exact.
func (p poly) divExact(d poly) (poly, bool) {
	if d.isZero() {
		return poly{}, false
	}
	lt := d.leading()
	q := newPoly()
	r := p
	for !r.isZero() {
		l := r.leading()
		m, ok := l.mono.div(lt.mono)
		if !ok {
			return poly{}, false
		}
		t := term{mono: m, coef: new(big.Rat).Quo(l.coef, lt.coef)}
		q.addTerm(t)
		r = r.sub(d.mulTerm(t))
	}
	return q, true
}

// commonMonomial is the largest monomial dividing every term of p and o.
func commonMonomial(p, o poly) monomial {
	var common monomial
	first := true
	for _, src := range []poly{p, o} {
		for _, t := range src.terms {
			if first {
				common = append(monomial(nil), t.mono...)
				first = false
				continue
			}
			next := common[:0:0]
			for _, f := range common {
				if e := t.mono.expOf(f.atom.key); e > 0 {
					if e < f.exp {
						f.exp = e
					}
					next = append(next, f)
				}
			}
			common = next
		}
	}
	return common
}

func (p poly) divMonomial(m monomial) poly {
	out := newPoly()
	for _, t := range p.terms {
		q, _ := t.mono.div(m)
		out.addTerm(term{mono: q, coef: t.coef})
	}
	return out
}

func (p poly) atoms() map[string]atom {
	out := make(map[string]atom)
	for _, t := range p.terms {
		for _, f := range t.mono {
			out[f.atom.key] = f.atom
		}
	}
	return out
}

// coefficientsIn splits p by powers of the atom with the given key.
func (p poly) coefficientsIn(key string) map[int]poly {
	out := make(map[int]poly)
	for _, t := range p.terms {
		e := t.mono.expOf(key)
		c, ok := out[e]
		if !ok {
			c = newPoly()
			out[e] = c
		}
		c.addTerm(term{mono: t.mono.without(key), coef: t.coef})
	}
	return out
}
