package algebra

// Substitute replaces every occurrence of target in e by replacement.
//
// A symbol target replaces symbol leaves. Any other target replaces
// subtrees whose canonical form equals the target's; when the target is a
// sum (or product) it also matches a subset of a sum's terms (or a
// product's factors), so substituting a + b in a + b + c yields x + c.
// The result is not simplified.
func Substitute(e, target, replacement Expr) Expr {
	if s, ok := target.(Symbol); ok {
		return replaceSymbol(e, s.Name, replacement)
	}
	canon, err := Simplify(target)
	if err != nil {
		canon = target
	}
	return replaceSubtree(e, canon, canon.String(), replacement)
}

func replaceSymbol(e Expr, name string, repl Expr) Expr {
	switch v := e.(type) {
	case Symbol:
		if v.Name == name {
			return repl
		}
		return v
	case Sum:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = replaceSymbol(t, name, repl)
		}
		return Sum{Terms: terms}
	case Product:
		factors := make([]Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = replaceSymbol(f, name, repl)
		}
		return Product{Factors: factors}
	case Power:
		return Power{Base: replaceSymbol(v.Base, name, repl), Exp: replaceSymbol(v.Exp, name, repl)}
	}
	return e
}

func replaceSubtree(e, target Expr, key string, repl Expr) Expr {
	if canonicalKey(e) == key {
		return repl
	}
	switch v := e.(type) {
	case Sum:
		terms, matched := v.Terms, false
		if t, ok := target.(Sum); ok {
			if rest, ok := removeAll(v.Terms, t.Terms); ok {
				terms, matched = rest, true
			}
		}
		out := make([]Expr, 0, len(terms)+1)
		for _, t := range terms {
			out = append(out, replaceSubtree(t, target, key, repl))
		}
		if matched {
			out = append(out, repl)
		}
		return add(out...)
	case Product:
		factors, matched := v.Factors, false
		if t, ok := target.(Product); ok {
			if rest, ok := removeAll(v.Factors, t.Factors); ok {
				factors, matched = rest, true
			}
		}
		out := make([]Expr, 0, len(factors)+1)
		for _, f := range factors {
			out = append(out, replaceSubtree(f, target, key, repl))
		}
		if matched {
			out = append(out, repl)
		}
		return mul(out...)
	case Power:
		return Power{
			Base: replaceSubtree(v.Base, target, key, repl),
			Exp:  replaceSubtree(v.Exp, target, key, repl),
		}
	}
	return e
}

// removeAll removes one occurrence of each element of sub from items,
// matching by canonical form. It fails unless every element is present.
func removeAll(items, sub []Expr) ([]Expr, bool) {
	if len(sub) >= len(items) {
		return nil, false
	}
	used := make([]bool, len(items))
	for _, s := range sub {
		k := canonicalKey(s)
		found := false
		for i, it := range items {
			if !used[i] && canonicalKey(it) == k {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	rest := make([]Expr, 0, len(items)-len(sub))
	for i, it := range items {
		if !used[i] {
			rest = append(rest, it)
		}
	}
	return rest, true
}
