package algebra

// Equation asserts LHS = RHS. The sides are ordered: a = b and b = a are
// different equations.
type Equation struct {
	LHS Expr
	RHS Expr
}

// NewEquation returns lhs = rhs.
func NewEquation(lhs, rhs Expr) Equation {
	return Equation{LHS: lhs, RHS: rhs}
}

// String renders lhs = rhs. The zero Equation renders as "".
func (e Equation) String() string {
	if e.LHS == nil || e.RHS == nil {
		return ""
	}
	return e.LHS.String() + " = " + e.RHS.String()
}

// Verdict is what an equation says regardless of the values of its symbols.
type Verdict int

const (
	// Open equations hold for some assignments only.
	Open Verdict = iota
	// Tautology equations hold unconditionally.
	Tautology
	// Contradiction equations never hold.
	Contradiction
)

func (v Verdict) String() string {
	switch v {
	case Tautology:
		return "tautology"
	case Contradiction:
		return "contradiction"
	default:
		return "open"
	}
}

// SimplifyEquation simplifies both sides independently.
func SimplifyEquation(eq Equation) (Equation, error) {
	lhs, err := Simplify(eq.LHS)
	if err != nil {
		return Equation{}, err
	}
	rhs, err := Simplify(eq.RHS)
	if err != nil {
		return Equation{}, err
	}
	return Equation{LHS: lhs, RHS: rhs}, nil
}

// Classify decides whether eq is a tautology, a contradiction or open by
// simplifying lhs - rhs.
func Classify(eq Equation) (Verdict, error) {
	f, err := toRatFunc(add(eq.LHS, neg(eq.RHS)))
	if err != nil {
		return Open, err
	}
	switch {
	case f.isZero():
		return Tautology, nil
	case f.isConst():
		return Contradiction, nil
	}
	return Open, nil
}

// StructurallyEqual reports whether a and b have identical canonical sides.
func StructurallyEqual(a, b Equation) bool {
	return canonicalKey(a.LHS) == canonicalKey(b.LHS) && canonicalKey(a.RHS) == canonicalKey(b.RHS)
}

// SubstituteEquation replaces target by replacement on both sides.
func SubstituteEquation(eq Equation, target, replacement Expr) Equation {
	return Equation{
		LHS: Substitute(eq.LHS, target, replacement),
		RHS: Substitute(eq.RHS, target, replacement),
	}
}

// EquationSymbols returns the free symbols of both sides, sorted by name.
func EquationSymbols(eq Equation) []Symbol {
	seen := make(map[string]struct{})
	collectSymbols(eq.LHS, seen)
	collectSymbols(eq.RHS, seen)
	return sortedSymbols(seen)
}
