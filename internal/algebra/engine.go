package algebra

// Engine exposes the package functions as a value so callers can depend on
// an interface and swap it in tests.
type Engine struct{}

// NewEngine returns a ready Engine. It holds no state.
func NewEngine() *Engine {
	return &Engine{}
}

func (*Engine) ParseEquation(text string) (Equation, error) {
	return ParseEquation(text)
}

func (*Engine) Solve(eq Equation, sym Symbol) ([]Expr, error) {
	return Solve(eq, sym)
}

func (*Engine) Simplify(e Expr) (Expr, error) {
	return Simplify(e)
}

func (*Engine) SimplifyEquation(eq Equation) (Equation, error) {
	return SimplifyEquation(eq)
}

func (*Engine) SubstituteEquation(eq Equation, target, replacement Expr) Equation {
	return SubstituteEquation(eq, target, replacement)
}

func (*Engine) Classify(eq Equation) (Verdict, error) {
	return Classify(eq)
}

// IsUnconditionallyTrue reports whether eq holds for every assignment.
// Equations that cannot be evaluated are not true.
func (*Engine) IsUnconditionallyTrue(eq Equation) bool {
	v, err := Classify(eq)
	return err == nil && v == Tautology
}

func (*Engine) StructurallyEqual(a, b Equation) bool {
	return StructurallyEqual(a, b)
}

// FreeSymbols returns the symbols eq actually depends on: a symbol that
// cancels out, as in x - x + b, is not free. Equations that cannot be
// simplified report their written symbols.
func (*Engine) FreeSymbols(eq Equation) []Symbol {
	s, err := SimplifyEquation(eq)
	if err != nil {
		return EquationSymbols(eq)
	}
	return EquationSymbols(s)
}
