package domain

import (
	"github.com/Harshitk-cp/reason/internal/algebra"
)

// AlgebraEngine parses, solves, simplifies, substitutes and compares
// equations. Implementations must be pure.
type AlgebraEngine interface {
	ParseEquation(text string) (algebra.Equation, error)
	Solve(eq algebra.Equation, sym algebra.Symbol) ([]algebra.Expr, error)
	Simplify(expr algebra.Expr) (algebra.Expr, error)
	SimplifyEquation(eq algebra.Equation) (algebra.Equation, error)
	SubstituteEquation(eq algebra.Equation, target, replacement algebra.Expr) algebra.Equation
	Classify(eq algebra.Equation) (algebra.Verdict, error)
	IsUnconditionallyTrue(eq algebra.Equation) bool
	StructurallyEqual(a, b algebra.Equation) bool
	FreeSymbols(eq algebra.Equation) []algebra.Symbol
}

// RandomSource is the randomness the explorer draws from. *rand.Rand
// satisfies it.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}
