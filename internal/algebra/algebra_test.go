package algebra

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustExpr(t *testing.T, text string) Expr {
	t.Helper()
	e, err := ParseExpr(text)
	require.NoError(t, err, "parse %q", text)
	return e
}

func mustEquation(t *testing.T, text string) Equation {
	t.Helper()
	eq, err := ParseEquation(text)
	require.NoError(t, err, "parse %q", text)
	return eq
}

func TestParseEquation_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing equals", "a + b"},
		{"two equals", "a = b = c"},
		{"empty left side", "= b"},
		{"empty right side", "a ="},
		{"dangling operator", "a + = b"},
		{"unbalanced paren", "a = (b + c"},
		{"stray token", "a b = c"},
		{"bad character", "a = b $ c"},
		{"double dot number", "a = 1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEquation(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "expected ErrParse, got %v", err)
		})
	}
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-a**2", "-a**2"},
		{"2**3**2", "512"},
		{"a - b - c", "a - b - c"},
		{"a/b/c", "a/(b*c)"},
		{"2^3", "8"},
		{"0.5*a", "a/2"},
		{"+a", "a"},
		{"a**-1", "1/a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := Simplify(mustExpr(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a*a + a", "a**2 + a"},
		{"a*b + c", "a*b + c"},
		{"b*a", "a*b"},
		{"(a + 1)**2 - 1", "a**2 + 2*a"},
		{"b - a", "-a + b"},
		{"x - x", "0"},
		{"a/b", "a/b"},
		{"2*a/(2*b)", "a/b"},
		{"(a**2 - 1)/(a - 1)", "a + 1"},
		{"1/a + 1", "(a + 1)/a"},
		{"a*b/b", "a"},
		{"3/6", "1/2"},
		{"x**0", "1"},
		{"4**(1/2)", "2"},
		{"y**(1/2)*y**(1/2)", "y"},
		{"1**n", "1"},
		{"(a - b)*(a + b)", "a**2 - b**2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := Simplify(mustExpr(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSimplify_Idempotent(t *testing.T) {
	inputs := []string{"a*a + a", "(a + 1)/(b - 1)", "x**(1/2) + 3*x/4", "-c + result/a", "2**n*n"}
	for _, in := range inputs {
		once, err := Simplify(mustExpr(t, in))
		require.NoError(t, err)
		reparsed := mustExpr(t, once.String())
		twice, err := Simplify(reparsed)
		require.NoError(t, err)
		assert.Equal(t, once.String(), twice.String(), "input %q", in)
	}
}

func TestSimplify_CancelsCommonFactors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(a**2 - b**2)/(a**2 + 2*a*b + b**2)", "(a - b)/(a + b)"},
		{"(x**2 - 1)/(x**2 + 2*x + 1)", "(x - 1)/(x + 1)"},
		{"(a*c + b*c)/(a*d + b*d)", "c/d"},
		{"((a + b)*(a - c))/((a + b)*(b + c))", "(a - c)/(b + c)"},
		{"(a*x + x)/(a**2 - 1)", "x/(a - 1)"},
		{"1/(a + 1) + a/(a + 1)", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := Simplify(mustExpr(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSimplify_FoldsRadicalPowers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(b**(1/2))**2", "b"},
		{"(y**(1/3))**3", "y"},
		{"2**(1/2)*2**(1/2)", "2"},
		{"(a + 1)**(1/2)*(a + 1)**(1/2) - a", "1"},
		{"(b**(1/2))**4", "b**2"},
		{"1/(b**(1/2))**2", "1/b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := Simplify(mustExpr(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSimplify_TooComplex(t *testing.T) {
	_, err := Simplify(mustExpr(t, "(a + b + c + d)**10"))
	assert.True(t, errors.Is(err, ErrTooComplex), "got %v", err)

	e := NewEngine()
	assert.False(t, e.IsUnconditionallyTrue(mustEquation(t, "(a + b + c + d)**10 = (a + b + c + d)**10")))
	_, err = e.Solve(mustEquation(t, "x = (a + b + c + d)**10"), NewSymbol("x"))
	assert.True(t, errors.Is(err, ErrTooComplex), "got %v", err)
}

func TestSolve_QuadraticRootsSatisfyEquation(t *testing.T) {
	for _, text := range []string{"x**2 = y", "x**2 = 2", "x**2 + x = 1", "x**2 = c + 1"} {
		t.Run(text, func(t *testing.T) {
			eq := mustEquation(t, text)
			x := NewSymbol("x")
			sols, err := Solve(eq, x)
			require.NoError(t, err)
			require.NotEmpty(t, sols)
			for _, s := range sols {
				v, err := Classify(SubstituteEquation(eq, x, s))
				require.NoError(t, err)
				assert.Equal(t, Tautology, v, "root %s", s)
			}
		})
	}
}

func TestSimplify_DivisionByZero(t *testing.T) {
	for _, in := range []string{"1/0", "a/(b - b)", "0**-1"} {
		_, err := Simplify(mustExpr(t, in))
		assert.True(t, errors.Is(err, ErrUndefined), "input %q: got %v", in, err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  Verdict
	}{
		{"a = a", Tautology},
		{"a*b = b*a", Tautology},
		{"(a + 1)**2 = a**2 + 2*a + 1", Tautology},
		{"1 = 2", Contradiction},
		{"a + 1 = a", Contradiction},
		{"a = b", Open},
		{"1/a = 0", Open},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Classify(mustEquation(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		target string
		repl   string
		want   string
	}{
		{"symbol", "a*b + c", "b", "a", "a**2 + c"},
		{"symbol in power", "x**n", "n", "2", "x**2"},
		{"subtree", "(a + b)**2", "a + b", "s", "s**2"},
		{"partial sum", "a + b + c", "a + b", "x", "c + x"},
		{"partial product", "2*a*b", "a*b", "y", "2*y"},
		{"no match", "a + c", "b", "z", "a + c"},
		{"replacement not rescanned", "a", "a", "a + 1", "a + 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Substitute(mustExpr(t, tt.expr), mustExpr(t, tt.target), mustExpr(t, tt.repl))
			s, err := Simplify(got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name string
		eq   string
		sym  string
		want []string
	}{
		{"identity", "b = a", "b", []string{"a"}},
		{"reverse", "b = a", "a", []string{"b"}},
		{"linear with coefficients", "result = a*b + c", "b", []string{"(-c + result)/a"}},
		{"reciprocal", "1/x = 2", "x", []string{"1/2"}},
		{"quadratic rational roots", "x**2 - 5*x + 6 = 0", "x", []string{"2", "3"}},
		{"quadratic symmetric", "x**2 = 4", "x", []string{"-2", "2"}},
		{"quadratic symbolic", "x**2 = y", "x", []string{"-y**(1/2)", "y**(1/2)"}},
		{"quadratic with zero root", "x**2 = 3*x", "x", []string{"0", "3"}},
		{"double root", "x**2 = 0", "x", []string{"0"}},
		{"no real roots", "x**2 = -1", "x", nil},
		{"absent symbol", "a = b", "c", nil},
		{"cubic unsupported", "x**3 = 8", "x", nil},
		{"symbol inside opaque power", "x**(1/2) = 3", "x", nil},
		{"cancelled symbol", "x/x = 1", "x", nil},
		{"root zeroes denominator", "(x - 1)*(x + 2)/((x - 1)*y) = 0", "x", []string{"-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sols, err := Solve(mustEquation(t, tt.eq), NewSymbol(tt.sym))
			require.NoError(t, err)
			var got []string
			for _, s := range sols {
				got = append(got, s.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStructurallyEqual(t *testing.T) {
	assert.True(t, StructurallyEqual(mustEquation(t, "c = a*b"), mustEquation(t, "c = b*a")))
	assert.True(t, StructurallyEqual(mustEquation(t, "d = (a+1)**2"), mustEquation(t, "d = a**2 + 2*a + 1")))
	assert.False(t, StructurallyEqual(mustEquation(t, "a = b"), mustEquation(t, "b = a")))
	assert.False(t, StructurallyEqual(mustEquation(t, "a = b"), mustEquation(t, "a = c")))
}

func TestEngine_FreeSymbols(t *testing.T) {
	e := NewEngine()
	syms := e.FreeSymbols(mustEquation(t, "x - x + result = c*b"))
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"b", "c", "result"}, names)
}

func TestEngine_IsUnconditionallyTrue(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.IsUnconditionallyTrue(mustEquation(t, "a - a = 0")))
	assert.False(t, e.IsUnconditionallyTrue(mustEquation(t, "a = 1")))
	assert.False(t, e.IsUnconditionallyTrue(mustEquation(t, "1/0 = 1/0")))
}

func TestEquation_StringZero(t *testing.T) {
	assert.Equal(t, "", Equation{}.String())
	assert.Equal(t, "", Equation{LHS: NewSymbol("a")}.String())
}

func TestEquation_String(t *testing.T) {
	eq := mustEquation(t, "result = a*b + c")
	assert.Equal(t, "result = a*b + c", eq.String())
	s, err := SimplifyEquation(mustEquation(t, "result=a*a+a"))
	require.NoError(t, err)
	assert.Equal(t, "result = a**2 + a", s.String())
}
