package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/Harshitk-cp/reason/internal/algebra"
	"github.com/Harshitk-cp/reason/internal/domain"
)

var (
	ErrInvalidThinkArgs = errors.New("invalid think arguments")
)

// CycleOutcome is how one discovery cycle ended.
type CycleOutcome int

const (
	OutcomeSkipped CycleOutcome = iota
	OutcomeRejected
	OutcomeDiscovery
)

func (o CycleOutcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeDiscovery:
		return "discovery"
	default:
		return "skipped"
	}
}

// Explorer runs discovery cycles against a knowledge base. Candidates are
// always checked with axiom-priority verification.
type Explorer struct {
	engine   domain.AlgebraEngine
	kb       *KnowledgeBase
	verifier *Verifier
	sink     domain.EventSink

	cycle int
}

func NewExplorer(engine domain.AlgebraEngine, kb *KnowledgeBase, sink domain.EventSink) *Explorer {
	return &Explorer{
		engine:   engine,
		kb:       kb,
		verifier: NewVerifier(engine, kb, domain.VerifyAxiomPriority, sink),
		sink:     sink,
	}
}

func (x *Explorer) emit(kind domain.EventKind, eq, detail string) {
	if x.sink != nil {
		x.sink.Emit(domain.Event{Kind: kind, Cycle: x.cycle, Equation: eq, Detail: detail})
	}
}

func (x *Explorer) skip(detail string) CycleOutcome {
	x.emit(domain.EventCycleSkipped, "", detail)
	return OutcomeSkipped
}

// ExploreDummyIdea pretends two random symbols are equal, applies that to
// one random fact and learns the consequence if it verifies.
func (x *Explorer) ExploreDummyIdea(rng domain.RandomSource) CycleOutcome {
	syms := x.kb.symbols.Sorted()
	if len(syms) < 2 {
		return x.skip("fewer than two symbols")
	}
	i, j := pickTwo(rng, len(syms))
	left, right := syms[i], syms[j]

	pool := x.kb.pool()
	if len(pool) == 0 {
		return x.skip("no facts")
	}
	fact := pool[rng.Intn(len(pool))]

	consequence, err := x.engine.SimplifyEquation(x.engine.SubstituteEquation(fact, left, right))
	if err != nil {
		return x.skip(fmt.Sprintf("cannot simplify %s with %s = %s", fact, left, right))
	}
	return x.consider(consequence, fmt.Sprintf("%s with %s = %s", fact, left, right))
}

// RoutineExploration solves one random fact for a symbol it shares with a
// second random fact and substitutes the solution into the second.
func (x *Explorer) RoutineExploration(rng domain.RandomSource) CycleOutcome {
	pool := x.kb.pool()
	if len(pool) < 2 {
		return x.skip("fewer than two facts")
	}
	i, j := pickTwo(rng, len(pool))
	first, second := pool[i], pool[j]

	shared, ok := firstShared(x.engine.FreeSymbols(first), x.engine.FreeSymbols(second))
	if !ok {
		return x.skip(fmt.Sprintf("%s and %s share no symbols", first, second))
	}
	sols, err := x.engine.Solve(first, shared)
	if err != nil || len(sols) == 0 {
		return x.skip(fmt.Sprintf("cannot solve %s for %s", first, shared))
	}
	hypothesis, err := x.engine.SimplifyEquation(x.engine.SubstituteEquation(second, shared, sols[0]))
	if err != nil {
		return x.skip(fmt.Sprintf("cannot simplify %s with %s = %s", second, shared, sols[0]))
	}
	return x.consider(hypothesis, fmt.Sprintf("%s with %s = %s", second, shared, sols[0]))
}

// consider verifies a candidate and learns it. Candidates that are
// unconditionally true or false say nothing new and are skipped.
func (x *Explorer) consider(candidate algebra.Equation, origin string) CycleOutcome {
	verdict, err := x.engine.Classify(candidate)
	if err != nil {
		return x.skip("cannot classify " + candidate.String())
	}
	if verdict != algebra.Open {
		return x.skip(fmt.Sprintf("%s from %s is a %s", candidate, origin, verdict))
	}
	if !x.verifier.verify(candidate) {
		return OutcomeRejected
	}
	if !x.kb.learn(candidate) {
		return x.skip(candidate.String() + " is already known")
	}
	x.emit(domain.EventDiscovery, candidate.String(), origin)
	return OutcomeDiscovery
}

// ThinkForItself runs exactly n cycles. Each cycle takes a stochastic leap
// when a draw from rng falls below creativityChance and a routine
// derivation otherwise.
func (x *Explorer) ThinkForItself(n int, creativityChance float64, rng domain.RandomSource) (domain.ThinkReport, error) {
	switch {
	case n < 0:
		return domain.ThinkReport{}, fmt.Errorf("%w: negative cycle count %d", ErrInvalidThinkArgs, n)
	case creativityChance < 0 || creativityChance > 1 || math.IsNaN(creativityChance):
		return domain.ThinkReport{}, fmt.Errorf("%w: creativity chance %v outside [0, 1]", ErrInvalidThinkArgs, creativityChance)
	case rng == nil:
		return domain.ThinkReport{}, fmt.Errorf("%w: nil random source", ErrInvalidThinkArgs)
	}

	var report domain.ThinkReport
	defer func() { x.cycle = 0 }()
	for c := 1; c <= n; c++ {
		x.cycle = c
		var out CycleOutcome
		if rng.Float64() < creativityChance {
			report.Stochastic++
			x.emit(domain.EventCycleStarted, "", domain.CycleStochastic)
			out = x.ExploreDummyIdea(rng)
		} else {
			report.Routine++
			x.emit(domain.EventCycleStarted, "", domain.CycleRoutine)
			out = x.RoutineExploration(rng)
		}
		switch out {
		case OutcomeDiscovery:
			report.Discoveries++
		case OutcomeRejected:
			report.Rejected++
		default:
			report.Skipped++
		}
		report.Cycles++
	}
	return report, nil
}

// pickTwo draws two distinct indexes below n uniformly without replacement.
func pickTwo(rng domain.RandomSource, n int) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// firstShared returns the smallest-named symbol present in both sorted
// lists.
func firstShared(a, b []algebra.Symbol) (algebra.Symbol, bool) {
	for _, s := range a {
		if mentions(b, s) {
			return s, true
		}
	}
	return algebra.Symbol{}, false
}
