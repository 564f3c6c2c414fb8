package service

import (
	"errors"
	"fmt"

	"github.com/Harshitk-cp/reason/internal/algebra"
	"github.com/Harshitk-cp/reason/internal/domain"
)

var (
	ErrIndexOutOfRange = errors.New("truth index out of range")
)

// KnowledgeBase holds the ordered axioms and truths of one reasoning
// session together with their symbol registry. Axioms are append-only;
// truths are append-only except for in-place simplification.
type KnowledgeBase struct {
	engine  domain.AlgebraEngine
	symbols *SymbolRegistry
	policy  domain.LearningPolicy
	sink    domain.EventSink

	axioms []algebra.Equation
	truths []algebra.Equation
}

func NewKnowledgeBase(engine domain.AlgebraEngine, policy domain.LearningPolicy, sink domain.EventSink) *KnowledgeBase {
	return &KnowledgeBase{
		engine:  engine,
		symbols: NewSymbolRegistry(),
		policy:  policy,
		sink:    sink,
	}
}

func (kb *KnowledgeBase) emit(e domain.Event) {
	if kb.sink != nil {
		kb.sink.Emit(e)
	}
}

func (kb *KnowledgeBase) Symbols() *SymbolRegistry {
	return kb.symbols
}

// Axioms returns a copy of the axioms in acceptance order.
func (kb *KnowledgeBase) Axioms() []algebra.Equation {
	return append([]algebra.Equation(nil), kb.axioms...)
}

// Truths returns a copy of the truths in learn order.
func (kb *KnowledgeBase) Truths() []algebra.Equation {
	return append([]algebra.Equation(nil), kb.truths...)
}

// AcceptAxiom parses text and appends it to the axioms. Axioms are never
// deduplicated.
func (kb *KnowledgeBase) AcceptAxiom(text string) (algebra.Equation, error) {
	eq, err := kb.engine.ParseEquation(text)
	if err != nil {
		return algebra.Equation{}, fmt.Errorf("accept axiom %q: %w", text, err)
	}
	kb.axioms = append(kb.axioms, eq)
	kb.symbols.Add(kb.engine.FreeSymbols(eq)...)
	kb.emit(domain.Event{Kind: domain.EventAxiomAccepted, Equation: eq.String()})
	return eq, nil
}

// AddTruth parses text and learns it. It reports false without error when
// the learning policy skips the candidate.
func (kb *KnowledgeBase) AddTruth(text string) (bool, error) {
	eq, err := kb.engine.ParseEquation(text)
	if err != nil {
		return false, fmt.Errorf("add truth %q: %w", text, err)
	}
	return kb.learn(eq), nil
}

func (kb *KnowledgeBase) learn(eq algebra.Equation) bool {
	if kb.policy == domain.LearnStrict {
		if reason := kb.skipReason(eq); reason != "" {
			kb.emit(domain.Event{Kind: domain.EventTruthSkipped, Equation: eq.String(), Detail: reason})
			return false
		}
	}
	kb.truths = append(kb.truths, eq)
	kb.symbols.Add(kb.engine.FreeSymbols(eq)...)
	kb.emit(domain.Event{Kind: domain.EventTruthLearned, Equation: eq.String()})
	return true
}

func (kb *KnowledgeBase) skipReason(eq algebra.Equation) string {
	for _, t := range kb.truths {
		if kb.engine.StructurallyEqual(eq, t) {
			return "known truth"
		}
	}
	for _, a := range kb.axioms {
		if kb.engine.StructurallyEqual(eq, a) {
			return "known axiom"
		}
	}
	if kb.engine.IsUnconditionallyTrue(eq) {
		return "tautology"
	}
	return ""
}

// SimplifyTruth replaces the truth at index with its simplified form and
// returns both versions. A truth the engine cannot simplify is left as is.
func (kb *KnowledgeBase) SimplifyTruth(index int) (before, after algebra.Equation, err error) {
	if index < 0 || index >= len(kb.truths) {
		return algebra.Equation{}, algebra.Equation{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(kb.truths))
	}
	before = kb.truths[index]
	after, err = kb.engine.SimplifyEquation(before)
	if err != nil {
		kb.emit(domain.Event{Kind: domain.EventTruthSimplified, Equation: before.String(), Detail: "unsimplifiable"})
		return before, before, nil
	}
	kb.truths[index] = after
	kb.rebuildSymbols()
	kb.emit(domain.Event{
		Kind:     domain.EventTruthSimplified,
		Equation: after.String(),
		Detail:   fmt.Sprintf("truth %d was %s", index, before),
	})
	return before, after, nil
}

// SolveFor expresses the named symbol using the first truth that mentions
// it and has a solution. Axioms are not consulted.
func (kb *KnowledgeBase) SolveFor(name string) (algebra.Expr, bool) {
	sym, ok := kb.symbols.Lookup(name)
	if !ok {
		return nil, false
	}
	for _, t := range kb.truths {
		if !mentions(kb.engine.FreeSymbols(t), sym) {
			continue
		}
		sols, err := kb.engine.Solve(t, sym)
		if err != nil || len(sols) == 0 {
			continue
		}
		return sols[0], true
	}
	return nil, false
}

// pool is every fact the explorer draws from: truths, then axioms.
func (kb *KnowledgeBase) pool() []algebra.Equation {
	out := make([]algebra.Equation, 0, len(kb.truths)+len(kb.axioms))
	out = append(out, kb.truths...)
	return append(out, kb.axioms...)
}

// Snapshot renders the current state for reporting.
func (kb *KnowledgeBase) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Symbols: kb.symbols.Names(),
		Axioms:  make([]string, len(kb.axioms)),
		Truths:  make([]string, len(kb.truths)),
	}
	for i, a := range kb.axioms {
		snap.Axioms[i] = a.String()
	}
	for i, t := range kb.truths {
		snap.Truths[i] = t.String()
	}
	return snap
}

// Restore replaces the whole state with the given equations without
// applying the learning policy.
func (kb *KnowledgeBase) Restore(axioms, truths []string) error {
	parse := func(texts []string) ([]algebra.Equation, error) {
		out := make([]algebra.Equation, 0, len(texts))
		for _, text := range texts {
			eq, err := kb.engine.ParseEquation(text)
			if err != nil {
				return nil, fmt.Errorf("restore %q: %w", text, err)
			}
			out = append(out, eq)
		}
		return out, nil
	}
	a, err := parse(axioms)
	if err != nil {
		return err
	}
	t, err := parse(truths)
	if err != nil {
		return err
	}
	kb.axioms, kb.truths = a, t
	kb.rebuildSymbols()
	return nil
}

func (kb *KnowledgeBase) rebuildSymbols() {
	kb.symbols.reset()
	for _, eq := range kb.pool() {
		kb.symbols.Add(kb.engine.FreeSymbols(eq)...)
	}
}

func mentions(syms []algebra.Symbol, sym algebra.Symbol) bool {
	for _, s := range syms {
		if s.Name == sym.Name {
			return true
		}
	}
	return false
}
