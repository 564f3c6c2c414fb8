package service

import (
	"fmt"

	"github.com/Harshitk-cp/reason/internal/algebra"
	"github.com/Harshitk-cp/reason/internal/domain"
)

// Verifier decides hypotheses by a single substitution cascade over the
// knowledge base. It never mutates the knowledge base.
type Verifier struct {
	engine domain.AlgebraEngine
	kb     *KnowledgeBase
	mode   domain.VerificationMode
	sink   domain.EventSink
}

func NewVerifier(engine domain.AlgebraEngine, kb *KnowledgeBase, mode domain.VerificationMode, sink domain.EventSink) *Verifier {
	return &Verifier{engine: engine, kb: kb, mode: mode, sink: sink}
}

func (v *Verifier) Mode() domain.VerificationMode {
	return v.mode
}

// VerifyHypothesis parses text and reports whether it follows from the
// current facts.
func (v *Verifier) VerifyHypothesis(text string) (bool, error) {
	eq, err := v.engine.ParseEquation(text)
	if err != nil {
		return false, fmt.Errorf("verify %q: %w", text, err)
	}
	return v.verify(eq), nil
}

func (v *Verifier) verify(hypothesis algebra.Equation) bool {
	ok := v.cascade(hypothesis) == algebra.Tautology
	kind := domain.EventHypothesisRejected
	if ok {
		kind = domain.EventHypothesisVerified
	}
	if v.sink != nil {
		v.sink.Emit(domain.Event{Kind: kind, Equation: hypothesis.String()})
	}
	return ok
}

// facts returns the substitution order for the configured mode.
func (v *Verifier) facts() []algebra.Equation {
	if v.mode == domain.VerifyAxiomPriority {
		out := make([]algebra.Equation, 0, len(v.kb.axioms)+len(v.kb.truths))
		out = append(out, v.kb.axioms...)
		return append(out, v.kb.truths...)
	}
	return v.kb.truths
}

// cascade substitutes each fact's left side by its right side, simplifying
// after every step. Once the hypothesis reduces to a constant truth value
// later facts cannot change it. A hypothesis the engine cannot evaluate is
// not verified.
func (v *Verifier) cascade(hypothesis algebra.Equation) algebra.Verdict {
	verdict, err := v.engine.Classify(hypothesis)
	if err != nil {
		return algebra.Open
	}
	current := hypothesis
	for _, fact := range v.facts() {
		if verdict != algebra.Open {
			break
		}
		next, err := v.engine.SimplifyEquation(v.engine.SubstituteEquation(current, fact.LHS, fact.RHS))
		if err != nil {
			return algebra.Open
		}
		if verdict, err = v.engine.Classify(next); err != nil {
			return algebra.Open
		}
		current = next
	}
	return verdict
}
