package domain

import (
	"github.com/Harshitk-cp/reason/internal/algebra"
)

// FactKind distinguishes foundational facts from derived ones.
type FactKind string

const (
	FactAxiom FactKind = "axiom"
	FactTruth FactKind = "truth"
)

func (k FactKind) Valid() bool {
	return k == FactAxiom || k == FactTruth
}

// Fact is one stored equation with its position in its sequence.
type Fact struct {
	Kind     FactKind
	Index    int
	Equation algebra.Equation
}

// Snapshot is a read-only view of a knowledge base for reporting.
// Symbols are sorted by name, axioms are in acceptance order and truths in
// learn order.
type Snapshot struct {
	Symbols []string `json:"symbols"`
	Axioms  []string `json:"axioms"`
	Truths  []string `json:"truths"`
}

// VerificationMode selects which facts a hypothesis is checked against.
type VerificationMode string

const (
	// VerifyTruthsOnly cascades through truths only.
	VerifyTruthsOnly VerificationMode = "truths_only"
	// VerifyAxiomPriority cascades through every axiom, then every truth.
	VerifyAxiomPriority VerificationMode = "axiom_priority"
)

func (m VerificationMode) Valid() bool {
	return m == VerifyTruthsOnly || m == VerifyAxiomPriority
}

// LearningPolicy selects how candidate truths are filtered.
type LearningPolicy string

const (
	// LearnStrict skips duplicates of stored facts and tautologies.
	LearnStrict LearningPolicy = "strict"
	// LearnNone stores every parsed candidate.
	LearnNone LearningPolicy = "none"
)

func (p LearningPolicy) Valid() bool {
	return p == LearnStrict || p == LearnNone
}

// ThinkReport summarises one ThinkForItself run.
type ThinkReport struct {
	Cycles      int `json:"cycles"`
	Stochastic  int `json:"stochastic"`
	Routine     int `json:"routine"`
	Discoveries int `json:"discoveries"`
	Rejected    int `json:"rejected"`
	Skipped     int `json:"skipped"`
}
