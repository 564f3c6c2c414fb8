package service

import (
	"errors"
	"fmt"

	"github.com/Harshitk-cp/reason/internal/algebra"
	"github.com/Harshitk-cp/reason/internal/domain"
)

var (
	ErrInvalidMode   = errors.New("invalid verification mode")
	ErrInvalidPolicy = errors.New("invalid learning policy")
)

// ReasonerConfig selects the verification strategy and learning policy of
// a Reasoner. Sink receives every core event and may be nil.
type ReasonerConfig struct {
	Verification domain.VerificationMode
	Learning     domain.LearningPolicy
	Sink         domain.EventSink
}

func DefaultReasonerConfig() ReasonerConfig {
	return ReasonerConfig{
		Verification: domain.VerifyAxiomPriority,
		Learning:     domain.LearnStrict,
	}
}

// Reasoner is one reasoning session: a knowledge base with its verifier
// and explorer. It is not safe for concurrent use.
type Reasoner struct {
	cfg      ReasonerConfig
	kb       *KnowledgeBase
	verifier *Verifier
	explorer *Explorer
}

func NewReasoner(engine domain.AlgebraEngine, cfg ReasonerConfig) (*Reasoner, error) {
	if !cfg.Verification.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, cfg.Verification)
	}
	if !cfg.Learning.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, cfg.Learning)
	}
	kb := NewKnowledgeBase(engine, cfg.Learning, cfg.Sink)
	return &Reasoner{
		cfg:      cfg,
		kb:       kb,
		verifier: NewVerifier(engine, kb, cfg.Verification, cfg.Sink),
		explorer: NewExplorer(engine, kb, cfg.Sink),
	}, nil
}

func (r *Reasoner) Config() ReasonerConfig { return r.cfg }

func (r *Reasoner) KnowledgeBase() *KnowledgeBase { return r.kb }

func (r *Reasoner) AcceptAxiom(text string) error {
	_, err := r.kb.AcceptAxiom(text)
	return err
}

func (r *Reasoner) AddTruth(text string) (bool, error) {
	return r.kb.AddTruth(text)
}

func (r *Reasoner) SimplifyTruth(index int) (before, after algebra.Equation, err error) {
	return r.kb.SimplifyTruth(index)
}

// SolveFor reports false when no truth yields a solution for name.
func (r *Reasoner) SolveFor(name string) (algebra.Expr, bool) {
	return r.kb.SolveFor(name)
}

func (r *Reasoner) VerifyHypothesis(text string) (bool, error) {
	return r.verifier.VerifyHypothesis(text)
}

func (r *Reasoner) ThinkForItself(n int, creativityChance float64, rng domain.RandomSource) (domain.ThinkReport, error) {
	return r.explorer.ThinkForItself(n, creativityChance, rng)
}

func (r *Reasoner) Snapshot() domain.Snapshot {
	return r.kb.Snapshot()
}

// Restore loads persisted axioms and truths verbatim.
func (r *Reasoner) Restore(axioms, truths []string) error {
	return r.kb.Restore(axioms, truths)
}
