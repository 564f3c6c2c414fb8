package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Harshitk-cp/reason/internal/domain"
	"github.com/Harshitk-cp/reason/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionNameEmpty = errors.New("session name is required")
	ErrNotSolvable      = errors.New("no truth can be solved for symbol")
)

const (
	defaultCreativityChance = 0.25
	defaultMaxThinkCycles   = 1000
	defaultListLimit        = 50
)

// CreateSessionInput describes a new session. Zero values select defaults
// and a nil Seed draws one from the clock.
type CreateSessionInput struct {
	Name             string
	Verification     domain.VerificationMode
	Learning         domain.LearningPolicy
	CreativityChance *float64
	Seed             *int64
}

// ThinkInput parameterises one thinking run. Seed, when set, replaces the
// session's generator with a fresh one seeded from it.
type ThinkInput struct {
	Cycles           int
	CreativityChance *float64
	Seed             *int64
}

type ThinkResult struct {
	Report   domain.ThinkReport `json:"report"`
	Events   []domain.Event     `json:"events"`
	Snapshot domain.Snapshot    `json:"snapshot"`
}

// SessionView is a session with its current knowledge.
type SessionView struct {
	domain.Session
	Snapshot domain.Snapshot `json:"snapshot"`
}

type liveSession struct {
	mu       sync.Mutex
	meta     domain.Session
	reasoner *Reasoner
	rng      *rand.Rand
	events   *domain.EventRecorder
	lastUsed time.Time
}

// SessionService owns reasoning sessions. Calls on one session run one at
// a time; different sessions proceed in parallel.
type SessionService struct {
	engine domain.AlgebraEngine
	store  domain.SessionStore
	logger *zap.Logger

	defaultCreativity float64
	maxThinkCycles    int
	now               func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

// NewSessionService creates the service. A nil store keeps sessions in
// memory only.
func NewSessionService(engine domain.AlgebraEngine, st domain.SessionStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		engine:            engine,
		store:             st,
		logger:            logger,
		defaultCreativity: defaultCreativityChance,
		maxThinkCycles:    defaultMaxThinkCycles,
		now:               time.Now,
		sessions:          make(map[uuid.UUID]*liveSession),
	}
}

func (s *SessionService) SetDefaultCreativity(p float64) {
	s.defaultCreativity = p
}

func (s *SessionService) SetMaxThinkCycles(n int) {
	s.maxThinkCycles = n
}

func (s *SessionService) Persistent() bool {
	return s.store != nil
}

func (s *SessionService) Create(ctx context.Context, in CreateSessionInput) (*SessionView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrSessionNameEmpty
	}
	if in.Verification == "" {
		in.Verification = domain.VerifyAxiomPriority
	}
	if in.Learning == "" {
		in.Learning = domain.LearnStrict
	}
	chance := s.defaultCreativity
	if in.CreativityChance != nil {
		chance = *in.CreativityChance
	}
	if chance < 0 || chance > 1 {
		return nil, fmt.Errorf("%w: creativity chance %v outside [0, 1]", ErrInvalidThinkArgs, chance)
	}
	now := s.now().UTC()
	seed := now.UnixNano()
	if in.Seed != nil {
		seed = *in.Seed
	}

	meta := domain.Session{
		ID:               uuid.New(),
		Name:             name,
		Verification:     in.Verification,
		Learning:         in.Learning,
		CreativityChance: chance,
		Seed:             seed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	ls, err := s.open(meta)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.Create(ctx, &meta); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	s.mu.Lock()
	s.sessions[meta.ID] = ls
	activeSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	s.logger.Info("session created",
		zap.String("session_id", meta.ID.String()),
		zap.String("name", meta.Name),
		zap.String("verification", string(meta.Verification)),
		zap.String("learning", string(meta.Learning)),
		zap.Int64("seed", meta.Seed))
	return &SessionView{Session: meta, Snapshot: ls.reasoner.Snapshot()}, nil
}

// open builds the in-memory side of a session.
func (s *SessionService) open(meta domain.Session) (*liveSession, error) {
	ls := &liveSession{
		meta:     meta,
		rng:      rand.New(rand.NewSource(meta.Seed)),
		events:   &domain.EventRecorder{},
		lastUsed: s.now(),
	}
	r, err := NewReasoner(s.engine, ReasonerConfig{
		Verification: meta.Verification,
		Learning:     meta.Learning,
		Sink:         domain.Fanout(ls.events, s.eventSink(meta.ID)),
	})
	if err != nil {
		return nil, err
	}
	ls.reasoner = r
	return ls, nil
}

func (s *SessionService) eventSink(id uuid.UUID) domain.EventSink {
	logger := s.logger.With(zap.String("session_id", id.String()))
	return domain.EventSinkFunc(func(e domain.Event) {
		switch e.Kind {
		case domain.EventTruthLearned:
			truthsLearned.Inc()
		case domain.EventHypothesisVerified:
			verifications.WithLabelValues("verified").Inc()
		case domain.EventHypothesisRejected:
			verifications.WithLabelValues("rejected").Inc()
		}
		if ce := logger.Check(zap.DebugLevel, "reasoning event"); ce != nil {
			ce.Write(
				zap.String("event", string(e.Kind)),
				zap.Int("cycle", e.Cycle),
				zap.String("equation", e.Equation),
				zap.String("detail", e.Detail))
		}
	})
}

// acquire returns the session locked for exclusive use, restoring it from
// the store when it is not in memory. A session evicted or deleted while
// acquire waited for its lock is looked up again.
func (s *SessionService) acquire(ctx context.Context, id uuid.UUID) (*liveSession, error) {
	for {
		s.mu.Lock()
		ls, ok := s.sessions[id]
		s.mu.Unlock()
		if !ok {
			var err error
			if ls, err = s.restore(ctx, id); err != nil {
				return nil, err
			}
		}
		ls.mu.Lock()
		s.mu.Lock()
		current := s.sessions[id] == ls
		s.mu.Unlock()
		if !current {
			ls.mu.Unlock()
			continue
		}
		ls.lastUsed = s.now()
		ls.events.Reset()
		return ls, nil
	}
}

func (s *SessionService) restore(ctx context.Context, id uuid.UUID) (*liveSession, error) {
	if s.store == nil {
		return nil, ErrSessionNotFound
	}
	meta, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	facts, err := s.store.GetFacts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load facts: %w", err)
	}
	var axioms, truths []string
	for _, f := range facts {
		if f.Kind == domain.FactAxiom {
			axioms = append(axioms, f.Equation)
		} else {
			truths = append(truths, f.Equation)
		}
	}

	ls, err := s.open(*meta)
	if err != nil {
		return nil, err
	}
	if err := ls.reasoner.Restore(axioms, truths); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	s.sessions[id] = ls
	activeSessions.Set(float64(len(s.sessions)))
	s.logger.Info("session restored",
		zap.String("session_id", id.String()),
		zap.Int("axioms", len(axioms)),
		zap.Int("truths", len(truths)))
	return ls, nil
}

// persist writes the session's facts back to the store.
func (s *SessionService) persist(ctx context.Context, ls *liveSession) error {
	ls.meta.UpdatedAt = s.now().UTC()
	if s.store == nil {
		return nil
	}
	kb := ls.reasoner.KnowledgeBase()
	var facts []domain.StoredFact
	for i, a := range kb.Axioms() {
		facts = append(facts, domain.StoredFact{SessionID: ls.meta.ID, Kind: domain.FactAxiom, Position: i, Equation: a.String()})
	}
	for i, t := range kb.Truths() {
		facts = append(facts, domain.StoredFact{SessionID: ls.meta.ID, Kind: domain.FactTruth, Position: i, Equation: t.String()})
	}
	if err := s.store.ReplaceFacts(ctx, ls.meta.ID, facts); err != nil {
		s.logger.Error("failed to persist session facts",
			zap.String("session_id", ls.meta.ID.String()),
			zap.Error(err))
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.store.Touch(ctx, ls.meta.ID); err != nil {
		s.logger.Warn("failed to touch session",
			zap.String("session_id", ls.meta.ID.String()),
			zap.Error(err))
	}
	return nil
}

func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	ls, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()
	return &SessionView{Session: ls.meta, Snapshot: ls.reasoner.Snapshot()}, nil
}

// List returns sessions newest first.
func (s *SessionService) List(ctx context.Context, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if s.store != nil {
		return s.store.List(ctx, limit)
	}

	s.mu.Lock()
	out := make([]domain.Session, 0, len(s.sessions))
	for _, ls := range s.sessions {
		ls.mu.Lock()
		out = append(out, ls.meta)
		ls.mu.Unlock()
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	_, inMemory := s.sessions[id]
	delete(s.sessions, id)
	activeSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if s.store == nil {
		if !inMemory {
			return ErrSessionNotFound
		}
		return nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", id.String()))
	return nil
}

func (s *SessionService) AcceptAxiom(ctx context.Context, id uuid.UUID, text string) (*SessionView, error) {
	ls, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()

	if err := ls.reasoner.AcceptAxiom(text); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, ls); err != nil {
		return nil, err
	}
	return &SessionView{Session: ls.meta, Snapshot: ls.reasoner.Snapshot()}, nil
}

func (s *SessionService) AddTruth(ctx context.Context, id uuid.UUID, text string) (bool, error) {
	ls, err := s.acquire(ctx, id)
	if err != nil {
		return false, err
	}
	defer ls.mu.Unlock()

	learned, err := ls.reasoner.AddTruth(text)
	if err != nil || !learned {
		return false, err
	}
	return true, s.persist(ctx, ls)
}

func (s *SessionService) SimplifyTruth(ctx context.Context, id uuid.UUID, index int) (before, after string, err error) {
	ls, err := s.acquire(ctx, id)
	if err != nil {
		return "", "", err
	}
	defer ls.mu.Unlock()

	b, a, err := ls.reasoner.SimplifyTruth(index)
	if err != nil {
		return "", "", err
	}
	if b.String() != a.String() {
		if err := s.persist(ctx, ls); err != nil {
			return "", "", err
		}
	}
	return b.String(), a.String(), nil
}

func (s *SessionService) SolveFor(ctx context.Context, id uuid.UUID, symbol string) (string, error) {
	ls, err := s.acquire(ctx, id)
	if err != nil {
		return "", err
	}
	defer ls.mu.Unlock()

	sol, ok := ls.reasoner.SolveFor(symbol)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotSolvable, symbol)
	}
	return sol.String(), nil
}

func (s *SessionService) Verify(ctx context.Context, id uuid.UUID, hypothesis string) (bool, error) {
	ls, err := s.acquire(ctx, id)
	if err != nil {
		return false, err
	}
	defer ls.mu.Unlock()
	return ls.reasoner.VerifyHypothesis(hypothesis)
}

func (s *SessionService) Think(ctx context.Context, id uuid.UUID, in ThinkInput) (*ThinkResult, error) {
	if in.Cycles > s.maxThinkCycles {
		return nil, fmt.Errorf("%w: %d cycles exceeds the limit of %d", ErrInvalidThinkArgs, in.Cycles, s.maxThinkCycles)
	}
	ls, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()

	chance := ls.meta.CreativityChance
	if in.CreativityChance != nil {
		chance = *in.CreativityChance
	}
	if in.Seed != nil {
		ls.rng = rand.New(rand.NewSource(*in.Seed))
	}

	start := s.now()
	report, err := ls.reasoner.ThinkForItself(in.Cycles, chance, ls.rng)
	if err != nil {
		return nil, err
	}
	explorerCycles.WithLabelValues(domain.CycleStochastic).Add(float64(report.Stochastic))
	explorerCycles.WithLabelValues(domain.CycleRoutine).Add(float64(report.Routine))
	explorerOutcomes.WithLabelValues(OutcomeDiscovery.String()).Add(float64(report.Discoveries))
	explorerOutcomes.WithLabelValues(OutcomeRejected.String()).Add(float64(report.Rejected))
	explorerOutcomes.WithLabelValues(OutcomeSkipped.String()).Add(float64(report.Skipped))

	s.logger.Info("thinking finished",
		zap.String("session_id", id.String()),
		zap.Int("cycles", report.Cycles),
		zap.Int("discoveries", report.Discoveries),
		zap.Int("rejected", report.Rejected),
		zap.Int("skipped", report.Skipped),
		zap.Duration("took", s.now().Sub(start)))

	if report.Discoveries > 0 {
		if err := s.persist(ctx, ls); err != nil {
			return nil, err
		}
	}
	return &ThinkResult{
		Report:   report,
		Events:   ls.events.Reset(),
		Snapshot: ls.reasoner.Snapshot(),
	}, nil
}

// EvictIdle drops in-memory sessions unused for longer than maxIdle. It
// only runs with a store, since evicted sessions are restored from it on
// next use.
func (s *SessionService) EvictIdle(maxIdle time.Duration) int {
	if s.store == nil {
		return 0
	}
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, ls := range s.sessions {
		if !ls.mu.TryLock() {
			continue
		}
		if ls.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
		ls.mu.Unlock()
	}
	activeSessions.Set(float64(len(s.sessions)))
	return evicted
}
