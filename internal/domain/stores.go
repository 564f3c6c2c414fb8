package domain

import (
	"context"

	"github.com/google/uuid"
)

// SessionStore persists sessions and their facts.
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	List(ctx context.Context, limit int) ([]Session, error)
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceFacts atomically swaps the stored facts of a session.
	ReplaceFacts(ctx context.Context, sessionID uuid.UUID, facts []StoredFact) error
	// GetFacts returns axioms then truths, each in position order.
	GetFacts(ctx context.Context, sessionID uuid.UUID) ([]StoredFact, error)
}
