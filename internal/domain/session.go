package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the metadata of one reasoning session.
type Session struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Verification     VerificationMode `json:"verification"`
	Learning         LearningPolicy   `json:"learning"`
	CreativityChance float64          `json:"creativity_chance"`
	Seed             int64            `json:"seed"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// StoredFact is the persisted form of a Fact.
type StoredFact struct {
	SessionID uuid.UUID `json:"session_id"`
	Kind      FactKind  `json:"kind"`
	Position  int       `json:"position"`
	Equation  string    `json:"equation"`
}
