package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/reason/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionStore struct {
	db *pgxpool.Pool
}

func NewSessionStore(db *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, sess *domain.Session) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO reasoning_sessions (id, name, verification, learning, creativity_chance, seed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		sess.ID, sess.Name, string(sess.Verification), string(sess.Learning), sess.CreativityChance, sess.Seed,
		sess.CreatedAt, sess.UpdatedAt,
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

const sessionColumns = `id, name, verification, learning, creativity_chance, seed, created_at, updated_at`

func scanSession(row pgx.Row) (*domain.Session, error) {
	sess := &domain.Session{}
	var verification, learning string
	err := row.Scan(&sess.ID, &sess.Name, &verification, &learning, &sess.CreativityChance, &sess.Seed,
		&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sess.Verification = domain.VerificationMode(verification)
	sess.Learning = domain.LearningPolicy(learning)
	return sess, nil
}

func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	sess, err := scanSession(s.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM reasoning_sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (s *SessionStore) List(ctx context.Context, limit int) ([]domain.Session, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM reasoning_sessions
		 ORDER BY created_at DESC, id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, rows.Err()
}

func (s *SessionStore) Touch(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE reasoning_sessions SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the session; its facts go with it through the foreign key.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM reasoning_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SessionStore) ReplaceFacts(ctx context.Context, sessionID uuid.UUID, facts []domain.StoredFact) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM session_facts WHERE session_id = $1`, sessionID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, f := range facts {
		batch.Queue(
			`INSERT INTO session_facts (session_id, kind, position, equation) VALUES ($1, $2, $3, $4)`,
			sessionID, string(f.Kind), f.Position, f.Equation)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range facts {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrNotFound
			}
			return fmt.Errorf("insert fact %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *SessionStore) GetFacts(ctx context.Context, sessionID uuid.UUID) ([]domain.StoredFact, error) {
	rows, err := s.db.Query(ctx,
		`SELECT session_id, kind, position, equation FROM session_facts
		 WHERE session_id = $1
		 ORDER BY CASE kind WHEN 'axiom' THEN 0 ELSE 1 END, position`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StoredFact
	for rows.Next() {
		var f domain.StoredFact
		var kind string
		if err := rows.Scan(&f.SessionID, &kind, &f.Position, &f.Equation); err != nil {
			return nil, err
		}
		f.Kind = domain.FactKind(kind)
		out = append(out, f)
	}
	return out, rows.Err()
}
