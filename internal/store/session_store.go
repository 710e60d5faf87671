package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/nutrisnap/internal/domain"
)

// sqliteTimeLayout is the text form datetime('now') writes, always UTC.
// Values in this form compare chronologically as strings.
const sqliteTimeLayout = "2006-01-02 15:04:05"

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, id string) (*domain.Session, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id) VALUES (?)
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *SessionStore) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	session := &domain.Session{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, last_seen_at FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.CreatedAt, &session.LastSeenAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (s *SessionStore) Touch(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET last_seen_at = datetime('now') WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// PruneIdle deletes sessions last seen before cutoff and returns their IDs
// so callers can release state held outside the database. Child rows are
// removed explicitly rather than relying on the foreign_keys pragma.
func (s *SessionStore) PruneIdle(ctx context.Context, cutoff time.Time) ([]string, error) {
	cutoffText := cutoff.UTC().Format(sqliteTimeLayout)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM sessions WHERE last_seen_at < ?
	`, cutoffText)
	if err != nil {
		return nil, fmt.Errorf("failed to list idle sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating idle sessions: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM analyses WHERE session_id IN (SELECT id FROM sessions WHERE last_seen_at < ?)
	`, cutoffText); err != nil {
		return nil, fmt.Errorf("failed to prune analyses: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM goals WHERE session_id IN (SELECT id FROM sessions WHERE last_seen_at < ?)
	`, cutoffText); err != nil {
		return nil, fmt.Errorf("failed to prune goals: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE last_seen_at < ?
	`, cutoffText); err != nil {
		return nil, fmt.Errorf("failed to prune sessions: %w", err)
	}

	return ids, nil
}
