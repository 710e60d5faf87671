package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vbonduro/nutrisnap/internal/domain"
)

// AnalysisStore persists at most one analysis result per session, stored as
// a JSON payload column.
type AnalysisStore struct {
	db *sql.DB
}

func NewAnalysisStore(db *sql.DB) *AnalysisStore {
	return &AnalysisStore{db: db}
}

func (s *AnalysisStore) Get(ctx context.Context, sessionID string) (*domain.AnalysisResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM analyses WHERE session_id = ?
	`, sessionID).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	result := &domain.AnalysisResult{}
	if err := json.Unmarshal([]byte(payload), result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis payload: %w", err)
	}

	return result, nil
}

// Replace overwrites the session's stored result with the new one. Callers
// must only reach this after a fully validated analysis.
func (s *AnalysisStore) Replace(ctx context.Context, sessionID string, result *domain.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (session_id, payload)
		VALUES (?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			payload     = excluded.payload,
			analyzed_at = datetime('now')
	`, sessionID, string(payload))
	if err != nil {
		return fmt.Errorf("failed to replace analysis: %w", err)
	}
	return nil
}
