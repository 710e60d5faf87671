package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/nutrisnap/internal/domain"
)

type GoalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{db: db}
}

func (s *GoalStore) Get(ctx context.Context, sessionID string) (*domain.DailyGoal, error) {
	goal := &domain.DailyGoal{}
	err := s.db.QueryRowContext(ctx, `
		SELECT calories, protein_g, carbs_g, fat_g FROM goals WHERE session_id = ?
	`, sessionID).Scan(&goal.Calories, &goal.ProteinG, &goal.CarbsG, &goal.FatG)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return goal, nil
}

// Set writes all four targets at once. A partial update is never possible;
// the handler always submits the full goal form.
func (s *GoalStore) Set(ctx context.Context, sessionID string, goal domain.DailyGoal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (session_id, calories, protein_g, carbs_g, fat_g)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			calories   = excluded.calories,
			protein_g  = excluded.protein_g,
			carbs_g    = excluded.carbs_g,
			fat_g      = excluded.fat_g,
			updated_at = datetime('now')
	`, sessionID, goal.Calories, goal.ProteinG, goal.CarbsG, goal.FatG)
	if err != nil {
		return fmt.Errorf("failed to set goal: %w", err)
	}
	return nil
}
