package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/nutrisnap/internal/domain"
	"github.com/vbonduro/nutrisnap/internal/imaging"
	"github.com/vbonduro/nutrisnap/internal/vision"
)

// sessionRepository is the subset of store.SessionStore that MealService requires.
type sessionRepository interface {
	Create(ctx context.Context, id string) (*domain.Session, error)
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Touch(ctx context.Context, id string) error
	PruneIdle(ctx context.Context, cutoff time.Time) ([]string, error)
}

// goalRepository is the subset of store.GoalStore that MealService requires.
type goalRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.DailyGoal, error)
	Set(ctx context.Context, sessionID string, goal domain.DailyGoal) error
}

// analysisRepository is the subset of store.AnalysisStore that MealService requires.
type analysisRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.AnalysisResult, error)
	Replace(ctx context.Context, sessionID string, result *domain.AnalysisResult) error
}

// photoCache is the subset of photocache.Cache that MealService requires.
type photoCache interface {
	Put(sessionID string, data []byte)
	Get(sessionID string) ([]byte, bool)
	Drop(sessionID string)
}

type MealService struct {
	sessions   sessionRepository
	goals      goalRepository
	analyses   analysisRepository
	analyzer   vision.MealAnalyzer
	photos     photoCache
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewMealService(
	sessions sessionRepository,
	goals goalRepository,
	analyses analysisRepository,
	analyzer vision.MealAnalyzer,
	photos photoCache,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *MealService {
	return &MealService{
		sessions:   sessions,
		goals:      goals,
		analyses:   analyses,
		analyzer:   analyzer,
		photos:     photos,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// EnsureSession returns the session for id, or creates a fresh one when id
// is empty or no longer known. New sessions start with the default goal.
// Creation is also when idle sessions get pruned; there is no background
// timer, so stale rows sit until the next visitor arrives.
func (s *MealService) EnsureSession(ctx context.Context, id string) (*domain.Session, error) {
	if id != "" {
		session, err := s.sessions.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
		if session != nil {
			if err := s.sessions.Touch(ctx, id); err != nil {
				return nil, fmt.Errorf("failed to touch session: %w", err)
			}
			return session, nil
		}
	}

	session, err := s.sessions.Create(ctx, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.goals.Set(ctx, session.ID, domain.DefaultGoal()); err != nil {
		return nil, fmt.Errorf("failed to seed default goal: %w", err)
	}
	s.logger.Info("session created", "session_id", session.ID)

	pruned, err := s.sessions.PruneIdle(ctx, time.Now().Add(-s.sessionTTL))
	if err != nil {
		s.logger.Error("failed to prune idle sessions", "error", err)
	}
	for _, prunedID := range pruned {
		s.photos.Drop(prunedID)
	}
	if len(pruned) > 0 {
		s.logger.Info("pruned idle sessions", "count", len(pruned))
	}

	return session, nil
}

func (s *MealService) Goals(ctx context.Context, sessionID string) (domain.DailyGoal, error) {
	goal, err := s.goals.Get(ctx, sessionID)
	if err != nil {
		return domain.DailyGoal{}, fmt.Errorf("failed to get goal: %w", err)
	}
	if goal == nil {
		return domain.DefaultGoal(), nil
	}
	return *goal, nil
}

// UpdateGoals replaces all four targets at once.
func (s *MealService) UpdateGoals(ctx context.Context, sessionID string, goal domain.DailyGoal) error {
	if err := s.goals.Set(ctx, sessionID, goal); err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	s.logger.Info("goals updated", "session_id", sessionID, "calories", goal.Calories)
	return nil
}

func (s *MealService) Analysis(ctx context.Context, sessionID string) (*domain.AnalysisResult, error) {
	return s.analyses.Get(ctx, sessionID)
}

// AnalyzeMeal re-encodes the upload, caches it for display, and replaces the
// session's stored result with the model's analysis. The cached photo updates
// even when analysis fails; the stored result only changes after the model
// returns a fully valid document.
func (s *MealService) AnalyzeMeal(ctx context.Context, sessionID string, imageData []byte) (*domain.AnalysisResult, error) {
	s.logger.Info("meal analysis started", "session_id", sessionID, "bytes", len(imageData))

	jpegData, err := imaging.ReencodeJPEG(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode image: %w", err)
	}
	s.photos.Put(sessionID, jpegData)

	result, err := s.analyzer.Analyze(ctx, bytes.NewReader(jpegData), "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to analyze meal: %w", err)
	}

	if err := s.analyses.Replace(ctx, sessionID, result); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	s.logger.Info("meal analysis complete", "session_id", sessionID, "food", result.FoodName, "calories", result.Calories)
	return result, nil
}

// Photo returns the session's cached photo, if any.
func (s *MealService) Photo(sessionID string) ([]byte, bool) {
	return s.photos.Get(sessionID)
}
