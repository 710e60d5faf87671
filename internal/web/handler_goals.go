package web

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/nutrisnap/internal/domain"
)

func (s *Server) handleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	session, err := s.ensureSession(w, r)
	if err != nil {
		http.Error(w, "failed to resolve session", http.StatusInternalServerError)
		s.logger.Error("ensure session failed", "error", err)
		return
	}

	goal, err := parseGoalForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.service.UpdateGoals(r.Context(), session.ID, goal); err != nil {
		http.Error(w, "failed to update goals", http.StatusInternalServerError)
		s.logger.Error("update goals failed", "session_id", session.ID, "error", err)
		return
	}

	view, err := s.buildHomeView(r.Context(), session.ID)
	if err != nil {
		http.Error(w, "failed to load page", http.StatusInternalServerError)
		s.logger.Error("build home view failed", "session_id", session.ID, "error", err)
		return
	}

	if err := s.renderFragment(w, "app", view, "partials/app.html", "partials/results.html"); err != nil {
		s.logger.Error("render fragment failed", "error", err)
	}
}

// parseGoalForm reads the four goal fields. Every field must parse as a
// finite, non-negative number; the form always submits all of them.
func parseGoalForm(r *http.Request) (domain.DailyGoal, error) {
	goal := domain.DailyGoal{}
	fields := []struct {
		name string
		dst  *float64
	}{
		{"calories", &goal.Calories},
		{"protein_g", &goal.ProteinG},
		{"carbs_g", &goal.CarbsG},
		{"fat_g", &goal.FatG},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue(f.name)), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return domain.DailyGoal{}, fmt.Errorf("invalid %s value", f.name)
		}
		*f.dst = v
	}
	return goal, nil
}
