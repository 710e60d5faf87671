package web

import (
	"context"
	"fmt"
	"html/template"
	"math"

	"github.com/vbonduro/nutrisnap/internal/domain"
)

// homeView is the data behind the full page and the #app fragment.
type homeView struct {
	Goal     domain.DailyGoal
	HasPhoto bool
	Result   *resultView
}

// resultView decorates an analysis result with the goal comparisons and
// styling decisions the templates need.
type resultView struct {
	*domain.AnalysisResult
	CaloriePercent int
	ProteinPercent int
	CarbsPercent   int
	FatPercent     int
	ProteinBar     int
	CarbsBar       int
	FatBar         int
	DonutGradient  template.CSS
	RiskColor      string
	AdviceClass    string
	Tags           []string
}

func newResultView(result *domain.AnalysisResult, goal domain.DailyGoal) *resultView {
	if result == nil {
		return nil
	}
	m := result.Macronutrients
	return &resultView{
		AnalysisResult: result,
		CaloriePercent: percentOfGoal(result.Calories, goal.Calories),
		ProteinPercent: percentOfGoal(m.ProteinG, goal.ProteinG),
		CarbsPercent:   percentOfGoal(m.CarbsG, goal.CarbsG),
		FatPercent:     percentOfGoal(m.FatG, goal.FatG),
		ProteinBar:     barWidth(m.ProteinG, goal.ProteinG),
		CarbsBar:       barWidth(m.CarbsG, goal.CarbsG),
		FatBar:         barWidth(m.FatG, goal.FatG),
		DonutGradient:  donutGradient(m),
		RiskColor:      riskColor(result.AllergenAlert.RiskLevel),
		AdviceClass:    adviceClass(result.AllergenAlert.RiskLevel),
		Tags:           resultTags(result),
	}
}

func (s *Server) buildHomeView(ctx context.Context, sessionID string) (*homeView, error) {
	goal, err := s.service.Goals(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result, err := s.service.Analysis(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	_, hasPhoto := s.service.Photo(sessionID)
	return &homeView{Goal: goal, HasPhoto: hasPhoto, Result: newResultView(result, goal)}, nil
}

// percentOfGoal reports value as a whole-number percentage of goal. A zero
// or negative goal yields 0 rather than a division blowup.
func percentOfGoal(value, goal float64) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(value / goal * 100))
}

// barWidth is percentOfGoal clamped to [0, 100] for progress bar widths.
func barWidth(value, goal float64) int {
	if goal <= 0 {
		return 0
	}
	ratio := value / goal
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return int(math.Round(ratio * 100))
}

// donutGradient builds the conic-gradient for the macro breakdown donut.
// Segments run protein, carbs, fat in that order to match the legend.
func donutGradient(m domain.Macronutrients) template.CSS {
	total := m.ProteinG + m.CarbsG + m.FatG
	if total <= 0 {
		return template.CSS("conic-gradient(#e9ecef 0% 100%)")
	}
	p := m.ProteinG / total * 100
	c := p + m.CarbsG/total*100
	return template.CSS(fmt.Sprintf(
		"conic-gradient(#36a2eb 0%% %.1f%%, #ffcd56 %.1f%% %.1f%%, #ff6384 %.1f%% 100%%)",
		p, p, c, c,
	))
}

func riskColor(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return "red"
	case domain.RiskMedium:
		return "orange"
	default:
		return "green"
	}
}

// adviceClass styles the allergen advice box: calm for low risk, warning
// otherwise.
func adviceClass(level domain.RiskLevel) string {
	if level == domain.RiskLow {
		return "advice-success"
	}
	return "advice-warning"
}

// resultTags is the pill row under the food name: cuisine first, then any
// dietary tags.
func resultTags(result *domain.AnalysisResult) []string {
	return append([]string{result.CuisineType}, result.DietaryTags...)
}
