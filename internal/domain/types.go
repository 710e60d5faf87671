package domain

import "time"

// Session identifies one browser session. All goals, analyses, and cached
// photos are keyed by session ID and vanish when the session is pruned or the
// process exits.
type Session struct {
	ID         string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// DailyGoal holds the per-session nutritional targets a meal is compared
// against.
type DailyGoal struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

// DefaultGoal returns the targets every new session starts with.
func DefaultGoal() DailyGoal {
	return DailyGoal{
		Calories: 2000,
		ProteinG: 120,
		CarbsG:   250,
		FatG:     65,
	}
}

type Macronutrients struct {
	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatG     float64 `json:"fatG"`
}

type Recipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// RiskLevel is the allergen severity reported by the model. Only the three
// listed values are valid; anything else is rejected during decoding.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

type AllergenAlert struct {
	RiskLevel RiskLevel `json:"riskLevel"`
	Detected  []string  `json:"detected"`
	Advice    string    `json:"advice"`
}

// AnalysisResult is one complete meal analysis. A session holds at most one;
// each successful analysis replaces the previous result wholesale.
type AnalysisResult struct {
	FoodName       string         `json:"foodName"`
	CuisineType    string         `json:"cuisineType"`
	Calories       float64        `json:"calories"`
	Macronutrients Macronutrients `json:"macronutrients"`
	InsightSummary string         `json:"insightSummary"`
	DietaryTags    []string       `json:"dietaryTags"`
	Recipe         Recipe         `json:"recipe"`
	AllergenAlert  AllergenAlert  `json:"allergenAlert"`
}
