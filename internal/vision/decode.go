package vision

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/vbonduro/nutrisnap/internal/domain"
)

// The wire types mirror the model schema with pointer fields so absent keys
// can be told apart from zero values before anything reaches the domain type.
type wireResult struct {
	FoodName       *string     `json:"foodName"`
	CuisineType    *string     `json:"cuisineType"`
	Calories       *float64    `json:"calories"`
	Macronutrients *wireMacros `json:"macronutrients"`
	InsightSummary *string     `json:"insightSummary"`
	DietaryTags    []string    `json:"dietaryTags"`
	Recipe         *wireRecipe `json:"recipe"`
	AllergenAlert  *wireAlert  `json:"allergenAlert"`
}

type wireMacros struct {
	ProteinG *float64 `json:"proteinG"`
	CarbsG   *float64 `json:"carbsG"`
	FatG     *float64 `json:"fatG"`
}

type wireRecipe struct {
	Title        *string  `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

type wireAlert struct {
	RiskLevel *string  `json:"riskLevel"`
	Detected  []string `json:"detected"`
	Advice    *string  `json:"advice"`
}

// DecodeResult converts raw model output into a complete AnalysisResult.
// Markdown code fences around the JSON are tolerated. Invalid JSON yields a
// *ParseError; valid JSON with missing or out-of-range fields yields a
// *SchemaError. The document is accepted whole or rejected whole; a partial
// result is never returned.
func DecodeResult(raw string) (*domain.AnalysisResult, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, &ParseError{Snippet: Snippet(raw), Err: errors.New("empty response")}
	}

	var w wireResult
	if err := json.Unmarshal([]byte(cleaned), &w); err != nil {
		return nil, &ParseError{Snippet: Snippet(cleaned), Err: err}
	}

	return w.toDomain()
}

func (w *wireResult) toDomain() (*domain.AnalysisResult, error) {
	var bad []string
	need := func(ok bool, field string) {
		if !ok {
			bad = append(bad, field)
		}
	}

	need(w.FoodName != nil, "foodName")
	need(w.CuisineType != nil, "cuisineType")
	need(w.Calories != nil, "calories")
	need(w.InsightSummary != nil, "insightSummary")

	need(w.Macronutrients != nil, "macronutrients")
	if w.Macronutrients != nil {
		need(w.Macronutrients.ProteinG != nil, "macronutrients.proteinG")
		need(w.Macronutrients.CarbsG != nil, "macronutrients.carbsG")
		need(w.Macronutrients.FatG != nil, "macronutrients.fatG")
	}

	need(w.Recipe != nil, "recipe")
	if w.Recipe != nil {
		need(w.Recipe.Title != nil, "recipe.title")
		need(w.Recipe.Ingredients != nil, "recipe.ingredients")
		need(w.Recipe.Instructions != nil, "recipe.instructions")
	}

	need(w.AllergenAlert != nil, "allergenAlert")
	if w.AllergenAlert != nil {
		need(w.AllergenAlert.RiskLevel != nil && validRisk(*w.AllergenAlert.RiskLevel), "allergenAlert.riskLevel")
		need(w.AllergenAlert.Detected != nil, "allergenAlert.detected")
		need(w.AllergenAlert.Advice != nil, "allergenAlert.advice")
	}

	if len(bad) > 0 {
		return nil, &SchemaError{Fields: bad}
	}

	// dietaryTags is the one optional field; normalize absent to empty.
	tags := w.DietaryTags
	if tags == nil {
		tags = []string{}
	}

	return &domain.AnalysisResult{
		FoodName:    *w.FoodName,
		CuisineType: *w.CuisineType,
		Calories:    *w.Calories,
		Macronutrients: domain.Macronutrients{
			ProteinG: *w.Macronutrients.ProteinG,
			CarbsG:   *w.Macronutrients.CarbsG,
			FatG:     *w.Macronutrients.FatG,
		},
		InsightSummary: *w.InsightSummary,
		DietaryTags:    tags,
		Recipe: domain.Recipe{
			Title:        *w.Recipe.Title,
			Ingredients:  w.Recipe.Ingredients,
			Instructions: w.Recipe.Instructions,
		},
		AllergenAlert: domain.AllergenAlert{
			RiskLevel: domain.RiskLevel(*w.AllergenAlert.RiskLevel),
			Detected:  w.AllergenAlert.Detected,
			Advice:    *w.AllergenAlert.Advice,
		},
	}, nil
}

func validRisk(s string) bool {
	switch domain.RiskLevel(s) {
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
		return true
	}
	return false
}

// stripCodeFence removes a surrounding markdown code fence, with or without a
// language tag, from model output.
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = t[3:]
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	}
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
