package vision

import (
	"context"
	"io"

	"github.com/vbonduro/nutrisnap/internal/domain"
)

// SystemPrompt instructs the model to answer with a single JSON document in
// the meal-analysis schema. All adapters send it verbatim.
const SystemPrompt = `You are NutriSnap AI, an expert food analyst.
Analyze the image of the meal and return a JSON object STRICTLY following this schema:
{
  "foodName": "string",
  "cuisineType": "string",
  "calories": number,
  "macronutrients": { "proteinG": number, "carbsG": number, "fatG": number },
  "insightSummary": "string (short, engaging 1-sentence summary)",
  "dietaryTags": ["string (e.g. Vegan, Keto, Gluten-Free, High-Protein)"],
  "recipe": {
    "title": "string",
    "ingredients": ["string (with quantities)"],
    "instructions": ["string"]
  },
  "allergenAlert": {
    "riskLevel": "Low | Medium | High",
    "detected": ["string"],
    "advice": "string"
  }
}`

// UserPrompt is the user-turn text sent alongside the photo.
const UserPrompt = "Analyze this food photo and return structured nutrition data."

// MealAnalyzer turns a meal photo into a structured analysis. Implementations
// return *StatusError, *ParseError, or *SchemaError for upstream and decoding
// failures so callers can tell the cases apart.
type MealAnalyzer interface {
	Analyze(ctx context.Context, r io.Reader, mimeType string) (*domain.AnalysisResult, error)
}
