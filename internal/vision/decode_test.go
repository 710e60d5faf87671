package vision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/nutrisnap/internal/domain"
)

const validPayload = `{
  "foodName": "Chicken Caesar Salad",
  "cuisineType": "American",
  "calories": 520,
  "macronutrients": { "proteinG": 38, "carbsG": 18, "fatG": 33 },
  "insightSummary": "A protein-packed salad that stays light on carbs.",
  "dietaryTags": ["High-Protein", "Low-Carb"],
  "recipe": {
    "title": "Classic Chicken Caesar",
    "ingredients": ["2 grilled chicken breasts", "1 romaine heart", "30 g parmesan"],
    "instructions": ["Grill the chicken.", "Toss with dressing and serve."]
  },
  "allergenAlert": {
    "riskLevel": "Medium",
    "detected": ["dairy", "egg"],
    "advice": "Contains dairy and egg; swap the dressing to avoid both."
  }
}`

func TestDecodeResult(t *testing.T) {
	result, err := DecodeResult(validPayload)
	require.NoError(t, err)

	assert.Equal(t, "Chicken Caesar Salad", result.FoodName)
	assert.Equal(t, "American", result.CuisineType)
	assert.Equal(t, 520.0, result.Calories)
	assert.Equal(t, 38.0, result.Macronutrients.ProteinG)
	assert.Equal(t, 18.0, result.Macronutrients.CarbsG)
	assert.Equal(t, 33.0, result.Macronutrients.FatG)
	assert.Equal(t, []string{"High-Protein", "Low-Carb"}, result.DietaryTags)
	assert.Equal(t, "Classic Chicken Caesar", result.Recipe.Title)
	assert.Len(t, result.Recipe.Ingredients, 3)
	assert.Len(t, result.Recipe.Instructions, 2)
	assert.Equal(t, domain.RiskMedium, result.AllergenAlert.RiskLevel)
	assert.Equal(t, []string{"dairy", "egg"}, result.AllergenAlert.Detected)
}

func TestDecodeResultStripsCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "json fence", raw: "```json\n" + validPayload + "\n```"},
		{name: "bare fence", raw: "```\n" + validPayload + "\n```"},
		{name: "fence with surrounding whitespace", raw: "\n\n```json\n" + validPayload + "\n```\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeResult(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "Chicken Caesar Salad", result.FoodName)
		})
	}
}

func TestDecodeResultNotJSON(t *testing.T) {
	result, err := DecodeResult("I am sorry, I cannot identify the meal in this photo.")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Nil(t, result)
	assert.NotEmpty(t, parseErr.Snippet)
}

func TestDecodeResultEmpty(t *testing.T) {
	_, err := DecodeResult("   \n  ")

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeResultMissingFields(t *testing.T) {
	result, err := DecodeResult(`{"foodName": "Toast", "calories": 180}`)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Nil(t, result, "a partial document must not produce a partial result")
	assert.Contains(t, schemaErr.Fields, "cuisineType")
	assert.Contains(t, schemaErr.Fields, "macronutrients")
	assert.Contains(t, schemaErr.Fields, "recipe")
	assert.Contains(t, schemaErr.Fields, "allergenAlert")
	assert.NotContains(t, schemaErr.Fields, "foodName")
	assert.NotContains(t, schemaErr.Fields, "calories")
}

func TestDecodeResultMissingNestedField(t *testing.T) {
	payload := strings.Replace(validPayload, `"proteinG": 38, `, "", 1)

	_, err := DecodeResult(payload)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"macronutrients.proteinG"}, schemaErr.Fields)
}

func TestDecodeResultInvalidRiskLevel(t *testing.T) {
	payload := strings.Replace(validPayload, `"riskLevel": "Medium"`, `"riskLevel": "Severe"`, 1)

	_, err := DecodeResult(payload)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"allergenAlert.riskLevel"}, schemaErr.Fields)
}

func TestDecodeResultMissingDietaryTags(t *testing.T) {
	payload := strings.Replace(validPayload, `"dietaryTags": ["High-Protein", "Low-Carb"],`, "", 1)

	result, err := DecodeResult(payload)
	require.NoError(t, err, "dietaryTags is optional")
	assert.NotNil(t, result.DietaryTags)
	assert.Empty(t, result.DietaryTags)
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "collapses whitespace",
			raw:      "a\n\n  b\tc",
			expected: "a b c",
		},
		{
			name:     "truncates long input",
			raw:      strings.Repeat("x", 500),
			expected: strings.Repeat("x", 160) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Snippet(tt.raw))
		})
	}
}
