package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/nutrisnap/internal/vision"
)

const analysisJSON = `{
	"foodName": "Margherita Pizza",
	"cuisineType": "Italian",
	"calories": 850,
	"macronutrients": {"proteinG": 32, "carbsG": 98, "fatG": 35},
	"insightSummary": "A classic wood-fired pizza that leans heavily on carbs.",
	"dietaryTags": ["Vegetarian"],
	"recipe": {
		"title": "Homemade Margherita Pizza",
		"ingredients": ["250g pizza dough", "100g mozzarella", "80g tomato sauce", "Fresh basil"],
		"instructions": ["Stretch the dough.", "Top and bake at 250C for 8 minutes."]
	},
	"allergenAlert": {
		"riskLevel": "Medium",
		"detected": ["gluten", "dairy"],
		"advice": "Contains wheat flour and mozzarella."
	}
}`

// messageResponse wraps text in the Messages API response envelope.
func messageResponse(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-test",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"usage":       map[string]int{"input_tokens": 12, "output_tokens": 34},
	})
	require.NoError(t, err)
	return body
}

func newTestAnalyzer(t *testing.T, handler http.HandlerFunc) *ClaudeAnalyzer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	analyzer := NewClaudeAnalyzer("sk-test", "claude-test")
	analyzer.client = anthropic.NewClient("sk-test", anthropic.WithBaseURL(server.URL))
	return analyzer
}

func TestClaudeAnalyze(t *testing.T) {
	imageData := []byte("fake-image-bytes")

	var gotPath string
	var gotBody struct {
		Model     string `json:"model"`
		System    string `json:"system"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content []struct {
				Type   string `json:"type"`
				Text   string `json:"text"`
				Source struct {
					Type      string `json:"type"`
					MediaType string `json:"media_type"`
					Data      string `json:"data"`
				} `json:"source"`
			} `json:"content"`
		} `json:"messages"`
	}

	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(messageResponse(t, analysisJSON))
	})

	result, err := analyzer.Analyze(context.Background(), bytes.NewReader(imageData), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "/messages", gotPath)
	assert.Equal(t, "claude-test", gotBody.Model)
	assert.Contains(t, gotBody.System, "NutriSnap AI")
	assert.Equal(t, maxTokens, gotBody.MaxTokens)

	require.Len(t, gotBody.Messages, 1)
	require.Len(t, gotBody.Messages[0].Content, 2)
	assert.Equal(t, "user", gotBody.Messages[0].Role)

	image := gotBody.Messages[0].Content[0]
	assert.Equal(t, "image", image.Type)
	assert.Equal(t, "base64", image.Source.Type)
	assert.Equal(t, "image/jpeg", image.Source.MediaType)
	decoded, err := base64.StdEncoding.DecodeString(image.Source.Data)
	require.NoError(t, err)
	assert.Equal(t, imageData, decoded)

	text := gotBody.Messages[0].Content[1]
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, vision.UserPrompt, text.Text)

	assert.Equal(t, "Margherita Pizza", result.FoodName)
	assert.Equal(t, 850.0, result.Calories)
	assert.Equal(t, 32.0, result.Macronutrients.ProteinG)
	assert.Equal(t, []string{"gluten", "dairy"}, result.AllergenAlert.Detected)
}

func TestClaudeAnalyzeAPIError(t *testing.T) {
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprintln(w, "rate limited")
	})

	result, err := analyzer.Analyze(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	require.Error(t, err)
	assert.Nil(t, result)

	var statusErr *vision.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "429")
}

func TestClaudeAnalyzeStructuredAPIError(t *testing.T) {
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "Too many requests, slow down."}}`))
	})

	_, err := analyzer.Analyze(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")

	var statusErr *vision.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "slow down")
}

func TestClaudeAnalyzeNonJSONText(t *testing.T) {
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(messageResponse(t, "This looks like a delicious pizza!"))
	})

	result, err := analyzer.Analyze(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	require.Error(t, err)
	assert.Nil(t, result)

	var parseErr *vision.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Snippet, "delicious pizza")
}
