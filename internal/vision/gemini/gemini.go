package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vbonduro/nutrisnap/internal/domain"
	"github.com/vbonduro/nutrisnap/internal/imaging"
	"github.com/vbonduro/nutrisnap/internal/vision"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// requestTimeout caps one generateContent call. There are no retries; a
// stuck call surfaces as an error after this long.
const requestTimeout = 60 * time.Second

// request types mirror the generateContent REST structure.
type request struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type GeminiAnalyzer struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

func NewGeminiAnalyzer(apiKey, model string) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: defaultBaseURL,
	}
}

// buildRequest constructs the generateContent payload for one photo.
// responseMimeType asks the model for bare JSON instead of prose.
func buildRequest(imageData []byte, mimeType string) request {
	return request{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: vision.UserPrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     imaging.EncodeBase64(imageData),
				}},
			},
		}},
		SystemInstruction: &content{Parts: []part{{Text: vision.SystemPrompt}}},
		GenerationConfig:  &generationConfig{ResponseMimeType: "application/json"},
	}
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, r io.Reader, mimeType string) (*domain.AnalysisResult, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	payload, err := json.Marshal(buildRequest(imageData, mimeType))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		a.baseURL, a.model, url.QueryEscape(a.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call gemini: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close gemini response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &vision.StatusError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, &vision.ParseError{Err: fmt.Errorf("failed to decode response envelope: %w", err)}
	}

	text := firstCandidateText(respBody)
	if text == "" {
		return nil, &vision.ParseError{Err: errors.New("response contained no candidate text")}
	}

	return vision.DecodeResult(text)
}

func firstCandidateText(r response) string {
	if len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}
