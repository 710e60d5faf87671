package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/nutrisnap/internal/domain"
	"github.com/vbonduro/nutrisnap/internal/imaging"
	"github.com/vbonduro/nutrisnap/internal/vision"
)

// requestTimeout caps one generate call. Local models on CPU are slow, so
// this is much looser than the hosted adapters allow.
const requestTimeout = 5 * time.Minute

// request mirrors the Ollama /api/generate body. Format "json" constrains
// the model to emit a single JSON document, like Gemini's responseMimeType.
type request struct {
	Model  string   `json:"model"`
	System string   `json:"system"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Format string   `json:"format,omitempty"`
	Stream bool     `json:"stream"`
}

type response struct {
	Response string `json:"response"`
}

// OllamaAnalyzer runs the analysis against a local Ollama server. The model
// must be multimodal (llava, llama3.2-vision); a text-only model answers
// without ever seeing the photo.
type OllamaAnalyzer struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaAnalyzer(host, model string) *OllamaAnalyzer {
	return &OllamaAnalyzer{
		host:   host,
		model:  model,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (a *OllamaAnalyzer) Analyze(ctx context.Context, r io.Reader, _ string) (*domain.AnalysisResult, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	payload, err := json.Marshal(request{
		Model:  a.model,
		System: vision.SystemPrompt,
		Prompt: vision.UserPrompt,
		Images: []string{imaging.EncodeBase64(imageData)},
		Format: "json",
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
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
	if respBody.Response == "" {
		return nil, &vision.ParseError{Err: errors.New("response contained no text")}
	}

	return vision.DecodeResult(respBody.Response)
}
