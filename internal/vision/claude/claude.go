package claude

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/nutrisnap/internal/domain"
	"github.com/vbonduro/nutrisnap/internal/vision"
)

// requestTimeout caps one Messages call, matching the gemini adapter. No
// retries.
const requestTimeout = 60 * time.Second

// maxTokens must fit the whole analysis document including the recipe;
// 2048 leaves headroom for verbose models.
const maxTokens = 2048

type ClaudeAnalyzer struct {
	client *anthropic.Client
	model  string
}

func NewClaudeAnalyzer(apiKey, model string) *ClaudeAnalyzer {
	return &ClaudeAnalyzer{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

func (a *ClaudeAnalyzer) Analyze(ctx context.Context, r io.Reader, mimeType string) (*domain.AnalysisResult, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		System:    vision.SystemPrompt,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(
					anthropic.NewMessageContentSource(anthropic.MessagesContentSourceTypeBase64, mimeType, imageData),
				),
				anthropic.NewTextMessageContent(vision.UserPrompt),
			},
		}},
	})
	if err != nil {
		var reqErr *anthropic.RequestError
		if errors.As(err, &reqErr) {
			return nil, &vision.StatusError{StatusCode: reqErr.StatusCode, Body: reqErr.Error()}
		}
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return nil, &vision.StatusError{StatusCode: apiStatusCode(apiErr), Body: apiErr.Message}
		}
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	return vision.DecodeResult(resp.GetFirstContentText())
}

// apiStatusCode recovers the HTTP status for a structured API error; the SDK
// keeps the code itself only for unstructured failures.
func apiStatusCode(e *anthropic.APIError) int {
	switch string(e.Type) {
	case "invalid_request_error":
		return http.StatusBadRequest
	case "authentication_error":
		return http.StatusUnauthorized
	case "permission_error":
		return http.StatusForbidden
	case "not_found_error":
		return http.StatusNotFound
	case "request_too_large":
		return http.StatusRequestEntityTooLarge
	case "rate_limit_error":
		return http.StatusTooManyRequests
	case "overloaded_error":
		// 529 is the documented overloaded status.
		return 529
	default:
		return http.StatusInternalServerError
	}
}
