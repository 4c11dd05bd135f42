package recommendations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"churn-backend/internal/shared/metrics"
	"churn-backend/internal/shared/telemetry"
)

// Client calls an OpenAI-compatible chat-completions endpoint to turn a
// churn-positive customer profile into retention advice. The API credential
// is supplied per call by the requesting client, not held by the service.
type Client struct {
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClient constructs a recommendation client. The timeout bounds the whole
// upstream call; there are no retries.
func NewClient(baseURL, model string, maxTokens int, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Recommend issues one chat-completions call for the given profile and
// returns a closed Result. It never returns an error: every failure path is
// classified into a Kind the caller can embed directly in a response.
func (c *Client) Recommend(ctx context.Context, profile []ProfileEntry, apiKey string) Result {
	res := c.recommend(ctx, profile, apiKey)
	metrics.RecommendationRequestsTotal.WithLabelValues(res.Kind.String()).Inc()
	return res
}

func (c *Client) recommend(ctx context.Context, profile []ProfileEntry, apiKey string) Result {
	if strings.TrimSpace(apiKey) == "" {
		return Result{Kind: KindMissingKey}
	}

	payload, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: BuildPrompt(profile)}},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return Result{Kind: KindUnknown}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Result{Kind: KindUnknown}
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		telemetry.Error("recommendations.request_failed", map[string]any{
			"err": err.Error(),
		})
		return Result{Kind: KindNetworkError}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Result{Kind: KindAuthFailed}
	case resp.StatusCode == http.StatusTooManyRequests:
		return Result{Kind: KindRateLimited}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		telemetry.Error("recommendations.upstream_error", map[string]any{
			"status": resp.StatusCode,
		})
		return Result{Kind: KindUpstreamError, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Kind: KindNetworkError}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		telemetry.Error("recommendations.parse_failed", map[string]any{
			"err": err.Error(),
		})
		return Result{Kind: KindUnknown}
	}
	if parsed.Error != nil {
		telemetry.Error("recommendations.api_error", map[string]any{
			"err":  parsed.Error.Message,
			"type": parsed.Error.Type,
		})
		return Result{Kind: KindUnknown}
	}
	if len(parsed.Choices) == 0 {
		return Result{Kind: KindUnknown}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return Result{Kind: KindUnknown}
	}
	return Result{Kind: KindOK, Recommendations: parseBullets(content)}
}
