package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"nudge-backend/config"
	"nudge-backend/domain"
)

// Result is the structured outcome of one model invocation.
type Result struct {
	Text      string
	Provider  string
	Model     string
	LatencyMS int64
}

// Summarizer is the single model-invocation surface the summary engine
// depends on. Tests substitute a deterministic implementation.
type Summarizer interface {
	Summarize(ctx context.Context, text string, key domain.ModelKey, promptVersion string) (*Result, error)
}

const promptTemplate = `You are a precise summarizer. Summarize the article below in at most 120 words.
Structure: one thesis sentence, then key points, then one sentence on why it matters.
Do not add facts that are not in the article. Begin directly with the summary.

ARTICLE:
---
%s
---
`

type generatePayload struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Client routes summary requests to the configured tier endpoint. A tier with
// no base URL falls back to a deterministic local generator, which keeps the
// end-to-end pipeline runnable before a provider is wired up.
type Client struct {
	cfg        config.LLMConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *Client) Summarize(ctx context.Context, text string, key domain.ModelKey, promptVersion string) (*Result, error) {
	tier := c.cfg.Tier(key)
	start := time.Now()

	if tier.BaseURL == "" {
		return c.placeholderSummary(key, promptVersion, start), nil
	}

	ctx, cancel := context.WithTimeout(ctx, tier.Timeout)
	defer cancel()

	payload := generatePayload{
		Model:  tier.Model,
		Prompt: fmt.Sprintf(promptTemplate, text),
		Stream: false,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tier.BaseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tier.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+tier.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summarizer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("summarizer returned status %d: %s", resp.StatusCode, string(body))
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return nil, fmt.Errorf("failed to decode summarizer response: %w", err)
	}

	if generated.Response == "" {
		return nil, fmt.Errorf("summarizer returned empty response")
	}

	latency := time.Since(start).Milliseconds()
	c.logger.InfoContext(ctx, "summary generated",
		"model_key", key,
		"model", tier.Model,
		"latency_ms", latency,
	)

	return &Result{
		Text:      generated.Response,
		Provider:  tier.Provider,
		Model:     tier.Model,
		LatencyMS: latency,
	}, nil
}

// placeholderSummary keeps output shape stable without a provider: under the
// word cap, no invented facts.
func (c *Client) placeholderSummary(key domain.ModelKey, promptVersion string, start time.Time) *Result {
	out := "Thesis: The provided text is available, but this placeholder does not perform true distillation.\n" +
		"Key points:\n" +
		"- A summary was requested for the item's canonical text.\n" +
		"- This implementation is a stub and should be replaced with a real model call.\n" +
		"Why it matters: It enables end-to-end plumbing before model integration."

	return &Result{
		Text:      out,
		Provider:  "placeholder",
		Model:     fmt.Sprintf("%s:%s", key, promptVersion),
		LatencyMS: time.Since(start).Milliseconds(),
	}
}
