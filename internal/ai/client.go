package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hastkala/marketplace/internal/pkg/metrics"
	"golang.org/x/time/rate"
)

// ClientConfig configures the text-completion client.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	RateLimit float64
}

// Client calls a Gemini-style generateContent endpoint. One process-wide
// limiter throttles all generation requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	limiter    *rate.Limiter
}

// NewClient creates a text-completion client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Enabled reports whether the client is configured with an API key.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt and returns the model's text. The kind label is
// used for metrics only.
func (c *Client) Generate(ctx context.Context, kind, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	text, err := c.generate(ctx, prompt)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.AIRequestDuration.WithLabelValues(kind, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(raw), 256))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
