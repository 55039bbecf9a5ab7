// Package gemini is a minimal client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/logger"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable is returned when every attempt hit an overloaded or
	// unreachable upstream.
	ErrUnavailable = errors.New("gemini is unavailable")
)

// StatusError is a non-retryable upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini returned status %d: %s", e.StatusCode, e.Body)
}

// DefaultBackoff waits 1s then 2s, giving three attempts in total.
var DefaultBackoff = []time.Duration{time.Second, 2 * time.Second}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	backoff []time.Duration
}

func NewClient(cfg config.GeminiConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		backoff: DefaultBackoff,
	}
}

// WithBackoff replaces the wait schedule between attempts.
func (c *Client) WithBackoff(backoff []time.Duration) *Client {
	cp := *c
	cp.backoff = backoff
	return &cp
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends a single user prompt and returns the first candidate's
// text. HTTP 503 and transport errors are retried per the backoff schedule.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= len(c.backoff); attempt++ {
		if attempt > 0 {
			wait := c.backoff[attempt-1]
			logger.Warn("Retrying Gemini request",
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}

		text, retry, err := c.do(ctx, body)
		if err == nil {
			return text, nil
		}
		if !retry {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, len(c.backoff)+1, lastErr)
}

func (c *Client) do(ctx context.Context, body []byte) (string, bool, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", true, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 500)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 500)}
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", false, nil
	}
	return out.Candidates[0].Content.Parts[0].Text, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
