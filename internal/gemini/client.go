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

	"taxwizard/internal/metrics"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash-exp"
	DefaultTimeout = 60 * time.Second

	// maxResponseSize caps the upstream body read (4MB)
	maxResponseSize = 4 * 1024 * 1024
)

var (
	// ErrNotConfigured is returned when no API key was provided
	ErrNotConfigured = errors.New("google AI API key not configured")
	// ErrUpstream covers transport failures, non-2xx answers and empty candidate lists
	ErrUpstream = errors.New("AI service unavailable")
)

// Config holds the completion endpoint settings
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the generateContent endpoint with a fixed generation config.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.APIKey == "" {
		logger.Warn("GOOGLE_AI_API_KEY not found, AI assistance will not work")
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool { return c.cfg.APIKey != "" }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

var fixedGenerationConfig = generationConfig{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 2048,
}

// Generate sends prompt as a single user turn and returns the first candidate's text unmodified.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		metrics.AICallsTotal.WithLabelValues(metrics.OutcomeNotConfigured).Inc()
		return "", ErrNotConfigured
	}

	start := time.Now()
	text, err := c.generate(ctx, prompt)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.AICallsTotal.WithLabelValues(outcome).Inc()
	metrics.AICallDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return text, err
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: fixedGenerationConfig,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, url.QueryEscape(c.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// the URL carries the key, log only the model
		c.logger.Error("AI request failed", zap.String("model", c.cfg.Model), zap.Error(errors.Unwrap(err)))
		return "", fmt.Errorf("%w: request failed", ErrUpstream)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.logger.Error("failed to read AI response", zap.Error(err))
		return "", fmt.Errorf("%w: unreadable response", ErrUpstream)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("AI service returned an error",
			zap.Int("status_code", resp.StatusCode),
			zap.Int("body_bytes", len(raw)),
		)
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Error("failed to decode AI response", zap.Error(err))
		return "", fmt.Errorf("%w: malformed response", ErrUpstream)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		c.logger.Error("no response from AI service")
		return "", fmt.Errorf("%w: no candidates", ErrUpstream)
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}
