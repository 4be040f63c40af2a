// Package ai produces short analyst texts through the Gemini generateContent API.
// Generation never fails from the caller's point of view: when every model and retry is exhausted,
// or the breaker is open, the configured fallback text is returned.
package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
	"github.com/Vodeneev/hoopsedge/internal/pkg/retry"
)

const breakerName = "gemini"

var errEmptyResponse = errors.New("empty response")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GeminiClient tries each configured model in order; a full pass over the models is one attempt.
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	models     []string
	genConfig  generationConfig
	fallback   string
	policy     *retry.Policy
	breaker    *gobreaker.CircuitBreaker[string]
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

func NewGeminiClient(cfg *config.AIConfig, recorder *metrics.Recorder, logger *slog.Logger) *GeminiClient {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ai")

	c := &GeminiClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		models:     append([]string(nil), cfg.Models...),
		genConfig: generationConfig{
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		fallback: cfg.FallbackText,
		policy:   retry.NewPolicy(cfg.RetryAttempts, cfg.RetryInitialDelay, cfg.RetryMaxDelay),
		metrics:  recorder,
		logger:   logger,
	}
	c.breaker = retry.NewBreaker[string](retry.BreakerConfig{
		Name:             breakerName,
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerTimeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			recorder.BreakerOpen(name, to == gobreaker.StateOpen)
		},
	})
	return c
}

// Generate returns the model text for prompt, or the fallback text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) string {
	if c.apiKey == "" {
		c.metrics.AIResult(true)
		return c.fallback
	}

	text, err := c.breaker.Execute(func() (string, error) {
		var out string
		err := c.policy.Execute(ctx, func(ctx context.Context) error {
			t, err := c.cycle(ctx, prompt)
			if err != nil {
				c.logger.Warn("generation cycle failed", "error", err)
				return err
			}
			out = t
			return nil
		})
		return out, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("generation skipped, breaker open")
		} else {
			c.logger.Error("generation exhausted, using fallback text", "error", err)
		}
		c.metrics.AIResult(true)
		return c.fallback
	}

	c.metrics.AIResult(false)
	return text
}

// Fallback returns the text used when generation is unavailable.
func (c *GeminiClient) Fallback() string {
	return c.fallback
}

func (c *GeminiClient) cycle(ctx context.Context, prompt string) (string, error) {
	var errs []error
	for _, model := range c.models {
		text, err := c.generateWith(ctx, model, prompt)
		c.metrics.AIRequest(model, err)
		if err == nil {
			return text, nil
		}
		c.logger.Debug("model failed", "model", model, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", model, err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}

func (c *GeminiClient) generateWith(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: c.genConfig,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > 200 {
			body = body[:200]
		}
		return "", fmt.Errorf("status=%d, body=%s", resp.StatusCode, body)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// Static always returns the same text. It stands in for the model in dry runs.
type Static string

func (s Static) Generate(context.Context, string) string { return string(s) }
