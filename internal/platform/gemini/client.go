package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"cardforge/internal/config"
	"cardforge/internal/generation"
)

// ErrEmptyPrompt is returned when a completion is requested for an
// empty prompt.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// Params are the tunable knobs of a single model call. Zero values fall
// back to provider defaults rather than being sent.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// generateFunc is the transport call the client retries. Tests swap it
// for a fake; production wires the genai SDK.
type generateFunc func(ctx context.Context, params Params, prompt string) (*genai.GenerateContentResponse, error)

// Client implements generation.Generator using Google's Gemini API.
type Client struct {
	logger   *slog.Logger
	config   config.LLMConfig
	generate generateFunc
	rng      *rand.Rand

	// paramsFn resolves the call parameters per request, so runtime
	// settings changes apply without rebuilding the client. Defaults
	// to the startup configuration.
	paramsFn func() Params

	// backoffFn overrides the backoff computation in tests.
	backoffFn func(baseSeconds, attempt int) time.Duration
}

// NewClient creates a Gemini-backed generator from the LLM configuration.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", generation.ErrInvalidConfig, err)
	}

	client := &Client{
		logger: logger.With("component", "gemini_client"),
		config: cfg,
		generate: func(ctx context.Context, params Params, prompt string) (*genai.GenerateContentResponse, error) {
			contents := []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}
			gc := &genai.GenerateContentConfig{
				ResponseMIMEType: "application/json",
			}
			if params.Temperature > 0 {
				gc.Temperature = genai.Ptr(float32(params.Temperature))
			}
			if params.MaxTokens > 0 {
				gc.MaxOutputTokens = int32(params.MaxTokens)
			}
			return cli.Models.GenerateContent(ctx, params.Model, contents, gc)
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	client.paramsFn = client.configParams
	return client, nil
}

// configParams derives call parameters from the startup configuration.
func (c *Client) configParams() Params {
	return Params{
		Model:       c.config.ModelName,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
}

// SetParamsResolver overrides how call parameters are resolved. The
// resolver runs once per completion, before the first attempt. Must be
// set before the client serves requests.
func (c *Client) SetParamsResolver(fn func() Params) {
	if fn != nil {
		c.paramsFn = fn
	}
}

// GenerateCompletion sends the prompt to the model and returns the raw
// completion text. Transient transport failures are retried with
// exponential backoff and jitter; safety blocks and malformed responses
// return immediately.
func (c *Client) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	maxRetries := c.config.MaxRetries
	if maxRetries < 0 {
		c.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	baseDelaySeconds := c.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	params := c.configParams()
	if c.paramsFn != nil {
		params = c.paramsFn()
	}
	if params.Model == "" {
		params.Model = c.config.ModelName
	}
	if params.Temperature <= 0 {
		params.Temperature = c.config.Temperature
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = c.config.MaxTokens
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		c.logger.InfoContext(ctx, "calling gemini",
			"model", params.Model,
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		resp, err := c.attempt(ctx, params, prompt)
		if err == nil {
			var text string
			text, err = extractText(resp)
			if err == nil {
				c.logger.InfoContext(ctx, "gemini call successful",
					"attempt", attemptNum,
					"response_length", len(text))
				return text, nil
			}
		}

		c.logger.ErrorContext(ctx, "gemini call failed",
			"attempt", attemptNum,
			"error", err)

		// Response-shape and safety errors never resolve on retry.
		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		delay := c.backoff(baseDelaySeconds, attempt)
		c.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			c.logger.WarnContext(ctx, "call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// attempt runs one transport call under the configured per-call timeout.
// The parent context still cancels the whole completion; the timeout only
// bounds a single attempt, so a hung call is retried instead of stalling
// the worker.
func (c *Client) attempt(ctx context.Context, params Params, prompt string) (*genai.GenerateContentResponse, error) {
	if c.config.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.config.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	return c.generate(ctx, params, prompt)
}

// backoff computes delay = base * 2^attempt scaled by a jitter factor in
// [0.5, 1.0).
func (c *Client) backoff(baseSeconds, attempt int) time.Duration {
	if c.backoffFn != nil {
		return c.backoffFn(baseSeconds, attempt)
	}
	backoffSeconds := float64(baseSeconds) * math.Pow(2, float64(attempt))
	jitter := 0.5 + c.rng.Float64()*0.5
	return time.Duration(backoffSeconds * jitter * float64(time.Second))
}

// extractText pulls the completion text out of a response, classifying
// empty and safety-blocked responses as permanent errors.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		b.WriteString(part.Text)
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: blank completion text", generation.ErrInvalidResponse)
	}
	return text, nil
}
