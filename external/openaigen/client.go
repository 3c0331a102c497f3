// Package openaigen wraps the OpenAI completion API behind the TextGenerator
// contract. Failure handling (the fallback description) lives with the
// caller; this client only reports errors.
package openaigen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/dugoutlabs/ballstats/internal/platform/logging"
	"github.com/dugoutlabs/ballstats/internal/platform/resilience"
)

const defaultModel = "gpt-3.5-turbo-instruct"

type ClientConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	api            *openai.Client
	model          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	apiCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		apiCfg.BaseURL = baseURL
	}
	if cfg.HTTPClient != nil {
		apiCfg.HTTPClient = cfg.HTTPClient
	} else {
		apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		model:          model,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Complete runs a single completion request under the token budget and
// returns the trimmed text of the first choice.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", crerr.New("prompt is required")
	}
	if maxTokens < 1 {
		maxTokens = 1
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "openai circuit breaker rejected request", "state", c.breaker.State())
			return "", fmt.Errorf("text generation is temporarily unavailable: %w", err)
		}
	}

	resp, err := c.api.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return "", crerr.Wrap(err, "create completion")
	}
	if c.circuitEnabled {
		c.breaker.RecordSuccess()
	}

	if len(resp.Choices) == 0 {
		return "", crerr.New("completion response contained no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Text), nil
}
