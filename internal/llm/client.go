// Package llm classifies emails with a text-generation backend. Backends
// implement Generator; Client adds prompting, parsing, normalization and the
// retry policy on top.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/prompt"
	"github.com/mikey/llm-mail-classifier/internal/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Generator sends one prompt to a model backend and returns its raw text.
// A reply that arrived but cannot be read must be reported with an error
// wrapping core.ErrInvalidOutput; any other error is treated as transient.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// BreakerConfig configures the circuit breaker around backend calls
type BreakerConfig struct {
	Enabled     bool
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Options configures a Client
type Options struct {
	Timeout time.Duration
	Retry   retry.Config
	Breaker BreakerConfig
}

// DefaultOptions returns a 10 second timeout and two retries one second
// apart. The breaker is off; when enabled it opens after five consecutive
// unavailable classifications.
func DefaultOptions() Options {
	return Options{
		Timeout: 10 * time.Second,
		Retry:   retry.DefaultConfig(),
		Breaker: BreakerConfig{
			Enabled:     false,
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
		},
	}
}

// Client is an implementation of the core.LLMClient interface
type Client struct {
	generator Generator
	builder   *prompt.Builder
	opts      Options
	breaker   *gobreaker.TwoStepCircuitBreaker
	inflight  *semaphore.Weighted
	logger    *zap.Logger
}

// NewClient creates a new model classification client
func NewClient(generator Generator, builder *prompt.Builder, opts Options, logger *zap.Logger) *Client {
	c := &Client{
		generator: generator,
		builder:   builder,
		opts:      opts,
		inflight:  semaphore.NewWeighted(1),
		logger:    logger,
	}

	if opts.Breaker.Enabled {
		maxFailures := opts.Breaker.MaxFailures
		c.breaker = gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
			Name:        "llm-" + generator.ModelName(),
			MaxRequests: 1,
			Timeout:     opts.Breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}

	return c
}

// ModelName returns the name of the backing model
func (c *Client) ModelName() string {
	return c.generator.ModelName()
}

// ClassifyEmail asks the model for the email's category. The breaker is
// consulted once per classification; an admitted classification always
// gets the full retry budget.
func (c *Client) ClassifyEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	if c.breaker != nil {
		done, err := c.breaker.Allow()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err)
		}
		result, err := c.classify(ctx, email)
		done(err == nil || errors.Is(err, core.ErrInvalidOutput))
		return result, err
	}
	return c.classify(ctx, email)
}

func (c *Client) classify(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	p := c.builder.Build(email)

	opts := retry.Options{
		Config:       c.opts.Retry,
		ErrorChecker: isTransient,
		Logger:       c.logger,
		APIName:      c.generator.ModelName(),
	}

	category, attempts, err := retry.Execute(ctx, opts, func(ctx context.Context, attempt int) (core.Category, error) {
		c.logger.Debug("Requesting model classification",
			zap.String("model", c.generator.ModelName()),
			zap.Int("attempt", attempt+1))
		return c.attempt(ctx, p)
	})
	if err != nil {
		if errors.Is(err, core.ErrInvalidOutput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err)
	}

	return &core.ClassificationResult{
		Category:   category,
		Source:     core.SourceModel,
		ModelUsed:  c.generator.ModelName(),
		Attempts:   attempts,
		AnalyzedAt: time.Now(),
	}, nil
}

// attempt performs one request with its own timeout
func (c *Client) attempt(ctx context.Context, p string) (core.Category, error) {
	if err := c.inflight.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.inflight.Release(1)

	attemptCtx := ctx
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	text, err := c.generator.Generate(attemptCtx, p)
	if err != nil {
		return "", err
	}
	c.logger.Debug("Model raw response", zap.String("response", text))

	raw := ParseCategory(text)
	category, ok := core.Normalize(raw)
	if !ok {
		return "", fmt.Errorf("%w: no valid category in reply (extracted %q)", core.ErrInvalidOutput, raw)
	}
	return category, nil
}

// isTransient reports whether a failed attempt may be retried
func isTransient(err error) bool {
	return !errors.Is(err, core.ErrInvalidOutput)
}
