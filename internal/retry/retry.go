package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config holds the configuration for retry logic
type Config struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultConfig returns two retries one second apart
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		Delay:      time.Second,
	}
}

// ErrorChecker reports whether an error should trigger another attempt
type ErrorChecker func(err error) bool

// RetryableFunc is one attempt; attempt counts from zero
type RetryableFunc[T any] func(ctx context.Context, attempt int) (T, error)

// Options configures retry behavior
type Options struct {
	Config       Config
	ErrorChecker ErrorChecker
	Logger       *zap.Logger
	APIName      string
}

// Execute runs fn until it succeeds, fails with a non-retryable error or
// the retry budget is spent. The delay between attempts is fixed and is
// not applied after the last attempt.
func Execute[T any](ctx context.Context, opts Options, fn RetryableFunc[T]) (T, int, error) {
	var zero T
	var lastErr error

	attempts := 0
	for attempt := 0; attempt <= opts.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			if opts.Logger != nil {
				opts.Logger.Info("Retrying request",
					zap.String("api", opts.APIName),
					zap.Int("attempt", attempt+1),
					zap.Int("max_attempts", opts.Config.MaxRetries+1),
					zap.Duration("delay", opts.Config.Delay))
			}

			select {
			case <-ctx.Done():
				return zero, attempts, ctx.Err()
			case <-time.After(opts.Config.Delay):
			}
		}

		attempts++
		result, err := fn(ctx, attempt)
		if err == nil {
			return result, attempts, nil
		}
		lastErr = err

		if opts.ErrorChecker != nil && !opts.ErrorChecker(err) {
			return zero, attempts, err
		}

		if opts.Logger != nil {
			opts.Logger.Warn("Request attempt failed",
				zap.String("api", opts.APIName),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", opts.Config.MaxRetries+1),
				zap.Error(err))
		}

		if ctx.Err() != nil {
			return zero, attempts, ctx.Err()
		}
	}

	return zero, attempts, &RetryExhaustedError{
		APIName:  opts.APIName,
		Attempts: attempts,
		Err:      lastErr,
	}
}

// RetryExhaustedError represents an error when all retry attempts have been exhausted
type RetryExhaustedError struct {
	APIName  string
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s: %d attempts exhausted: %v", e.APIName, e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}
