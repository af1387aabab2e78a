package core

import (
	"context"
	"errors"
)

var (
	// ErrModelUnavailable is returned when the model backend could not be reached
	// within the retry budget
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInvalidOutput is returned when the model replied but no valid category
	// could be extracted from the reply
	ErrInvalidOutput = errors.New("invalid model output")
)

// LLMClient defines the interface for classifying emails with a language model
type LLMClient interface {
	// ClassifyEmail returns a result with a valid category, or an error wrapping
	// ErrModelUnavailable or ErrInvalidOutput
	ClassifyEmail(ctx context.Context, email *Email) (*ClassificationResult, error)
}

// RuleClassifier defines the deterministic fallback classifier
type RuleClassifier interface {
	// Classify always returns a match with a valid category
	Classify(email *Email) RuleMatch
}

// CacheRepository defines the interface for caching model classifications
type CacheRepository interface {
	// Get retrieves a live cached entry for a fingerprint
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
