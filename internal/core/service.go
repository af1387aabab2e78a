package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ServiceOptions holds the tunables of the classification service
type ServiceOptions struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ClassificationService is the core service that decides an email's category.
// The model is consulted first and the rule cascade answers whenever the model
// cannot.
type ClassificationService struct {
	llmClient    LLMClient
	rules        RuleClassifier
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewClassificationService creates a new classification service.
// llmClient and cache may be nil.
func NewClassificationService(
	llmClient LLMClient,
	rules RuleClassifier,
	cache CacheRepository,
	logger *zap.Logger,
	opts ServiceOptions,
) *ClassificationService {
	return &ClassificationService{
		llmClient:    llmClient,
		rules:        rules,
		cache:        cache,
		logger:       logger,
		cacheEnabled: opts.CacheEnabled && cache != nil,
		cacheTTL:     opts.CacheTTL,
	}
}

// Classify returns the category of an email. It never fails.
func (s *ClassificationService) Classify(ctx context.Context, email *Email) Category {
	return s.ClassifyEmail(ctx, email).Category
}

// ClassifyBatch classifies emails one at a time in the order given
func (s *ClassificationService) ClassifyBatch(ctx context.Context, emails []*Email) []*ClassificationResult {
	results := make([]*ClassificationResult, 0, len(emails))
	for _, email := range emails {
		results = append(results, s.ClassifyEmail(ctx, email))
	}
	return results
}

// ClassifyEmail returns the detailed classification of an email.
// The returned result is never nil and always carries a valid category.
func (s *ClassificationService) ClassifyEmail(ctx context.Context, email *Email) *ClassificationResult {
	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, email.Fingerprint()); err == nil && entry.Category.IsValid() {
			s.logger.Debug("Cache hit for email",
				zap.String("sender", email.From),
				zap.String("category", entry.Category.String()))
			return &ClassificationResult{
				Category:   entry.Category,
				Source:     SourceCache,
				ModelUsed:  entry.ModelUsed,
				AnalyzedAt: time.Now(),
			}
		}
	}

	if s.llmClient != nil {
		result, err := s.llmClient.ClassifyEmail(ctx, email)
		switch {
		case err != nil:
			s.logger.Warn("Model classification failed, falling back to rules",
				zap.String("sender", email.From),
				zap.Error(err))
		case result == nil || !result.Category.IsValid():
			s.logger.Warn("Model returned no valid category, falling back to rules",
				zap.String("sender", email.From))
		default:
			s.remember(ctx, email, result)
			s.logger.Info("Email classified by model",
				zap.String("sender", email.From),
				zap.String("category", result.Category.String()),
				zap.String("model", result.ModelUsed))
			return result
		}
	}

	return s.classifyByRules(email)
}

func (s *ClassificationService) classifyByRules(email *Email) *ClassificationResult {
	match := s.rules.Classify(email)
	if !match.Category.IsValid() {
		s.logger.Error("Rule cascade returned an invalid category",
			zap.String("category", match.Category.String()),
			zap.String("rule", match.Rule))
		match = RuleMatch{Category: CategoryLowPriority, Rule: "default"}
	}

	s.logger.Info("Email classified by rules",
		zap.String("sender", email.From),
		zap.String("category", match.Category.String()),
		zap.String("rule", match.Rule),
		zap.String("field", match.Field),
		zap.String("term", match.Term))

	return &ClassificationResult{
		Category:   match.Category,
		Source:     SourceRules,
		Rule:       &match,
		AnalyzedAt: time.Now(),
	}
}

func (s *ClassificationService) remember(ctx context.Context, email *Email, result *ClassificationResult) {
	if !s.cacheEnabled {
		return
	}
	now := time.Now()
	entry := &CacheEntry{
		Key:       email.Fingerprint(),
		Category:  result.Category,
		ModelUsed: result.ModelUsed,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cacheTTL),
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.logger.Error("Failed to update cache", zap.Error(err))
	}
}
