package factory

import (
	"context"
	"fmt"
	"io"

	"github.com/mikey/llm-mail-classifier/internal/adapters/bedrock"
	"github.com/mikey/llm-mail-classifier/internal/adapters/gemini"
	"github.com/mikey/llm-mail-classifier/internal/adapters/ollama"
	"github.com/mikey/llm-mail-classifier/internal/adapters/openai"
	"github.com/mikey/llm-mail-classifier/internal/config"
	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/llm"
	"github.com/mikey/llm-mail-classifier/internal/prompt"
	"github.com/mikey/llm-mail-classifier/internal/retry"
	"github.com/mikey/llm-mail-classifier/internal/utils"
	"go.uber.org/zap"
)

// ProviderNone disables the model; every email is classified by rules
const ProviderNone = "none"

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	closers       []io.Closer
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateGenerator creates the backend for the configured provider
func (f *LLMFactory) CreateGenerator(ctx context.Context, provider string) (llm.Generator, error) {
	switch provider {
	case "ollama":
		g, err := ollama.NewFactory(f.cfg, f.logger).CreateGenerator()
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openai":
		g, err := openai.NewFactory(f.cfg, f.logger).CreateGenerator()
		if err != nil {
			return nil, err
		}
		return g, nil
	case "gemini":
		g, err := gemini.NewFactory(f.cfg, f.logger).CreateGenerator(ctx)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, g)
		return g, nil
	case "bedrock":
		g, err := bedrock.NewFactory(f.cfg, f.logger).CreateGenerator(ctx)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// CreateLLMClient creates a new LLM client based on the configuration.
// It returns a nil client for the "none" provider.
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	if llmConfig.Provider == ProviderNone || llmConfig.Provider == "" {
		f.logger.Info("No LLM provider configured, classifying with rules only")
		return nil, nil
	}

	generator, err := f.CreateGenerator(context.Background(), llmConfig.Provider)
	if err != nil {
		return nil, err
	}

	opts := llm.DefaultOptions()
	opts.Timeout = llmConfig.Timeout
	opts.Retry = retry.Config{
		MaxRetries: llmConfig.MaxRetries,
		Delay:      llmConfig.RetryDelay,
	}
	opts.Breaker.Enabled = llmConfig.Breaker.Enabled
	if llmConfig.Breaker.MaxFailures > 0 {
		opts.Breaker.MaxFailures = uint32(llmConfig.Breaker.MaxFailures)
	}
	if llmConfig.Breaker.OpenTimeout > 0 {
		opts.Breaker.OpenTimeout = llmConfig.Breaker.OpenTimeout
	}

	f.logger.Info("Created LLM client",
		zap.String("provider", llmConfig.Provider),
		zap.String("model", generator.ModelName()),
		zap.Duration("timeout", opts.Timeout),
		zap.Int("max_retries", opts.Retry.MaxRetries))

	builder := prompt.NewBuilder(llmConfig.MaxBodySize, f.textProcessor)
	return llm.NewClient(generator, builder, opts, f.logger), nil
}

// Close releases provider clients that hold connections
func (f *LLMFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
