package gemini

import (
	"context"
	"fmt"

	"github.com/mikey/llm-mail-classifier/internal/config"
	"go.uber.org/zap"
)

// Factory creates Gemini generators
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Gemini generators
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates a new Generator from the gemini section
func (f *Factory) CreateGenerator(ctx context.Context) (*Generator, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini.api_key is required")
	}

	return NewGenerator(
		ctx,
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.logger,
	)
}
