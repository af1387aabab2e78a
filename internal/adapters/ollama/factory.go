package ollama

import (
	"fmt"

	"github.com/mikey/llm-mail-classifier/internal/config"
	"go.uber.org/zap"
)

// Factory creates Ollama generators
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Ollama generators
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates a new Generator from the ollama section
func (f *Factory) CreateGenerator() (*Generator, error) {
	ollamaCfg := f.cfg.GetOllama()
	if ollamaCfg.Host == "" {
		return nil, fmt.Errorf("ollama.host is not set")
	}
	if ollamaCfg.Port <= 0 {
		return nil, fmt.Errorf("invalid ollama.port: %d", ollamaCfg.Port)
	}

	endpoint := Endpoint(ollamaCfg.Host, ollamaCfg.Port)
	f.logger.Info("Using Ollama model",
		zap.String("endpoint", endpoint),
		zap.String("model", ollamaCfg.ModelName))

	return NewGenerator(endpoint, ollamaCfg.ModelName, nil, f.logger), nil
}
