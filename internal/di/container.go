package di

import (
	"go.uber.org/dig"

	"github.com/mikey/llm-mail-classifier/internal/config"
	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/factory"
	"github.com/mikey/llm-mail-classifier/internal/logging"
	"github.com/mikey/llm-mail-classifier/internal/ports"
	"github.com/mikey/llm-mail-classifier/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideClassification(container); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register service options
	if err := container.Provide(func(f *factory.CacheFactory) (core.ServiceOptions, error) {
		return f.ServiceOptions()
	}); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideClassification registers everything the classification service
// needs apart from the cache, which differs between binaries
func provideClassification(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register rule cascade
	if err := container.Provide(factory.CreateRuleClassifier); err != nil {
		return err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	// Register classification service
	return container.Provide(core.NewClassificationService)
}
