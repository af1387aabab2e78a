package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-classifier/internal/config"
	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/factory"
	"github.com/mikey/llm-mail-classifier/internal/logging"
	"github.com/mikey/llm-mail-classifier/internal/ports"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	Timeout     string
	MaxRetries  int
	MaxBodySize int

	// Ollama flags
	OllamaHost  string
	OllamaPort  int
	OllamaModel string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModelName string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Input and output flags
	Files      []string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct.
// Remaining arguments are message files; none means stdin.
func ParseFlags(fs *flag.FlagSet, args []string) (*CLIFlags, error) {
	flags := &CLIFlags{}

	fs.StringVar(&flags.Provider, "provider", "ollama", "LLM provider (ollama, openai, gemini, bedrock, none)")
	fs.StringVar(&flags.Timeout, "timeout", "10s", "Timeout of a single model request")
	fs.IntVar(&flags.MaxRetries, "max-retries", 2, "Retries after a failed model request")
	fs.IntVar(&flags.MaxBodySize, "max-body-size", 7000, "Maximum body characters sent to the model")

	fs.StringVar(&flags.OllamaHost, "ollama-host", "127.0.0.1", "Ollama host")
	fs.IntVar(&flags.OllamaPort, "ollama-port", 11434, "Ollama port")
	fs.StringVar(&flags.OllamaModel, "model", "mistral:latest", "Ollama model name")

	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "Base URL of an OpenAI compatible API")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")

	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-1.5-flash", "Gemini model name")

	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.Files = fs.Args()
	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.Load(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			cfg.GetViper().Set("server.filter_type", "cli")
			cfg.GetViper().Set("cli.verbose", flags.Verbose)
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideClassification(container); err != nil {
		return nil, err
	}

	// No cache for one-shot runs
	if err := container.Provide(func() core.CacheRepository { return nil }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() core.ServiceOptions { return core.ServiceOptions{} }); err != nil {
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

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.filter_type", "cli")
	v.Set("cli.verbose", flags.Verbose)

	v.Set("llm.provider", flags.Provider)
	v.Set("llm.timeout", flags.Timeout)
	v.Set("llm.max_retries", flags.MaxRetries)
	v.Set("llm.max_body_size", flags.MaxBodySize)
	v.Set("llm.circuit_breaker.enabled", false)

	switch flags.Provider {
	case "ollama":
		v.Set("ollama.host", flags.OllamaHost)
		v.Set("ollama.port", flags.OllamaPort)
		v.Set("ollama.model_name", flags.OllamaModel)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.base_url", flags.OpenAIBaseURL)
		v.Set("openai.model_name", flags.OpenAIModelName)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
	}

	return config.NewFromViper(v)
}
