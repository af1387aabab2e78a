package config

import (
	"fmt"
	"strings"
	"time"
)

// LLMConfig represents the configuration shared by every model provider
type LLMConfig struct {
	Provider    string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	MaxBodySize int
	Breaker     CircuitBreakerConfig
}

// CircuitBreakerConfig represents the breaker guarding model calls
type CircuitBreakerConfig struct {
	Enabled     bool
	MaxFailures int
	OpenTimeout time.Duration
}

// OllamaConfig represents the configuration for a local Ollama server
type OllamaConfig struct {
	Host      string
	Port      int
	ModelName string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI compatible APIs
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// RulesConfig represents the rule cascade configuration
type RulesConfig struct {
	ExtraBlacklist []string
}

// CacheConfig represents the classification cache configuration
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// ServerConfig represents the SMTP filter configuration
type ServerConfig struct {
	FilterType     string
	ListenAddress  string
	CategoryHeader string
	SourceHeader   string
	ModifySubject  bool
	Postfix        PostfixConfig
}

// PostfixConfig represents the relay target for filtered mail
type PostfixConfig struct {
	Enabled bool
	Address string
	Port    int
}

// LoggingConfig represents the logger configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() (LLMConfig, error) {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		return LLMConfig{}, err
	}
	retryDelay, err := c.GetDuration("llm.retry_delay")
	if err != nil {
		return LLMConfig{}, err
	}
	openTimeout, err := c.GetDuration("llm.circuit_breaker.open_timeout")
	if err != nil {
		return LLMConfig{}, err
	}

	cfg := LLMConfig{
		Provider:    strings.ToLower(c.GetString("llm.provider")),
		Timeout:     timeout,
		MaxRetries:  c.GetInt("llm.max_retries"),
		RetryDelay:  retryDelay,
		MaxBodySize: c.GetInt("llm.max_body_size"),
		Breaker: CircuitBreakerConfig{
			Enabled:     c.GetBool("llm.circuit_breaker.enabled"),
			MaxFailures: c.GetInt("llm.circuit_breaker.max_failures"),
			OpenTimeout: openTimeout,
		},
	}
	if cfg.MaxRetries < 0 {
		return LLMConfig{}, fmt.Errorf("llm.max_retries must not be negative, got %d", cfg.MaxRetries)
	}
	if cfg.Breaker.Enabled && cfg.Breaker.MaxFailures <= 0 {
		return LLMConfig{}, fmt.Errorf("llm.circuit_breaker.max_failures must be positive, got %d", cfg.Breaker.MaxFailures)
	}
	return cfg, nil
}

// GetOllama returns the Ollama configuration
func (c *Config) GetOllama() OllamaConfig {
	return OllamaConfig{
		Host:      c.GetString("ollama.host"),
		Port:      c.GetInt("ollama.port"),
		ModelName: c.GetString("ollama.model_name"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetRules returns the rule cascade configuration
func (c *Config) GetRules() RulesConfig {
	return RulesConfig{
		ExtraBlacklist: c.GetStringSlice("rules.extra_blacklist"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Type:             strings.ToLower(c.GetString("cache.type")),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}, nil
}

// GetServer returns the SMTP filter configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:     strings.ToLower(c.GetString("server.filter_type")),
		ListenAddress:  c.GetString("server.listen_address"),
		CategoryHeader: c.GetString("server.headers.category"),
		SourceHeader:   c.GetString("server.headers.source"),
		ModifySubject:  c.GetBool("server.modify_subject"),
		Postfix: PostfixConfig{
			Enabled: c.GetBool("server.postfix.enabled"),
			Address: c.GetString("server.postfix.address"),
			Port:    c.GetInt("server.postfix.port"),
		},
	}
}

// GetLogging returns the logger configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:  c.GetString("logging.level"),
		Format: c.GetString("logging.format"),
	}
}
