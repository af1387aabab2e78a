package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/llm-mail-classifier/internal/adapters/cache"
	"github.com/mikey/llm-mail-classifier/internal/config"
	"github.com/mikey/llm-mail-classifier/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates cache repositories based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository creates a cache repository based on the configuration.
// A disabled cache yields a nil repository.
func (f *CacheFactory) CreateCacheRepository() (core.CacheRepository, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}
	if !cacheCfg.Enabled {
		return nil, nil
	}

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cacheCfg.CleanupFrequency), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		repo, err := cache.NewSQLiteCache(cacheCfg.SQLitePath, f.logger, cacheCfg.CleanupFrequency)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "mysql":
		repo, err := cache.NewMySQLCache(cacheCfg.MySQLDSN, f.logger, cacheCfg.CleanupFrequency)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}

// ServiceOptions returns the cache related service options
func (f *CacheFactory) ServiceOptions() (core.ServiceOptions, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return core.ServiceOptions{}, err
	}
	return core.ServiceOptions{
		CacheEnabled: cacheCfg.Enabled,
		CacheTTL:     cacheCfg.TTL,
	}, nil
}
