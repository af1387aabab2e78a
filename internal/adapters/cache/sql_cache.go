package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mikey/llm-mail-classifier/internal/core"
	"go.uber.org/zap"
)

// cacheRow maps a row of mail_category_cache. Times are unix seconds so
// both drivers compare them the same way.
type cacheRow struct {
	Fingerprint string `db:"fingerprint"`
	Category    string `db:"category"`
	ModelUsed   string `db:"model_used"`
	CreatedAt   int64  `db:"created_at"`
	ExpiresAt   int64  `db:"expires_at"`
}

func (r cacheRow) entry() *core.CacheEntry {
	return &core.CacheEntry{
		Key:       r.Fingerprint,
		Category:  core.Category(r.Category),
		ModelUsed: r.ModelUsed,
		CreatedAt: time.Unix(r.CreatedAt, 0),
		ExpiresAt: time.Unix(r.ExpiresAt, 0),
	}
}

func rowFromEntry(e *core.CacheEntry) cacheRow {
	return cacheRow{
		Fingerprint: e.Key,
		Category:    string(e.Category),
		ModelUsed:   e.ModelUsed,
		CreatedAt:   e.CreatedAt.Unix(),
		ExpiresAt:   e.ExpiresAt.Unix(),
	}
}

// sqlCache holds the queries shared by the SQLite and MySQL caches
type sqlCache struct {
	db          *sqlx.DB
	name        string
	upsertQuery string
	logger      *zap.Logger
	stopCh      chan struct{}
	stopOnce    sync.Once
}

func newSQLCache(db *sqlx.DB, name, upsertQuery string, logger *zap.Logger, cleanupFreq time.Duration) *sqlCache {
	c := &sqlCache{
		db:          db,
		name:        name,
		upsertQuery: upsertQuery,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}
	if cleanupFreq > 0 {
		go runCleanup(c, logger, cleanupFreq, c.stopCh)
	}
	return c
}

// Get retrieves a live entry for an email fingerprint
func (c *sqlCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var row cacheRow
	err := c.db.GetContext(ctx, &row, `
		SELECT fingerprint, category, model_used, created_at, expires_at
		FROM mail_category_cache
		WHERE fingerprint = ? AND expires_at > ?
	`, key, time.Now().Unix())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	return row.entry(), nil
}

// Set stores a cache entry
func (c *sqlCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	if _, err := c.db.NamedExecContext(ctx, c.upsertQuery, rowFromEntry(entry)); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *sqlCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM mail_category_cache
		WHERE fingerprint = ?
	`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *sqlCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM mail_category_cache
		WHERE expires_at <= ?
	`, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (c *sqlCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.String("cache", c.name), zap.Error(err))
		}
	})
}
