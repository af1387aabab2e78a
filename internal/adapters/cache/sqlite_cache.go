package cache

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const sqliteUpsert = `
	INSERT OR REPLACE INTO mail_category_cache (fingerprint, category, model_used, created_at, expires_at)
	VALUES (:fingerprint, :category, :model_used, :created_at, :expires_at)
`

// SQLiteCache is a SQLite implementation of the CacheRepository interface
type SQLiteCache struct {
	*sqlCache
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS mail_category_cache (
			fingerprint TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			model_used TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mail_category_cache_expires_at ON mail_category_cache(expires_at)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteCache{newSQLCache(db, "sqlite", sqliteUpsert, logger, cleanupFreq)}, nil
}
