package cache

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const mysqlUpsert = `
	INSERT INTO mail_category_cache (fingerprint, category, model_used, created_at, expires_at)
	VALUES (:fingerprint, :category, :model_used, :created_at, :expires_at)
	ON DUPLICATE KEY UPDATE
		category = VALUES(category),
		model_used = VALUES(model_used),
		created_at = VALUES(created_at),
		expires_at = VALUES(expires_at)
`

// MySQLCache is a MySQL implementation of the CacheRepository interface
type MySQLCache struct {
	*sqlCache
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	// Connect opens and pings
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS mail_category_cache (
			fingerprint CHAR(64) PRIMARY KEY,
			category VARCHAR(32) NOT NULL,
			model_used VARCHAR(255) NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			INDEX idx_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLCache{newSQLCache(db, "mysql", mysqlUpsert, logger, cleanupFreq)}, nil
}
