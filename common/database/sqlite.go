package database

import (
	"context"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// OpenSQLite opens an existing SQLite file read-only.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLDatabase, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite database %q: %w", path, err)
	}
	return openSQL(ctx, "sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000", Options{MaxOpenConns: 1}, logger)
}
