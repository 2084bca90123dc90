package database

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func OpenMySQL(ctx context.Context, opts Options, logger *zap.Logger) (*SQLDatabase, error) {
	cfg, err := mysql.ParseDSN(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
	}
	if opts.Username != "" {
		cfg.User = opts.Username
	}
	if opts.Password != "" {
		cfg.Passwd = opts.Password
	}
	if opts.Database != "" {
		cfg.DBName = opts.Database
	}
	// Timestamps are selected as text and parsed by the loader.
	cfg.ParseTime = false
	cfg.Timeout = opts.dialTimeout()

	return openSQL(ctx, "mysql", cfg.FormatDSN(), opts, logger)
}
