package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// OpenPostgres creates a pgx pool and exposes it through database/sql.
func OpenPostgres(ctx context.Context, opts Options, logger *zap.Logger) (*SQLDatabase, error) {
	pc, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		pc.MaxConns = int32(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = opts.ConnMaxLifetime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "shenanigigs-analytics"
	pc.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	dialCtx, cancel := context.WithTimeout(ctx, opts.dialTimeout())
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	d, err := finishSQL(ctx, stdlib.OpenDBFromPool(pool), "pgx", Options{DialTimeout: opts.DialTimeout}, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	d.onClose = append(d.onClose, pool.Close)
	return d, nil
}
