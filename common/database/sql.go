package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SQLDatabase wraps a database/sql handle for the Postgres, MySQL and SQLite
// sources. Close releases the handle and any pool behind it.
type SQLDatabase struct {
	db      *sql.DB
	driver  string
	onClose []func()
	logger  *zap.Logger
}

func (d *SQLDatabase) DB() *sql.DB {
	return d.db
}

func (d *SQLDatabase) Driver() string {
	return d.driver
}

func (d *SQLDatabase) Close() error {
	err := d.db.Close()
	for _, fn := range d.onClose {
		fn()
	}
	return err
}

func openSQL(ctx context.Context, driver, dsn string, opts Options, logger *zap.Logger) (*SQLDatabase, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return finishSQL(ctx, db, driver, opts, logger)
}

func finishSQL(ctx context.Context, db *sql.DB, driver string, opts Options, logger *zap.Logger) (*SQLDatabase, error) {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.dialTimeout())
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.Info("Connected to database", zap.String("driver", driver))
	return &SQLDatabase{db: db, driver: driver, logger: logger}, nil
}
