package loader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shenanigigs/common/database"
	"shenanigigs/services/analytics/internal/config"
	"shenanigigs/services/analytics/internal/errors"
)

// Open connects the source selected by cfg.Source.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Source, error) {
	switch cfg.Source {
	case config.SourceCSV:
		return NewCSVSource(cfg.CSVDir, logger), nil

	case config.SourceSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, errors.Unavailable("open sqlite source", err)
		}
		return NewSQLiteSource(db, logger), nil

	case config.SourcePostgres:
		db, err := database.OpenPostgres(ctx, database.Options{
			DSN:          cfg.PostgresDSN,
			MaxOpenConns: cfg.PostgresMaxConns,
			DialTimeout:  cfg.DialTimeout,
		}, logger)
		if err != nil {
			return nil, errors.Unavailable("open postgres source", err)
		}
		return NewPostgresSource(db, logger), nil

	case config.SourceMySQL:
		db, err := database.OpenMySQL(ctx, database.Options{
			DSN:         cfg.MySQLDSN,
			DialTimeout: cfg.DialTimeout,
		}, logger)
		if err != nil {
			return nil, errors.Unavailable("open mysql source", err)
		}
		return NewMySQLSource(db, logger), nil

	case config.SourceClickHouse:
		db, err := database.New(ctx, database.Options{
			DSN:             cfg.ClickHouseDSN,
			MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
			MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
			ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
			DialTimeout:     cfg.DialTimeout,
			Username:        cfg.ClickHouseUsername,
			Password:        cfg.ClickHousePassword,
			Database:        cfg.ClickHouseDatabase,
		}, logger)
		if err != nil {
			return nil, errors.Unavailable("open clickhouse source", err)
		}
		return NewClickHouseSource(db, logger), nil
	}
	return nil, errors.InvalidInput(fmt.Sprintf("unknown source %q", cfg.Source), nil)
}
