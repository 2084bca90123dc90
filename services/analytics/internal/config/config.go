package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"shenanigigs/services/analytics/internal/errors"
)

const (
	SourceCSV        = "csv"
	SourceSQLite     = "sqlite"
	SourcePostgres   = "postgres"
	SourceMySQL      = "mysql"
	SourceClickHouse = "clickhouse"
)

var Sources = []string{SourceCSV, SourceSQLite, SourcePostgres, SourceMySQL, SourceClickHouse}

type Config struct {
	Source      string
	LoadTimeout time.Duration
	DialTimeout time.Duration

	ClickHouseDSN          string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	PostgresDSN      string
	PostgresMaxConns int

	MySQLDSN string

	SQLitePath string
	CSVDir     string

	NATSURL         string
	NATSConnTimeout time.Duration
	NATSSubject     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	OTELCollectorURL string
	ServiceName      string

	ReportWorkers int
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when one exists. Variables already set win over .env.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.InvalidInput("failed to load .env", err)
		}
	}

	config := &Config{
		Source:      getEnvString("ANALYTICS_SOURCE", SourceCSV),
		LoadTimeout: getEnvDuration("LOAD_TIMEOUT", 5*time.Minute),
		DialTimeout: getEnvDuration("DB_DIAL_TIMEOUT", 10*time.Second),

		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 4),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 2),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "job_market"),

		PostgresDSN:      getEnvString("POSTGRES_DSN", "postgres://postgres@localhost:5432/sql_course"),
		PostgresMaxConns: getEnvInt("POSTGRES_MAX_CONNS", 4),

		MySQLDSN: getEnvString("MYSQL_DSN", "root@tcp(localhost:3306)/job_market"),

		SQLitePath: getEnvString("SQLITE_PATH", "job_market.db"),
		CSVDir:     getEnvString("CSV_DIR", "csv_files"),

		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),
		NATSSubject:     getEnvString("NATS_SUBJECT_PREFIX", "reports"),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),

		OTELCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
		ServiceName:      getEnvString("OTEL_SERVICE_NAME", "shenanigigs/analytics"),

		ReportWorkers: getEnvInt("REPORT_WORKERS", 5),
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	known := false
	for _, s := range Sources {
		if c.Source == s {
			known = true
			break
		}
	}
	if !known {
		return errors.InvalidInput(fmt.Sprintf("ANALYTICS_SOURCE %q must be one of %v", c.Source, Sources), nil)
	}
	if c.ReportWorkers < 1 {
		return errors.InvalidInput(fmt.Sprintf("REPORT_WORKERS must be positive, got %d", c.ReportWorkers), nil)
	}
	if c.LoadTimeout <= 0 {
		return errors.InvalidInput("LOAD_TIMEOUT must be positive", nil)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
