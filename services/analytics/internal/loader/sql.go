package loader

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"shenanigigs/common/database"
	"shenanigigs/services/analytics/internal/relations"
)

var postgresDialect = dialect{
	postings: `
		SELECT
			job_id::bigint,
			COALESCE(job_title, ''),
			COALESCE(job_title_short, ''),
			COALESCE(job_location, ''),
			COALESCE(job_schedule_type, ''),
			salary_year_avg::float8,
			COALESCE(job_posted_date::text, ''),
			COALESCE(job_work_from_home::text, ''),
			company_id::bigint
		FROM job_postings_fact
		ORDER BY job_id
	`,
	companies: `SELECT company_id::bigint, COALESCE(name, '') FROM company_dim ORDER BY company_id`,
	skills:    `SELECT skill_id::bigint, COALESCE(skills, '') FROM skills_dim ORDER BY skill_id`,
	links:     `SELECT job_id::bigint, skill_id::bigint FROM skills_job_dim ORDER BY job_id, skill_id`,
}

var mysqlDialect = dialect{
	postings: `
		SELECT
			CAST(job_id AS SIGNED),
			COALESCE(job_title, ''),
			COALESCE(job_title_short, ''),
			COALESCE(job_location, ''),
			COALESCE(job_schedule_type, ''),
			CAST(salary_year_avg AS DOUBLE),
			COALESCE(CAST(job_posted_date AS CHAR), ''),
			COALESCE(CAST(job_work_from_home AS CHAR), ''),
			CAST(company_id AS SIGNED)
		FROM job_postings_fact
		ORDER BY job_id
	`,
	companies: `SELECT CAST(company_id AS SIGNED), COALESCE(name, '') FROM company_dim ORDER BY company_id`,
	skills:    `SELECT CAST(skill_id AS SIGNED), COALESCE(skills, '') FROM skills_dim ORDER BY skill_id`,
	links:     `SELECT CAST(job_id AS SIGNED), CAST(skill_id AS SIGNED) FROM skills_job_dim ORDER BY job_id, skill_id`,
}

var sqliteDialect = dialect{
	postings: `
		SELECT
			CAST(job_id AS INTEGER),
			COALESCE(job_title, ''),
			COALESCE(job_title_short, ''),
			COALESCE(job_location, ''),
			COALESCE(job_schedule_type, ''),
			CAST(salary_year_avg AS REAL),
			COALESCE(CAST(job_posted_date AS TEXT), ''),
			COALESCE(CAST(job_work_from_home AS TEXT), ''),
			CAST(company_id AS INTEGER)
		FROM job_postings_fact
		ORDER BY job_id
	`,
	companies: `SELECT CAST(company_id AS INTEGER), COALESCE(name, '') FROM company_dim ORDER BY company_id`,
	skills:    `SELECT CAST(skill_id AS INTEGER), COALESCE(skills, '') FROM skills_dim ORDER BY skill_id`,
	links:     `SELECT CAST(job_id AS INTEGER), CAST(skill_id AS INTEGER) FROM skills_job_dim ORDER BY job_id, skill_id`,
}

// SQLSource loads the relations through database/sql.
type SQLSource struct {
	name    string
	db      *database.SQLDatabase
	dialect dialect
	logger  *zap.Logger
}

func NewPostgresSource(db *database.SQLDatabase, logger *zap.Logger) *SQLSource {
	return &SQLSource{name: "postgres", db: db, dialect: postgresDialect, logger: logger}
}

func NewMySQLSource(db *database.SQLDatabase, logger *zap.Logger) *SQLSource {
	return &SQLSource{name: "mysql", db: db, dialect: mysqlDialect, logger: logger}
}

func NewSQLiteSource(db *database.SQLDatabase, logger *zap.Logger) *SQLSource {
	return &SQLSource{name: "sqlite", db: db, dialect: sqliteDialect, logger: logger}
}

func (s *SQLSource) Name() string {
	return s.name
}

func (s *SQLSource) Load(ctx context.Context) (*relations.Store, error) {
	return load(ctx, s.logger, s.name, func(ctx context.Context) (*tables, error) {
		return loadSQL(ctx, sqlQuery(s.db.DB()), s.dialect)
	})
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}

func sqlQuery(db *sql.DB) queryFunc {
	return func(ctx context.Context, query string) (rows, error) {
		r, err := db.QueryContext(ctx, query)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
