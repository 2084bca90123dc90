package loader

import (
	"context"

	"go.uber.org/zap"

	"shenanigigs/common/database"
	"shenanigigs/services/analytics/internal/relations"
)

var clickhouseDialect = dialect{
	postings: `
		SELECT
			toInt64(job_id),
			ifNull(toString(job_title), ''),
			ifNull(toString(job_title_short), ''),
			ifNull(toString(job_location), ''),
			ifNull(toString(job_schedule_type), ''),
			CAST(salary_year_avg AS Nullable(Float64)),
			ifNull(toString(job_posted_date), ''),
			ifNull(toString(job_work_from_home), ''),
			CAST(company_id AS Nullable(Int64))
		FROM job_postings_fact
		ORDER BY job_id
	`,
	companies: `SELECT toInt64(company_id), ifNull(toString(name), '') FROM company_dim ORDER BY company_id`,
	skills:    `SELECT toInt64(skill_id), ifNull(toString(skills), '') FROM skills_dim ORDER BY skill_id`,
	links:     `SELECT toInt64(job_id), toInt64(skill_id) FROM skills_job_dim ORDER BY job_id, skill_id`,
}

// ClickHouseSource loads the relations over the native ClickHouse protocol.
type ClickHouseSource struct {
	db     *database.Database
	logger *zap.Logger
}

func NewClickHouseSource(db *database.Database, logger *zap.Logger) *ClickHouseSource {
	return &ClickHouseSource{db: db, logger: logger}
}

func (s *ClickHouseSource) Name() string {
	return "clickhouse"
}

func (s *ClickHouseSource) Load(ctx context.Context) (*relations.Store, error) {
	conn := s.db.Conn()
	query := func(ctx context.Context, stmt string) (rows, error) {
		r, err := conn.Query(ctx, stmt)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return load(ctx, s.logger, s.Name(), func(ctx context.Context) (*tables, error) {
		return loadSQL(ctx, query, clickhouseDialect)
	})
}

func (s *ClickHouseSource) Close() error {
	return s.db.Close()
}
