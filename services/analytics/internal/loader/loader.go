// Package loader reads the four job market relations from a database or a
// directory of CSV exports and builds the relations snapshot.
package loader

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shenanigigs/common/telemetry"
	"shenanigigs/services/analytics/internal/models"
	"shenanigigs/services/analytics/internal/parser"
	"shenanigigs/services/analytics/internal/relations"
)

var tracer = telemetry.GetTracer("shenanigigs/analytics/loader")

const (
	TableJobPostings = "job_postings_fact"
	TableCompanies   = "company_dim"
	TableSkills      = "skills_dim"
	TableJobSkills   = "skills_job_dim"
)

type Source interface {
	Name() string
	Load(ctx context.Context) (*relations.Store, error)
	Close() error
}

// rows is satisfied by both *sql.Rows and the ClickHouse driver rows.
type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type queryFunc func(ctx context.Context, query string) (rows, error)

// dialect holds the SELECT statements for one SQL engine. Each statement
// casts its columns so that every engine scans into the same Go types.
type dialect struct {
	postings  string
	companies string
	skills    string
	links     string
}

type tables struct {
	postings  []models.JobPosting
	companies []models.Company
	skills    []models.Skill
	links     []models.JobSkillLink
}

func (t *tables) store() (*relations.Store, error) {
	return relations.New(t.postings, t.companies, t.skills, t.links)
}

func loadSQL(ctx context.Context, query queryFunc, d dialect) (*tables, error) {
	t := &tables{}
	var err error

	if t.postings, err = scanAll(ctx, query, TableJobPostings, d.postings, func(r rows) (models.JobPosting, error) {
		var raw parser.RawJobPosting
		var wfh string
		if err := r.Scan(
			&raw.JobID,
			&raw.JobTitle,
			&raw.JobTitleShort,
			&raw.JobLocation,
			&raw.JobScheduleType,
			&raw.SalaryYearAvg,
			&raw.JobPostedDate,
			&wfh,
			&raw.CompanyID,
		); err != nil {
			return models.JobPosting{}, err
		}
		raw.JobWorkFromHome = wfh
		return parser.ParseJobPosting(raw)
	}); err != nil {
		return nil, err
	}

	if t.companies, err = scanAll(ctx, query, TableCompanies, d.companies, func(r rows) (models.Company, error) {
		var c models.Company
		err := r.Scan(&c.CompanyID, &c.Name)
		return c, err
	}); err != nil {
		return nil, err
	}

	if t.skills, err = scanAll(ctx, query, TableSkills, d.skills, func(r rows) (models.Skill, error) {
		var s models.Skill
		err := r.Scan(&s.SkillID, &s.Skills)
		return s, err
	}); err != nil {
		return nil, err
	}

	if t.links, err = scanAll(ctx, query, TableJobSkills, d.links, func(r rows) (models.JobSkillLink, error) {
		var l models.JobSkillLink
		err := r.Scan(&l.JobID, &l.SkillID)
		return l, err
	}); err != nil {
		return nil, err
	}

	return t, nil
}

func scanAll[T any](ctx context.Context, query queryFunc, table, stmt string, scan func(rows) (T, error)) ([]T, error) {
	r, err := query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer r.Close()

	out := []T{}
	for r.Next() {
		v, err := scan(r)
		if err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", table, len(out)+1, err)
		}
		out = append(out, v)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

// load runs fn inside a traced, logged span and builds the store.
func load(ctx context.Context, logger *zap.Logger, source string, fn func(ctx context.Context) (*tables, error)) (*relations.Store, error) {
	ctx, span := tracer.Start(ctx, "Loader.Load", trace.WithAttributes(telemetry.String("loader.source", source)))
	defer span.End()

	start := time.Now()
	t, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to load relations", zap.String("source", source), zap.Error(err))
		return nil, err
	}

	s, err := t.store()
	if err != nil {
		span.RecordError(err)
		logger.Error("Loaded relations are inconsistent", zap.String("source", source), zap.Error(err))
		return nil, err
	}

	stats := s.Stats()
	span.SetAttributes(
		telemetry.Int("loader.postings", stats.Postings),
		telemetry.Int("loader.companies", stats.Companies),
		telemetry.Int("loader.skills", stats.Skills),
		telemetry.Int("loader.links", stats.Links),
	)
	logger.Info("Loaded relations",
		zap.String("source", source),
		zap.Int("postings", stats.Postings),
		zap.Int("companies", stats.Companies),
		zap.Int("skills", stats.Skills),
		zap.Int("links", stats.Links),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s, nil
}
