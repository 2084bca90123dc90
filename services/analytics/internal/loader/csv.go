package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"shenanigigs/services/analytics/internal/parser"
	"shenanigigs/services/analytics/internal/relations"
)

// CSVSource reads <table>.csv files with a header row from a directory, the
// layout of the public job postings dataset exports. Unknown columns are
// ignored.
type CSVSource struct {
	dir    string
	logger *zap.Logger
}

func NewCSVSource(dir string, logger *zap.Logger) *CSVSource {
	return &CSVSource{dir: dir, logger: logger}
}

func (s *CSVSource) Name() string {
	return "csv"
}

func (s *CSVSource) Load(ctx context.Context) (*relations.Store, error) {
	return load(ctx, s.logger, s.Name(), func(ctx context.Context) (*tables, error) {
		t := &tables{}
		var err error
		if t.postings, err = readCSV(ctx, s.dir, TableJobPostings, parser.JobPostingFromRecord); err != nil {
			return nil, err
		}
		if t.companies, err = readCSV(ctx, s.dir, TableCompanies, parser.CompanyFromRecord); err != nil {
			return nil, err
		}
		if t.skills, err = readCSV(ctx, s.dir, TableSkills, parser.SkillFromRecord); err != nil {
			return nil, err
		}
		if t.links, err = readCSV(ctx, s.dir, TableJobSkills, parser.LinkFromRecord); err != nil {
			return nil, err
		}
		return t, nil
	})
}

func (s *CSVSource) Close() error {
	return nil
}

func readCSV[T any](ctx context.Context, dir, table string, parse func(parser.Record) (T, error)) ([]T, error) {
	path := filepath.Join(dir, table+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	out := []T{}
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		rec := make(parser.Record, len(header))
		for i, name := range header {
			rec[name] = fields[i]
		}
		v, err := parse(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		out = append(out, v)
	}
	return out, nil
}
