package processor

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shenanigigs/common/telemetry"
	"shenanigigs/services/analytics/internal/config"
	"shenanigigs/services/analytics/internal/queries"
	"shenanigigs/services/analytics/internal/relations"
)

// Result holds one report's rows, e.g. []models.TopPayingRole.
type Result struct {
	Report  queries.Report
	Rows    any
	Elapsed time.Duration
}

func (r Result) RowCount() int {
	v := reflect.ValueOf(r.Rows)
	if v.Kind() != reflect.Slice {
		return 0
	}
	return v.Len()
}

type runStats struct {
	reportsCompleted int32
	rowsProduced     int64
}

// ReportRunner executes reports in parallel against one snapshot.
type ReportRunner struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	workers       int
	workerManager *workerManager
}

func NewReportRunner(logger *zap.Logger, cfg *config.Config) *ReportRunner {
	runner := &ReportRunner{
		logger:  logger,
		tracer:  telemetry.GetTracer("shenanigigs/analytics/processor"),
		workers: cfg.ReportWorkers,
	}
	runner.workerManager = newWorkerManager(runner, logger)
	return runner
}

// Run executes the given reports, deduplicated, and returns their results in
// canonical report order. No reports means all of them. The first failing
// report in canonical order determines the returned error.
func (r *ReportRunner) Run(ctx context.Context, store *relations.Store, reports []queries.Report) ([]Result, error) {
	ctx, span := r.tracer.Start(ctx, "ReportRunner.Run")
	defer span.End()

	reports, err := normalizeReports(reports)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([]Result, len(reports))
	errs := make([]error, len(reports))
	stats := &runStats{}
	taskChan := make(chan reportTask)

	workers := min(max(r.workers, 1), len(reports))
	wg := r.workerManager.startWorkers(ctx, workers, store, stats, taskChan, results, errs)
	go feedReports(reports, taskChan)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("report %s: %w", reports[i], err)
		}
	}

	span.SetAttributes(
		telemetry.Int("reports.completed", int(stats.reportsCompleted)),
		telemetry.Int64("reports.rows", stats.rowsProduced),
	)
	r.logger.Info("Completed reports",
		zap.Int("reports", int(stats.reportsCompleted)),
		zap.Int64("rows", stats.rowsProduced),
		zap.Int("workers", workers))

	return results, nil
}

func (r *ReportRunner) runReport(ctx context.Context, store *relations.Store, report queries.Report) (Result, error) {
	_, span := r.tracer.Start(ctx, "ReportRunner.runReport",
		trace.WithAttributes(telemetry.String("report", string(report))))
	defer span.End()

	start := time.Now()
	rows, err := queries.Run(store, report)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	res := Result{Report: report, Rows: rows, Elapsed: time.Since(start)}
	span.SetAttributes(telemetry.Int("report.rows", res.RowCount()))
	r.logger.Debug("Report finished",
		zap.String("report", string(report)),
		zap.Int("rows", res.RowCount()),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

func normalizeReports(reports []queries.Report) ([]queries.Report, error) {
	if len(reports) == 0 {
		return slices.Clone(queries.AllReports), nil
	}
	out := make([]queries.Report, 0, len(reports))
	for _, rep := range reports {
		if _, err := queries.ParseReport(string(rep)); err != nil {
			return nil, err
		}
		if !slices.Contains(out, rep) {
			out = append(out, rep)
		}
	}
	slices.SortFunc(out, func(a, b queries.Report) int {
		return a.Index() - b.Index()
	})
	return out, nil
}
