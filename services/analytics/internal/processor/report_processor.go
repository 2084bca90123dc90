package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shenanigigs/common/telemetry"
	"shenanigigs/services/analytics/internal/config"
	"shenanigigs/services/analytics/internal/loader"
	"shenanigigs/services/analytics/internal/queries"
)

// Run is one load-and-report pass over a source.
type Run struct {
	ID          uuid.UUID
	Source      string
	GeneratedAt time.Time
	Results     []Result
}

// Publisher receives every result of a finished run.
type Publisher interface {
	PublishReport(ctx context.Context, run *Run, result Result) error
}

type ReportProcessor struct {
	logger     *zap.Logger
	source     loader.Source
	runner     *ReportRunner
	publishers []Publisher
	tracer     trace.Tracer
	config     *config.Config
	now        func() time.Time
}

func NewReportProcessor(logger *zap.Logger, source loader.Source, runner *ReportRunner, config *config.Config) *ReportProcessor {
	return &ReportProcessor{
		logger: logger,
		source: source,
		runner: runner,
		tracer: telemetry.GetTracer("shenanigigs/analytics/processor"),
		config: config,
		now:    time.Now,
	}
}

// AddPublisher registers a sink that Publish fans results out to.
func (p *ReportProcessor) AddPublisher(pub Publisher) {
	p.publishers = append(p.publishers, pub)
}

// Process loads a fresh snapshot, bounded by the configured load timeout, and
// runs the requested reports against it.
func (p *ReportProcessor) Process(ctx context.Context, reports []queries.Report) (*Run, error) {
	ctx, span := p.tracer.Start(ctx, "ReportProcessor.Process")
	defer span.End()

	run := &Run{
		ID:     uuid.New(),
		Source: p.source.Name(),
	}
	span.SetAttributes(telemetry.String("run.id", run.ID.String()))

	loadCtx, cancel := context.WithTimeout(ctx, p.config.LoadTimeout)
	store, err := p.source.Load(loadCtx)
	cancel()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load %s: %w", run.Source, err)
	}

	results, err := p.runner.Run(ctx, store, reports)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	run.Results = results
	run.GeneratedAt = p.now().UTC()

	p.logger.Info("Processed reports",
		zap.String("run_id", run.ID.String()),
		zap.String("source", run.Source),
		zap.Int("reports", len(results)))
	return run, nil
}

// Publish hands every result to every registered publisher. It stops at the
// first failure.
func (p *ReportProcessor) Publish(ctx context.Context, run *Run) error {
	ctx, span := p.tracer.Start(ctx, "ReportProcessor.Publish")
	defer span.End()

	for _, pub := range p.publishers {
		for _, res := range run.Results {
			if err := pub.PublishReport(ctx, run, res); err != nil {
				span.RecordError(err)
				p.logger.Error("Failed to publish report",
					zap.String("run_id", run.ID.String()),
					zap.String("report", string(res.Report)),
					zap.Error(err))
				return fmt.Errorf("publish %s: %w", res.Report, err)
			}
		}
	}

	span.SetAttributes(telemetry.Int("publish.publishers", len(p.publishers)))
	return nil
}
