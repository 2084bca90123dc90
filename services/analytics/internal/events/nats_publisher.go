package events

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"shenanigigs/common/telemetry"
	"shenanigigs/services/analytics/internal/config"
	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/processor"
)

var tracer = telemetry.GetTracer("shenanigigs/analytics/events")

type natsConn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

type NATSPublisher struct {
	conn    natsConn
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewNATSPublisher(logger *zap.Logger, config *config.Config) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("analytics-service"),
		nats.Timeout(config.NATSConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(config.NATSURL, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}

	return newNATSPublisher(conn, config.NATSSubject, config.NATSConnTimeout, logger), nil
}

func newNATSPublisher(conn natsConn, prefix string, timeout time.Duration, logger *zap.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		prefix:  prefix,
		timeout: timeout,
		logger:  logger,
	}
}

// PublishReport sends the report envelope and waits for the server to
// acknowledge the flush.
func (p *NATSPublisher) PublishReport(ctx context.Context, run *processor.Run, res processor.Result) error {
	_, span := tracer.Start(ctx, "PublishReport")
	defer span.End()

	subject := Subject(p.prefix, res.Report)
	data, err := NewEnvelope(run, res).Marshal()
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling report envelope", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish report",
			zap.String("report", string(res.Report)),
			zap.Error(err))
		return errors.Unavailable("publishing to NATS", err)
	}
	if err := p.conn.FlushTimeout(p.timeout); err != nil {
		span.RecordError(err)
		return errors.Unavailable("flushing NATS connection", err)
	}

	p.logger.Debug("published report",
		zap.String("run_id", run.ID.String()),
		zap.String("subject", subject),
		zap.Int("rows", res.RowCount()))
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
