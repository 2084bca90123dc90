package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shenanigigs/common/cache"
	"shenanigigs/common/telemetry"
	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/processor"
	"shenanigigs/services/analytics/internal/queries"
)

// CachePublisher stores each report envelope under its latest key, replacing
// the envelope of the previous run.
type CachePublisher struct {
	cache  cache.Cache
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachePublisher(c cache.Cache, prefix string, ttl time.Duration, logger *zap.Logger) *CachePublisher {
	return &CachePublisher{
		cache:  c,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (p *CachePublisher) PublishReport(ctx context.Context, run *processor.Run, res processor.Result) error {
	ctx, span := tracer.Start(ctx, "CacheReport")
	defer span.End()

	key, err := LatestKey(p.prefix, res.Report)
	if err != nil {
		return errors.InvalidInput("building cache key for "+string(res.Report), err)
	}
	data, err := NewEnvelope(run, res).Marshal()
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling report envelope", err)
	}

	span.SetAttributes(
		telemetry.String("cache.key", key),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
		span.RecordError(err)
		return errors.Unavailable("caching report", err)
	}

	p.logger.Debug("cached report",
		zap.String("key", key),
		zap.Duration("ttl", p.ttl))
	return nil
}

// Latest returns the cached envelope of the report, as raw JSON.
func (p *CachePublisher) Latest(ctx context.Context, report queries.Report) ([]byte, error) {
	key, err := LatestKey(p.prefix, report)
	if err != nil {
		return nil, errors.InvalidInput("building cache key for "+string(report), err)
	}
	var data []byte
	if err := p.cache.Get(ctx, key, &data); err != nil {
		return nil, err
	}
	return data, nil
}
