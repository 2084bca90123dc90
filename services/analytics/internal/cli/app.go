package cli

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"shenanigigs/common/cache"
	"shenanigigs/common/cache/redis"
	"shenanigigs/common/telemetry"
	"shenanigigs/services/analytics/internal/config"
	"shenanigigs/services/analytics/internal/events"
	"shenanigigs/services/analytics/internal/loader"
	"shenanigigs/services/analytics/internal/processor"
)

// Version is reported as the OpenTelemetry service version.
var Version = "dev"

func newLogger(opts *RootOptions) (*zap.Logger, error) {
	if opts.Verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newSource(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (loader.Source, error) {
	src, err := loader.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return src.Close()
		},
	})
	return src, nil
}

func cacheOptions(cfg *config.Config) cache.Options {
	return cache.Options{
		DefaultTTL:  cfg.CacheTTL,
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.DialTimeout,
	}
}

func registerTracer(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) error {
	if cfg.OTELCollectorURL == "" {
		return nil
	}
	shutdown, err := telemetry.InitTracer(ctx, cfg.ServiceName, Version, cfg.OTELCollectorURL)
	if err != nil {
		return err
	}
	logger.Info("Tracing enabled", zap.String("collector", cfg.OTELCollectorURL))
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

// registerPublishers attaches the NATS and Redis report sinks.
func registerPublishers(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger, p *processor.ReportProcessor) error {
	natsPub, err := events.NewNATSPublisher(logger, cfg)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			natsPub.Close()
			return nil
		},
	})

	c, err := redis.New(ctx, cacheOptions(cfg))
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})

	p.AddPublisher(natsPub)
	p.AddPublisher(events.NewCachePublisher(c, cfg.NATSSubject, cfg.CacheTTL, logger))
	logger.Info("Publishing enabled",
		zap.String("nats_url", cfg.NATSURL),
		zap.String("redis_addr", cfg.RedisAddr))
	return nil
}

// newApp assembles the report pipeline. Constructors run inside fx.New, so
// configuration and connection errors surface through app.Err. Dials made
// while building the graph are bound to ctx.
func newApp(ctx context.Context, opts *RootOptions, publish bool, targets ...any) *fx.App {
	options := []fx.Option{
		fx.Supply(opts),
		fx.Provide(func() context.Context { return ctx }),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx").WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
		}),
		fx.Provide(
			loadConfig,
			newLogger,
			newSource,
			processor.NewReportRunner,
			processor.NewReportProcessor,
		),
		fx.Invoke(registerTracer),
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					_ = logger.Sync()
					return nil
				},
			})
		}),
	}
	if publish {
		options = append(options, fx.Invoke(registerPublishers))
	}
	options = append(options, fx.Populate(targets...))
	return fx.New(options...)
}
