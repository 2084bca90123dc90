package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shenanigigs/common/cache"
	"shenanigigs/common/cache/redis"
	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/events"
	"shenanigigs/services/analytics/internal/queries"
)

// NewLatestCommand creates the latest command, which prints the most recently
// published envelope of a report from Redis.
func NewLatestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <report>",
		Short: "Print the last published run of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := queries.ParseReport(args[0])
			if err != nil {
				return WrapExitError("invalid report", err)
			}
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return WrapExitError("invalid configuration", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c, err := redis.New(ctx, cacheOptions(cfg))
			if err != nil {
				return WrapExitError("failed to connect to redis", errors.Unavailable("connecting to redis", err))
			}
			defer c.Close()

			data, err := events.NewCachePublisher(c, cfg.NATSSubject, cfg.CacheTTL, zap.NewNop()).Latest(ctx, report)
			if stderrors.Is(err, cache.ErrNotFound) {
				return WrapExitError(fmt.Sprintf("no published run of %s", report), err)
			}
			if err != nil {
				return WrapExitError("failed to read cache", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
