package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/export"
	"shenanigigs/services/analytics/internal/processor"
	"shenanigigs/services/analytics/internal/queries"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Reports []string
	Format  string
	Out     string
	Publish bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load the data and run reports",
		Long: `Load job postings from the configured source, run the selected reports
and write them to stdout or a file.

Without --report every report runs, in canonical order.

Example:
  job-analytics run
  job-analytics run --report optimal-skills --format csv
  job-analytics run --source sqlite --format xlsx --out reports.xlsx --publish`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReports(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Reports, "report", "r", nil, "report to run, repeatable (see 'job-analytics reports')")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", string(export.FormatJSON), "output format (json|yaml|csv|xlsx)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file, stdout when empty")
	cmd.Flags().BoolVar(&opts.Publish, "publish", false, "publish reports to NATS and cache them in Redis")

	return cmd
}

// parseReports validates the --report values and drops repeats, keeping the
// first occurrence.
func parseReports(names []string) ([]queries.Report, error) {
	reports := make([]queries.Report, 0, len(names))
	for _, name := range names {
		r, err := queries.ParseReport(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(reports, r) {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func runReports(cmd *cobra.Command, opts *RunOptions) error {
	reports, err := parseReports(opts.Reports)
	if err != nil {
		return WrapExitError("invalid --report", err)
	}
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return WrapExitError("invalid --format", err)
	}
	if format == export.FormatCSV && len(reports) != 1 {
		return WrapExitError("invalid --format", errors.InvalidInput("csv output needs exactly one --report", nil))
	}
	if format == export.FormatXLSX && opts.Out == "" {
		return WrapExitError("invalid --format", errors.InvalidInput("xlsx output needs --out", nil))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var proc *processor.ReportProcessor
	var logger *zap.Logger
	app := newApp(ctx, opts.RootOptions, opts.Publish, &proc, &logger)
	if err := app.Err(); err != nil {
		return WrapExitError("failed to initialize", err)
	}
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return WrapExitError("failed to start", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	}()

	run, err := proc.Process(ctx, reports)
	if err != nil {
		return WrapExitError("failed to run reports", err)
	}

	if err := writeOutput(cmd.OutOrStdout(), opts.Out, format, run.Results); err != nil {
		return WrapExitError("failed to write output", err)
	}
	if opts.Out != "" {
		logger.Info("Wrote reports", zap.String("path", opts.Out), zap.String("format", string(format)))
	}

	if opts.Publish {
		if err := proc.Publish(ctx, run); err != nil {
			return WrapExitError("failed to publish reports", err)
		}
		logger.Info("Published reports", zap.String("run_id", run.ID.String()))
	}
	return nil
}

func writeOutput(stdout io.Writer, path string, format export.Format, results []processor.Result) error {
	if path == "" {
		return export.Write(stdout, format, results)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.InvalidInput(fmt.Sprintf("cannot create %s", path), err)
	}
	if err := export.Write(f, format, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
