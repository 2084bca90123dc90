// Package cli implements the job-analytics command line.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"shenanigigs/services/analytics/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Source  string
	Workers int
}

// NewRootCommand creates the root command for the job-analytics CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "job-analytics",
		Short: "Job market reports for remote Data Analyst roles",
		Long: `job-analytics loads job postings, companies and skills from a database or
CSV exports and answers five fixed questions about the Data Analyst market:
the best paying remote jobs, the skills those jobs ask for, the most demanded
skills, the best paying skills and the skills that are both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Source, "source", "", "data source, overrides ANALYTICS_SOURCE (one of "+strings.Join(config.Sources, "|")+")")
	cmd.PersistentFlags().IntVar(&opts.Workers, "workers", 0, "parallel report workers, overrides REPORT_WORKERS")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewReportsCommand(opts))
	cmd.AddCommand(NewLatestCommand(opts))

	return cmd
}

// loadConfig reads the environment and applies flag overrides before
// validating.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if cfg == nil {
		return nil, err
	}
	if opts.Source != "" {
		cfg.Source = opts.Source
	}
	if opts.Workers != 0 {
		cfg.ReportWorkers = opts.Workers
	}
	return cfg, cfg.Validate()
}
