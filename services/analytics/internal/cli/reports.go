package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shenanigigs/services/analytics/internal/queries"
)

// NewReportsCommand creates the reports command.
func NewReportsCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List the available reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, r := range queries.AllReports {
				if _, err := fmt.Fprintf(out, "%-22s %s\n", r, r.Description()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
