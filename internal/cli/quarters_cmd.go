package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/trackload/internal/cli/formatter"
	"github.com/okian/trackload/internal/domain/period"
)

func newQuartersCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "quarters",
		Short: "Print the four quarters of a date range",
		Example: "  trackload quarters --start 2025-01-01 --end 2025-01-10",
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := app.now().In(app.cfg.Location())
			qs := period.Partition(start, end, today)
			_, err := fmt.Fprint(cmd.OutOrStdout(), formatter.FormatQuarters(qs))
			return err
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of the period (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
