package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/trackload/internal/cli/formatter"
)

func newChecklistCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Show who has submitted for a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeStore, err := app.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			view, err := svc.Checklist(cmd.Context(), date)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChecklist(view))
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	return cmd
}
