package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/trackload/internal/cli/formatter"
)

func newRankingCmd(app *App) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Print runners ranked by distance inside the period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeStore, err := app.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := svc.Ranking(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(entries)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRanking(entries))
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the top N runners")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
