package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/trackload/internal/cli/formatter"
)

// Output formats.
const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

// resolveFormat picks the table on a terminal and CSV otherwise when no
// format was requested.
func (a *App) resolveFormat(requested string) (string, error) {
	switch requested {
	case "":
		if a.interactive() {
			return formatTable, nil
		}
		return formatCSV, nil
	case formatTable, formatCSV, formatJSON:
		return requested, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, csv or json)", requested)
	}
}

func newReportCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the period report matrix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := app.resolveFormat(format)
			if err != nil {
				return err
			}

			svc, closeStore, err := app.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			m, err := svc.Report(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch f {
			case formatCSV:
				return m.WriteCSV(out)
			case formatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			default:
				_, err := fmt.Fprint(out, formatter.FormatMatrix(m))
				return err
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: table, csv or json (default table on a terminal, csv otherwise)")
	return cmd
}
