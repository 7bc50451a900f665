package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/workweek/internal/cli/formatter"
	"github.com/alexanderramin/workweek/internal/contract"
	"github.com/spf13/cobra"
)

const (
	formatTable       = "table"
	formatJSON        = "json"
	formatCSV         = "csv"
	formatSessionsCSV = "sessions-csv"
)

func newReportCmd(app *App) *cobra.Command {
	var (
		year, week  int
		user        string
		format      string
		pick        bool
		summaryOnly bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show logged, idle and productive hours per user for an ISO week",
		Long: `Show the weekly productivity report.

Without --year/--week the current ISO week is used, evaluated in the
configured timezone. Sessions belong to the week they were logged in;
idle periods belong to the week they started.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := app.now()
			req := contract.NewReportRequest()
			req.Now = &now
			req.UserID = user

			switch {
			case pick:
				if !app.interactive() {
					return errors.New("--pick needs an interactive terminal")
				}
				y, w, err := pickWeek(now.In(app.location()))
				if err != nil {
					return err
				}
				req = req.ForWeek(y, w)
			default:
				if cmd.Flags().Changed("year") {
					req.Year = &year
				}
				if cmd.Flags().Changed("week") {
					req.Week = &week
				}
			}

			resp, err := app.Reports.WeeklyReport(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), resp, format, formatter.ReportOptions{
				HighlightRatio: app.Config.HighlightRatio,
				HideDetails:    summaryOnly,
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "ISO week-numbering year")
	cmd.Flags().IntVar(&week, "week", 0, "ISO week number (1-53)")
	cmd.Flags().StringVar(&user, "user", "", "Only report this user")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json, csv, sessions-csv")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose the week interactively")
	cmd.Flags().BoolVar(&summaryOnly, "summary-only", false, "Omit the per-session table")
	cmd.Flags().Float64("highlight", 0, "Idle ratio above which rows are highlighted (default 0.20)")
	cmd.MarkFlagsMutuallyExclusive("pick", "year")
	cmd.MarkFlagsMutuallyExclusive("pick", "week")
	return cmd
}

func writeReport(w io.Writer, resp *contract.ReportResponse, format string, opts formatter.ReportOptions) error {
	switch format {
	case formatTable, "":
		_, err := io.WriteString(w, formatter.FormatWeeklyReport(resp, opts))
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case formatCSV:
		return formatter.WriteSummaryCSV(w, resp.Summary)
	case formatSessionsCSV:
		return formatter.WriteDetailsCSV(w, resp.Details)
	default:
		return fmt.Errorf("unknown format %q (want table, json, csv or sessions-csv)", format)
	}
}
