package main

import (
	"fmt"

	"github.com/goaltracker/internal/service"
	"github.com/spf13/cobra"
)

func rolloverCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Run the launch-time rollover and archival pass without serving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			report := a.Startup()
			out := newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals)
			if state.jsonOut {
				payload := map[string]any{
					"performed": report.Rollover.Performed,
					"copied":    out.goalsView(report.Rollover.Copied),
					"archived":  report.Archived,
				}
				if report.Rollover.Performed {
					payload["from_week"] = report.Rollover.FromWeek.Format(service.WeekDateFormat)
					payload["to_week"] = report.Rollover.ToWeek.Format(service.WeekDateFormat)
				}
				return out.JSON(payload)
			}

			if report.Rollover.Performed {
				out.Success(fmt.Sprintf("rolled over %d goal(s) into %s",
					len(report.Rollover.Copied), a.Weeks.FormatWeekRange(report.Rollover.ToWeek)))
			} else {
				out.Muted("no rollover needed")
			}
			out.Success(fmt.Sprintf("archived %d goal(s)", report.Archived))
			return nil
		},
	}
}
