package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func archiveCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive completed goals and browse the archive",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Archive goals completed before today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			count, err := a.Archive.ArchiveCompletedBeforeToday()
			if err != nil {
				return err
			}
			if err := a.Settings.SetLastArchiveRun(a.Weeks.Now()); err != nil {
				state.log.Warn("write last archive run failed", "error", err)
			}

			out := newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals)
			if state.jsonOut {
				return out.JSON(map[string]any{"archived": count})
			}
			out.Success(fmt.Sprintf("archived %d goal(s)", count))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List archived goals grouped by week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := a.Archive.ListByWeek()
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals)
			if state.jsonOut {
				return out.JSON(out.archiveView(groups))
			}
			out.Archive(groups)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every archived goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			count, err := a.Archive.ClearAll()
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals)
			if state.jsonOut {
				return out.JSON(map[string]any{"deleted": count})
			}
			out.Success(fmt.Sprintf("cleared %d archived goal(s)", count))
			return nil
		},
	})

	return cmd
}
