package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func recapCmd(state *cliState) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "recap",
		Short: "Show or export a weekly recap",
	}
	cmd.PersistentFlags().StringVarP(&week, "week", "w", "", "any date in the week (YYYY-MM-DD), defaults to this week")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the recap of a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			weekStart, err := parseWeekFlag(a, week)
			if err != nil {
				return err
			}
			recap, err := a.Recaps.GetOrCreate(weekStart)
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals)
			if state.jsonOut {
				return out.JSON(out.recapView(*recap))
			}
			out.Recap(*recap)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the plain-text export of a week's recap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			weekStart, err := parseWeekFlag(a, week)
			if err != nil {
				return err
			}
			recap, err := a.Recaps.GetOrCreate(weekStart)
			if err != nil {
				return err
			}
			text := a.Recaps.ExportText(*recap)
			if state.jsonOut {
				return newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals).JSON(map[string]any{"text": text})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	})

	return cmd
}
