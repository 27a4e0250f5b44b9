package main

import (
	"strings"

	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
	"github.com/spf13/cobra"
)

func goalsCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List and edit weekly goals",
	}

	cmd.AddCommand(goalsListCmd(state))
	cmd.AddCommand(goalsAddCmd(state))
	cmd.AddCommand(goalsToggleCmd(state))
	cmd.AddCommand(goalsFocusCmd(state))
	cmd.AddCommand(goalsDeleteCmd(state))
	return cmd
}

func goalsListCmd(state *cliState) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals of a week grouped by category",
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
			buckets, err := a.Goals.ListByCategory(weekStart)
			if err != nil {
				return err
			}
			stats, err := a.Goals.WeekStats(weekStart)
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals)
			if state.jsonOut {
				return out.JSON(map[string]any{
					"week_start": weekStart.Format(service.WeekDateFormat),
					"stats":      out.statsView(stats),
					"categories": out.bucketsView(buckets),
				})
			}
			out.WeekGoals(weekStart, buckets, stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "any date in the week (YYYY-MM-DD), defaults to this week")
	return cmd
}

func goalsAddCmd(state *cliState) *cobra.Command {
	var (
		category string
		notes    string
		due      string
		week     string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal to a week",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			input := service.GoalInput{
				Title:    strings.Join(args, " "),
				Category: category,
			}
			if cmd.Flags().Changed("notes") {
				input.Notes = &notes
			}
			if week != "" {
				weekStart, err := parseWeekFlag(a, week)
				if err != nil {
					return err
				}
				input.WeekStart = &weekStart
			}
			if due != "" {
				dueDate, err := a.Weeks.ParseDay(due)
				if err != nil {
					return err
				}
				input.DueDate = &dueDate
			}

			goal, err := a.Goals.Create(input)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals).Goal(goal, state.jsonOut, "added")
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(db.CategoryPersonal), "Work, Health or Personal")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
	cmd.Flags().StringVarP(&due, "due", "d", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&week, "week", "w", "", "any date in the target week (YYYY-MM-DD)")
	return cmd
}

func goalsToggleCmd(state *cliState) *cobra.Command {
	return goalMutationCmd(state, "toggle <id>", "Toggle completion of a goal", "toggled",
		func(goals *service.GoalService, id string) (*db.Goal, error) {
			return goals.ToggleCompletion(id)
		})
}

func goalsFocusCmd(state *cliState) *cobra.Command {
	return goalMutationCmd(state, "focus <id>", "Toggle today's focus on a goal", "focus toggled",
		func(goals *service.GoalService, id string) (*db.Goal, error) {
			return goals.ToggleFocusToday(id)
		})
}

func goalsDeleteCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Goals.Delete(args[0]); err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals)
			if state.jsonOut {
				return out.JSON(map[string]any{"deleted": args[0]})
			}
			out.Success("deleted " + args[0])
			return nil
		},
	}
}

func goalMutationCmd(state *cliState, use, short, verb string, apply func(*service.GoalService, string) (*db.Goal, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			goal, err := apply(a.Goals, args[0])
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), a.Weeks, a.Goals).Goal(goal, state.jsonOut, verb)
		},
	}
}
