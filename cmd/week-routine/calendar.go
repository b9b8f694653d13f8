package main

import (
	"fmt"
	"time"

	"github.com/belphemur/week-routine/internal/fairness/scheduler"
	"github.com/belphemur/week-routine/internal/viewhelpers"
	"github.com/spf13/cobra"
)

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar ROUTINE",
		Short: "Show a month of a routine as a calendar",
		Long: `Show the days a routine happens on during a month, together with the recorded assignments.
Days marked with * are scheduled but not yet assigned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseMonth(month)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			routine, err := a.store.GetRoutineByName(ctx, args[0])
			if err != nil {
				return err
			}

			start, end := viewhelpers.CalculateCalendarRange(ref)
			recorded, err := a.tracker.GetAssignmentsInRange(ctx, routine.ID, start, end)
			if err != nil {
				return err
			}
			assignments := make([]*scheduler.Assignment, 0, len(recorded))
			for _, r := range recorded {
				assignments = append(assignments, &scheduler.Assignment{
					ID:             r.ID,
					RoutineID:      r.RoutineID,
					Date:           r.Date,
					Participant:    r.Participant,
					DecisionReason: r.DecisionReason,
					Override:       r.Override,
					UpdatedAt:      r.UpdatedAt,
				})
			}

			return viewhelpers.RenderMonth(cmd.OutOrStdout(), viewhelpers.BuildMonth(ref, routine.Days, assignments))
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM, defaults to the current month)")
	return cmd
}

// parseMonth returns the first day of a YYYY-MM month in the local time zone
func parseMonth(value string) (time.Time, error) {
	if value == "" {
		y, m, _ := time.Now().Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", value)
	}
	return t, nil
}
