package main

import (
	"fmt"
	"time"

	"github.com/belphemur/week-routine/internal/constants"
	"github.com/belphemur/week-routine/internal/fairness/scheduler"
	"github.com/belphemur/week-routine/weekmask"
	"github.com/spf13/cobra"
)

// assignmentView is the serialised form of a planned occurrence
type assignmentView struct {
	Routine     string `yaml:"routine"`
	Date        string `yaml:"date"`
	Day         string `yaml:"day"`
	Participant string `yaml:"participant"`
	Reason      string `yaml:"reason"`
	Override    bool   `yaml:"override,omitempty"`
}

func newAssignmentView(routine string, a *scheduler.Assignment) assignmentView {
	return assignmentView{
		Routine:     routine,
		Date:        a.Date.Format(constants.DateFormat),
		Day:         weekmask.DayName(a.Date.Weekday()),
		Participant: a.Participant,
		Reason:      a.DecisionReason.String(),
		Override:    a.Override,
	}
}

func newPlanCmd(opts *rootOptions) *cobra.Command {
	var from, output string
	var days int

	cmd := &cobra.Command{
		Use:   "plan [ROUTINE]",
		Short: "Assign the upcoming occurrences of routines",
		Long: `Assign every occurrence of a routine, or of all routines, within the requested window.
Overrides and past assignments are kept; other occurrences are recomputed for fairness.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be positive")
			}
			if output != "text" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}
			start, err := parseDate(from)
			if err != nil {
				return err
			}
			end := start.AddDate(0, 0, days-1)

			ctx := cmd.Context()
			a, err := openApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			routines, err := a.routines(ctx, name)
			if err != nil {
				return err
			}

			var views []assignmentView
			now := time.Now()
			for _, routine := range routines {
				schedule, err := a.planner.GenerateSchedule(ctx, routine, start, end, now)
				if err != nil {
					return err
				}
				for _, assignment := range schedule {
					views = append(views, newAssignmentView(routine.Name, assignment))
				}
			}

			out := cmd.OutOrStdout()
			if output == "yaml" {
				if views == nil {
					views = []assignmentView{}
				}
				return writeYAML(out, views)
			}
			for _, v := range views {
				line := fmt.Sprintf("%s %-9s %-16s %s (%s)", v.Date, v.Day, v.Routine, v.Participant, v.Reason)
				if v.Override {
					line += " [override]"
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day of the window (YYYY-MM-DD, defaults to today)")
	cmd.Flags().IntVar(&days, "days", 14, "number of days in the window")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, yaml)")
	return cmd
}

func newOverrideCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "override ROUTINE DATE PARTICIPANT",
		Short: "Assign an occurrence to a participant manually",
		Long: `Pin the occurrence of a routine on DATE (YYYY-MM-DD) to PARTICIPANT.
Overridden occurrences are never changed by later planning and count towards fairness.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[1])
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
			participant := args[2]
			if participant != routine.ParticipantA && participant != routine.ParticipantB {
				return fmt.Errorf("%s does not take part in %s", participant, routine.Name)
			}
			if !routine.Days.Has(date.Weekday()) {
				return fmt.Errorf("%s does not happen on %s", routine.Name, weekmask.DayName(date.Weekday()))
			}

			assignment, err := a.tracker.OverrideAssignment(ctx, routine.ID, participant, date)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s on %s assigned to %s\n",
				routine.Name, assignment.Date.Format(constants.DateFormat), assignment.Participant)
			return err
		},
	}
}
