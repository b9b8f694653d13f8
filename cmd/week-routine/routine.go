package main

import (
	"fmt"

	"github.com/belphemur/week-routine/internal/config"
	"github.com/belphemur/week-routine/internal/database"
	"github.com/spf13/cobra"
)

// routineView is the serialised form of a stored routine
type routineView struct {
	Name                    string   `yaml:"name"`
	Days                    maskView `yaml:"days"`
	ParticipantA            string   `yaml:"participant_a"`
	ParticipantB            string   `yaml:"participant_b"`
	ParticipantAUnavailable []string `yaml:"participant_a_unavailable,omitempty"`
	ParticipantBUnavailable []string `yaml:"participant_b_unavailable,omitempty"`
}

func newRoutineCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routine",
		Short: "Manage stored routines",
	}
	cmd.AddCommand(
		newRoutineListCmd(opts),
		newRoutineAddCmd(opts),
		newRoutineRemoveCmd(opts),
		newRoutineDaysCmd(opts),
	)
	return cmd
}

func newRoutineListCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored routines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			routines, err := a.store.ListRoutines(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "yaml":
				views := make([]routineView, 0, len(routines))
				for _, r := range routines {
					views = append(views, routineView{
						Name:                    r.Name,
						Days:                    newMaskView(r.Days),
						ParticipantA:            r.ParticipantA,
						ParticipantB:            r.ParticipantB,
						ParticipantAUnavailable: r.ParticipantAUnavailable.DayNames(),
						ParticipantBUnavailable: r.ParticipantBUnavailable.DayNames(),
					})
				}
				return writeYAML(out, views)
			case "text":
				for _, r := range routines {
					if _, err := fmt.Fprintf(out, "%-16s %-8s %-8s %s\n", r.Name, r.ParticipantA, r.ParticipantB, r.Days.String()); err != nil {
						return err
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, yaml)")
	return cmd
}

func newRoutineAddCmd(opts *rootOptions) *cobra.Command {
	var days, aUnavailable, bUnavailable []string

	cmd := &cobra.Command{
		Use:   "add NAME PARTICIPANT_A PARTICIPANT_B",
		Short: "Create or replace a routine",
		Example: `  week-routine routine add dishes alice bob --days monday,thursday
  week-routine routine add laundry alice bob --days saturday --b-unavailable saturday`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rc := config.RoutineConfig{Name: args[0], ParticipantA: args[1], ParticipantB: args[2]}

			mask, err := maskFromArgs(days)
			if err != nil {
				return err
			}
			rc.Days = *mask
			if len(aUnavailable) > 0 {
				if mask, err = maskFromArgs(aUnavailable); err != nil {
					return err
				}
				rc.ParticipantAUnavailable = *mask
			}
			if len(bUnavailable) > 0 {
				if mask, err = maskFromArgs(bUnavailable); err != nil {
					return err
				}
				rc.ParticipantBUnavailable = *mask
			}
			if err := config.ValidateRoutine(rc); err != nil {
				return err
			}

			a, err := openApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			routine := database.RoutineFromConfig(rc)
			if err := a.store.SaveRoutine(ctx, routine); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", routine.Name, routine.Days.String())
			return err
		},
	}

	cmd.Flags().StringSliceVar(&days, "days", nil, "days the routine happens on")
	cmd.Flags().StringSliceVar(&aUnavailable, "a-unavailable", nil, "days the first participant cannot take")
	cmd.Flags().StringSliceVar(&bUnavailable, "b-unavailable", nil, "days the second participant cannot take")
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

func newRoutineRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Delete a routine and its assignments",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if err := a.store.DeleteRoutine(ctx, routine.ID); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", routine.Name)
			return err
		},
	}
}

func newRoutineDaysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "days NAME DAYS...",
		Short: "Change the days a routine happens on",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mask, err := maskFromArgs(args[1:])
			if err != nil {
				return err
			}
			if mask.Blank() {
				return fmt.Errorf("at least one day is required")
			}

			a, err := openApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			routine, err := a.store.GetRoutineByName(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.store.SetRoutineDays(ctx, routine.ID, *mask); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s now happens on %s\n", routine.Name, mask.String())
			return err
		},
	}
}
