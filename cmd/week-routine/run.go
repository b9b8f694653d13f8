package main

import (
	"fmt"

	"github.com/belphemur/week-routine/internal/logging"
	"github.com/belphemur/week-routine/internal/scheduler"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Keep schedules up to date until interrupted",
		Long: `Plan every routine once, then replan each routine at midnight on the days it happens on.
Routines changed through other commands are picked up when they are saved by this process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			logger := logging.GetLogger("main")
			runner := scheduler.NewRunner(a.store, a.planner, a.cfg.Schedule)
			if err := runner.Start(ctx); err != nil {
				return err
			}

			routines, err := a.store.ListRoutines(ctx)
			if err != nil {
				return err
			}
			for _, routine := range routines {
				assignments, err := runner.RunRoutine(ctx, routine)
				if err != nil {
					logger.Error().Err(err).Str("routine", routine.Name).Msg("Initial planning failed")
					continue
				}
				logger.Info().
					Str("routine", routine.Name).
					Int("assignments", len(assignments)).
					Time("next_run", runner.NextRun(routine.ID)).
					Msg("Routine planned")
			}

			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "watching %d routines\n", runner.Entries()); err != nil {
				return err
			}

			<-ctx.Done()
			logger.Info().Int64("runs", runner.Runs()).Int64("failures", runner.Failures()).Msg("Shutting down")
			return nil
		},
	}
}
