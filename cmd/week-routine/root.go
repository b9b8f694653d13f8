package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/belphemur/week-routine/internal/config"
	"github.com/belphemur/week-routine/internal/constants"
	"github.com/belphemur/week-routine/internal/database"
	"github.com/belphemur/week-routine/internal/fairness"
	"github.com/belphemur/week-routine/internal/fairness/scheduler"
	"github.com/belphemur/week-routine/internal/logging"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath string
	logLevel   string
}

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return "configs/routine.toml"
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          constants.AppName,
		Short:        "Share weekly routines fairly between two people",
		Long:         `Plan recurring routines on chosen days of the week and distribute them fairly between two participants.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Initialize(false, cmd.ErrOrStderr())
			logging.SetLogLevel(levelOr(opts.logLevel, "warn"))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath(), "path to the TOML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newMaskCmd(),
		newNextCmd(),
		newDatesCmd(),
		newRoutineCmd(opts),
		newPlanCmd(opts),
		newOverrideCmd(opts),
		newCalendarCmd(opts),
		newRunCmd(opts),
	)
	return cmd
}

func levelOr(level, fallback string) string {
	if level == "" {
		return fallback
	}
	return level
}

// app wires the stateful components used by database backed commands
type app struct {
	cfg     *config.Config
	db      *database.DB
	store   *database.RoutineStore
	tracker *fairness.Tracker
	planner *scheduler.Planner
}

// openApp loads the configuration, opens and migrates the database and seeds routines
func openApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logging.Initialize(cfg.IsDevelopment(), cmd.ErrOrStderr())
	logging.SetLogLevel(levelOr(opts.logLevel, cfg.Service.LogLevel))

	if cfg.Service.StateFile != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Service.StateFile), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := database.New(database.NewDefaultOptions(cfg.Service.StateFile))
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, db: db}

	if err := db.MigrateDatabase(); err != nil {
		a.Close()
		return nil, err
	}

	if a.store, err = database.NewRoutineStore(db); err != nil {
		a.Close()
		return nil, err
	}
	if _, err := database.NewConfigSeeder(a.store).SeedFromConfig(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}

	if a.tracker, err = fairness.New(db); err != nil {
		a.Close()
		return nil, err
	}
	a.planner = scheduler.New(a.tracker)
	return a, nil
}

// Close releases the database
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logger := logging.GetLogger("main")
		logger.Error().Err(err).Msg("Failed to close database")
	}
}

// routines returns the named routine, or every routine when name is empty
func (a *app) routines(ctx context.Context, name string) ([]*database.Routine, error) {
	if name == "" {
		return a.store.ListRoutines(ctx)
	}
	r, err := a.store.GetRoutineByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return []*database.Routine{r}, nil
}

// parseDate parses a YYYY-MM-DD flag in the local time zone; empty means today
func parseDate(value string) (time.Time, error) {
	if value == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation(constants.DateFormat, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected %s", value, constants.DateFormat)
	}
	return t, nil
}
