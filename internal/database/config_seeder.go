package database

import (
	"context"
	"fmt"

	"github.com/belphemur/week-routine/internal/config"
	"github.com/belphemur/week-routine/internal/logging"
	"github.com/rs/zerolog"
)

// ConfigSeeder copies the routines declared in the TOML file into the database
type ConfigSeeder struct {
	store  *RoutineStore
	logger zerolog.Logger
}

// NewConfigSeeder creates a new config seeder
func NewConfigSeeder(store *RoutineStore) *ConfigSeeder {
	return &ConfigSeeder{
		store:  store,
		logger: logging.GetLogger("config-seeder"),
	}
}

// SeedFromConfig seeds the database with the configured routines.
// It runs on every startup and only writes when the database holds no routine,
// so edits made through the CLI survive a restart.
func (s *ConfigSeeder) SeedFromConfig(ctx context.Context, cfg *config.Config) (int, error) {
	s.logger.Info().Msg("Checking if routines need seeding")

	hasRoutines, err := s.store.HasRoutines(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing routines: %w", err)
	}
	if hasRoutines {
		s.logger.Info().Msg("Routines already exist in database, skipping seeding")
		return 0, nil
	}

	for _, rc := range cfg.Routines {
		s.logger.Debug().
			Str("name", rc.Name).
			Stringer("days", rc.Days).
			Msg("Seeding routine")

		if err := s.store.SaveRoutine(ctx, RoutineFromConfig(rc)); err != nil {
			return 0, fmt.Errorf("failed to seed routine %s: %w", rc.Name, err)
		}
	}

	s.logger.Info().Int("count", len(cfg.Routines)).Msg("Routines seeded from configuration")
	return len(cfg.Routines), nil
}

// RoutineFromConfig converts a configured routine into its stored form
func RoutineFromConfig(rc config.RoutineConfig) *Routine {
	return &Routine{
		Name:                    rc.Name,
		Days:                    rc.Days,
		ParticipantA:            rc.ParticipantA,
		ParticipantB:            rc.ParticipantB,
		ParticipantAUnavailable: rc.ParticipantAUnavailable,
		ParticipantBUnavailable: rc.ParticipantBUnavailable,
	}
}
