package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/belphemur/week-routine/internal/logging"
	"github.com/belphemur/week-routine/internal/signals"
	"github.com/belphemur/week-routine/weekmask"
	"github.com/rs/zerolog"
)

// ErrRoutineNotFound is returned when a routine lookup matches no row
var ErrRoutineNotFound = errors.New("routine not found")

// Routine is a recurring task shared by two participants on the days of a week mask
type Routine struct {
	ID                      int64
	Name                    string
	Days                    weekmask.WeekMask
	ParticipantA            string
	ParticipantB            string
	ParticipantAUnavailable weekmask.WeekMask
	ParticipantBUnavailable weekmask.WeekMask
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Participants returns both participant names in declaration order
func (r *Routine) Participants() [2]string {
	return [2]string{r.ParticipantA, r.ParticipantB}
}

// Unavailable returns the unavailability mask of a participant, blank for strangers
func (r *Routine) Unavailable(participant string) weekmask.WeekMask {
	switch participant {
	case r.ParticipantA:
		return r.ParticipantAUnavailable
	case r.ParticipantB:
		return r.ParticipantBUnavailable
	default:
		return weekmask.WeekMask{}
	}
}

// Other returns the participant that is not the given one
func (r *Routine) Other(participant string) string {
	if participant == r.ParticipantA {
		return r.ParticipantB
	}
	return r.ParticipantA
}

func (r *Routine) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("routine name cannot be empty")
	}
	if r.ParticipantA == "" || r.ParticipantB == "" {
		return fmt.Errorf("participant names cannot be empty")
	}
	if r.ParticipantA == r.ParticipantB {
		return fmt.Errorf("participant names must be different")
	}
	return nil
}

// RoutineStore handles routine storage in SQLite
type RoutineStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewRoutineStore creates a new routine store
func NewRoutineStore(db *DB) (*RoutineStore, error) {
	logger := logging.GetLogger("routine-store")
	return &RoutineStore{db: db.Conn(), logger: logger}, nil
}

const routineColumns = `id, name, days, participant_a, participant_b,
	participant_a_unavailable, participant_b_unavailable, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoutine(row rowScanner) (*Routine, error) {
	var r Routine
	err := row.Scan(&r.ID, &r.Name, &r.Days, &r.ParticipantA, &r.ParticipantB,
		&r.ParticipantAUnavailable, &r.ParticipantBUnavailable, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveRoutine inserts a routine or updates the one with the same name.
// The stored ID is written back into the routine.
func (s *RoutineStore) SaveRoutine(ctx context.Context, r *Routine) error {
	if err := r.validate(); err != nil {
		return err
	}

	s.logger.Debug().
		Str("name", r.Name).
		Stringer("days", &r.Days).
		Msg("Saving routine")

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO routines (name, days, participant_a, participant_b,
			participant_a_unavailable, participant_b_unavailable, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			days = excluded.days,
			participant_a = excluded.participant_a,
			participant_b = excluded.participant_b,
			participant_a_unavailable = excluded.participant_a_unavailable,
			participant_b_unavailable = excluded.participant_b_unavailable,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, r.Name, r.Days, r.ParticipantA, r.ParticipantB,
		r.ParticipantAUnavailable, r.ParticipantBUnavailable).Scan(&r.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("name", r.Name).Msg("Failed to save routine")
		return fmt.Errorf("failed to save routine %s: %w", r.Name, err)
	}

	s.logger.Info().Int64("routine_id", r.ID).Str("name", r.Name).Msg("Routine saved successfully")
	signals.EmitRoutineSaved(ctx, r.ID, r.Name, r.Days)
	return nil
}

// GetRoutine retrieves a routine by ID
func (s *RoutineStore) GetRoutine(ctx context.Context, id int64) (*Routine, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+routineColumns+` FROM routines WHERE id = ?`, id)
	r, err := scanRoutine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRoutineNotFound, id)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("routine_id", id).Msg("Failed to retrieve routine")
		return nil, fmt.Errorf("failed to retrieve routine %d: %w", id, err)
	}
	return r, nil
}

// GetRoutineByName retrieves a routine by its case-insensitive name
func (s *RoutineStore) GetRoutineByName(ctx context.Context, name string) (*Routine, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+routineColumns+` FROM routines WHERE name = ?`, name)
	r, err := scanRoutine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRoutineNotFound, name)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("Failed to retrieve routine")
		return nil, fmt.Errorf("failed to retrieve routine %s: %w", name, err)
	}
	return r, nil
}

// ListRoutines returns every routine ordered by name
func (s *RoutineStore) ListRoutines(ctx context.Context) ([]*Routine, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+routineColumns+` FROM routines ORDER BY name`)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to query routines")
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}
	defer rows.Close()

	routines := []*Routine{}
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to scan routine row")
			return nil, fmt.Errorf("failed to scan routine: %w", err)
		}
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating routines: %w", err)
	}

	s.logger.Debug().Int("count", len(routines)).Msg("Routines retrieved")
	return routines, nil
}

// HasRoutines reports whether at least one routine is stored
func (s *RoutineStore) HasRoutines(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM routines)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check routines: %w", err)
	}
	return exists, nil
}

// SetRoutineDays replaces the day mask of a routine
func (s *RoutineStore) SetRoutineDays(ctx context.Context, id int64, days weekmask.WeekMask) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE routines SET days = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, days, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("routine_id", id).Msg("Failed to update routine days")
		return fmt.Errorf("failed to update routine days: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", ErrRoutineNotFound, id)
	}

	r, err := s.GetRoutine(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info().Int64("routine_id", id).Stringer("days", &days).Msg("Routine days updated")
	signals.EmitRoutineSaved(ctx, r.ID, r.Name, r.Days)
	return nil
}

// DeleteRoutine removes a routine together with its assignments
func (s *RoutineStore) DeleteRoutine(ctx context.Context, id int64) error {
	r, err := s.GetRoutine(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM routines WHERE id = ?`, id); err != nil {
		s.logger.Error().Err(err).Int64("routine_id", id).Msg("Failed to delete routine")
		return fmt.Errorf("failed to delete routine %d: %w", id, err)
	}

	s.logger.Info().Int64("routine_id", id).Str("name", r.Name).Msg("Routine deleted")
	signals.EmitRoutineDeleted(ctx, r.ID, r.Name)
	return nil
}
