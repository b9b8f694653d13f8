package fairness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/belphemur/week-routine/internal/constants"
	"github.com/belphemur/week-routine/internal/database"
	"github.com/belphemur/week-routine/internal/logging"
	"github.com/rs/zerolog"
)

// Assignment represents one participant being responsible for a routine on a date
type Assignment struct {
	ID             int64
	RoutineID      int64
	Participant    string
	Date           time.Time
	DecisionReason DecisionReason
	Override       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Stats represents statistics for a participant
type Stats struct {
	TotalAssignments int
	Last30Days       int
}

// Tracker maintains the state of routine assignments
type Tracker struct {
	db     *sql.DB
	logger zerolog.Logger
}

// New creates a new Tracker instance
func New(db *database.DB) (*Tracker, error) {
	return &Tracker{db: db.Conn(), logger: logging.GetLogger("tracker")}, nil
}

const assignmentColumns = `id, routine_id, participant, assignment_date, decision_reason, override, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*Assignment, error) {
	var a Assignment
	var dateStr, reason string
	if err := row.Scan(&a.ID, &a.RoutineID, &a.Participant, &dateStr, &reason, &a.Override, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	date, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse assignment date %q: %w", dateStr, err)
	}
	a.Date = date
	a.DecisionReason = DecisionReason(reason)
	return &a, nil
}

func (t *Tracker) queryAssignments(ctx context.Context, query string, args ...any) ([]*Assignment, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return assignments, nil
}

// RecordAssignment records the assignment of a routine occurrence.
// An existing assignment for the same routine and date is replaced and keeps its ID.
func (t *Tracker) RecordAssignment(ctx context.Context, routineID int64, participant string, date time.Time, reason DecisionReason) (*Assignment, error) {
	return t.upsert(ctx, routineID, participant, date, reason, false)
}

// OverrideAssignment pins a participant to a routine occurrence. Overrides are never recalculated.
func (t *Tracker) OverrideAssignment(ctx context.Context, routineID int64, participant string, date time.Time) (*Assignment, error) {
	return t.upsert(ctx, routineID, participant, date, DecisionReasonOverride, true)
}

func (t *Tracker) upsert(ctx context.Context, routineID int64, participant string, date time.Time, reason DecisionReason, override bool) (*Assignment, error) {
	dateStr := date.Format(constants.DateFormat)
	var id int64
	err := t.db.QueryRowContext(ctx, `
INSERT INTO assignments (routine_id, participant, assignment_date, decision_reason, override)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(routine_id, assignment_date) DO UPDATE SET
	participant = excluded.participant,
	decision_reason = excluded.decision_reason,
	override = excluded.override,
	updated_at = CURRENT_TIMESTAMP
RETURNING id
`, routineID, participant, dateStr, reason.String(), override).Scan(&id)
	if err != nil {
		t.logger.Error().Err(err).Int64("routine_id", routineID).Str("date", dateStr).Msg("Failed to record assignment")
		return nil, fmt.Errorf("failed to record assignment: %w", err)
	}

	a, err := scanAssignment(t.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read recorded assignment %d: %w", id, err)
	}

	t.logger.Debug().
		Int64("routine_id", routineID).
		Str("participant", participant).
		Str("date", dateStr).
		Str("reason", reason.String()).
		Bool("override", override).
		Msg("Assignment recorded")
	return a, nil
}

// GetLastAssignmentsUntil returns the last n assignments strictly before until, most recent first
func (t *Tracker) GetLastAssignmentsUntil(ctx context.Context, routineID int64, n int, until time.Time) ([]*Assignment, error) {
	return t.queryAssignments(ctx, `
SELECT `+assignmentColumns+`
FROM assignments
WHERE routine_id = ? AND assignment_date < ?
ORDER BY assignment_date DESC
LIMIT ?
`, routineID, until.Format(constants.DateFormat), n)
}

// GetParticipantStatsUntil returns statistics for each participant strictly before until
func (t *Tracker) GetParticipantStatsUntil(ctx context.Context, routineID int64, until time.Time) (map[string]Stats, error) {
	untilStr := until.Format(constants.DateFormat)
	recentStr := until.AddDate(0, 0, -30).Format(constants.DateFormat)

	rows, err := t.db.QueryContext(ctx, `
SELECT
	participant,
	COUNT(*) AS total_assignments,
	SUM(CASE WHEN assignment_date >= ? THEN 1 ELSE 0 END) AS last_30_days
FROM assignments
WHERE routine_id = ? AND assignment_date < ?
GROUP BY participant
`, recentStr, routineID, untilStr)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]Stats)
	for rows.Next() {
		var participant string
		var s Stats
		if err := rows.Scan(&participant, &s.TotalAssignments, &s.Last30Days); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats[participant] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}

	return stats, nil
}

// GetAssignmentByDate retrieves the assignment of a routine on a date, nil when there is none
func (t *Tracker) GetAssignmentByDate(ctx context.Context, routineID int64, date time.Time) (*Assignment, error) {
	row := t.db.QueryRowContext(ctx, `
SELECT `+assignmentColumns+`
FROM assignments
WHERE routine_id = ? AND assignment_date = ?
`, routineID, date.Format(constants.DateFormat))

	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// GetAssignmentsInRange retrieves all assignments of a routine between start and end inclusive, ordered by date
func (t *Tracker) GetAssignmentsInRange(ctx context.Context, routineID int64, start, end time.Time) ([]*Assignment, error) {
	return t.queryAssignments(ctx, `
SELECT `+assignmentColumns+`
FROM assignments
WHERE routine_id = ? AND assignment_date BETWEEN ? AND ?
ORDER BY assignment_date ASC
`, routineID, start.Format(constants.DateFormat), end.Format(constants.DateFormat))
}

// DeleteAssignment removes an assignment by ID
func (t *Tracker) DeleteAssignment(ctx context.Context, id int64) error {
	if _, err := t.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id); err != nil {
		t.logger.Error().Err(err).Int64("assignment_id", id).Msg("Failed to delete assignment")
		return fmt.Errorf("failed to delete assignment %d: %w", id, err)
	}
	return nil
}
