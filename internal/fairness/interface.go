package fairness

import (
	"context"
	"time"
)

// TrackerInterface defines the operations for tracking fairness
type TrackerInterface interface {
	// RecordAssignment records a computed assignment, replacing any previous one on that date
	RecordAssignment(ctx context.Context, routineID int64, participant string, date time.Time, reason DecisionReason) (*Assignment, error)

	// OverrideAssignment pins a participant to a date
	OverrideAssignment(ctx context.Context, routineID int64, participant string, date time.Time) (*Assignment, error)

	// GetLastAssignmentsUntil returns the last n assignments before a specific date
	GetLastAssignmentsUntil(ctx context.Context, routineID int64, n int, until time.Time) ([]*Assignment, error)

	// GetParticipantStatsUntil returns statistics for each participant before a specific date
	GetParticipantStatsUntil(ctx context.Context, routineID int64, until time.Time) (map[string]Stats, error)

	// GetAssignmentByDate retrieves an assignment for a specific date
	GetAssignmentByDate(ctx context.Context, routineID int64, date time.Time) (*Assignment, error)

	// GetAssignmentsInRange retrieves all assignments in a date range
	GetAssignmentsInRange(ctx context.Context, routineID int64, start, end time.Time) ([]*Assignment, error)

	// DeleteAssignment removes an assignment
	DeleteAssignment(ctx context.Context, id int64) error
}

// Ensure Tracker implements the TrackerInterface
var _ TrackerInterface = (*Tracker)(nil)
var _ TrackerInterface = (*MockTracker)(nil)
