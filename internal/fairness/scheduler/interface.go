package scheduler

import (
	"context"
	"time"

	"github.com/belphemur/week-routine/internal/database"
)

// PlannerInterface defines the interface for the routine planner
type PlannerInterface interface {
	// GenerateSchedule assigns every occurrence of the routine between start and end inclusive
	GenerateSchedule(ctx context.Context, routine *database.Routine, start, end, now time.Time) ([]*Assignment, error)

	// NextOccurrence returns the first day on or after from on which the routine happens
	NextOccurrence(routine *database.Routine, from time.Time) (time.Time, bool)
}

// Ensure Planner implements PlannerInterface
var _ PlannerInterface = (*Planner)(nil)
