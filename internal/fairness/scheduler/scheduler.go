package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/belphemur/week-routine/internal/constants"
	"github.com/belphemur/week-routine/internal/database"
	"github.com/belphemur/week-routine/internal/fairness"
	"github.com/belphemur/week-routine/internal/logging"
	"github.com/belphemur/week-routine/internal/signals"
	"github.com/belphemur/week-routine/weekmask"
	"github.com/rs/zerolog"
)

// ErrBothUnavailable is returned when neither participant can take an occurrence
var ErrBothUnavailable = errors.New("both participants unavailable")

// Assignment represents a planned routine occurrence
type Assignment struct {
	ID             int64
	RoutineID      int64
	Date           time.Time
	Participant    string
	DecisionReason fairness.DecisionReason
	Override       bool
	UpdatedAt      time.Time
}

func fromTracker(a *fairness.Assignment) *Assignment {
	return &Assignment{
		ID:             a.ID,
		RoutineID:      a.RoutineID,
		Date:           a.Date,
		Participant:    a.Participant,
		DecisionReason: a.DecisionReason,
		Override:       a.Override,
		UpdatedAt:      a.UpdatedAt,
	}
}

// Planner distributes routine occurrences fairly between two participants
type Planner struct {
	tracker fairness.TrackerInterface
	logger  zerolog.Logger
}

// New creates a new Planner instance
func New(tracker fairness.TrackerInterface) *Planner {
	return &Planner{
		tracker: tracker,
		logger:  logging.GetLogger("planner"),
	}
}

// NextOccurrence returns the first day on or after from on which the routine happens
func (p *Planner) NextOccurrence(routine *database.Routine, from time.Time) (time.Time, bool) {
	return routine.Days.NextDate(from)
}

// GenerateSchedule assigns every occurrence of the routine between start and end inclusive.
// Overrides and assignments up to the day of now are kept as they are. Other occurrences are
// recomputed and recorded, and stale assignments on days the routine no longer covers are removed.
func (p *Planner) GenerateSchedule(ctx context.Context, routine *database.Routine, start, end, now time.Time) ([]*Assignment, error) {
	genLogger := p.logger.With().
		Int64("routine_id", routine.ID).
		Str("routine", routine.Name).
		Str("start_date", start.Format(constants.DateFormat)).
		Str("end_date", end.Format(constants.DateFormat)).
		Stringer("days", routine.Days).
		Logger()
	genLogger.Info().Msg("Generating schedule")

	today := now.Format(constants.DateFormat)

	existing, err := p.tracker.GetAssignmentsInRange(ctx, routine.ID, start, end)
	if err != nil {
		genLogger.Error().Err(err).Msg("Failed to get existing assignments")
		return nil, fmt.Errorf("failed to get existing assignments: %w", err)
	}

	fixed := make(map[string]*fairness.Assignment)
	for _, a := range existing {
		day := a.Date.Format(constants.DateFormat)
		switch {
		case a.Override || day <= today:
			fixed[day] = a
		case !routine.Days.Has(a.Date.Weekday()):
			genLogger.Debug().Str("date", day).Msg("Removing assignment on a day the routine no longer covers")
			if err := p.tracker.DeleteAssignment(ctx, a.ID); err != nil {
				return nil, fmt.Errorf("failed to remove stale assignment: %w", err)
			}
		}
	}
	genLogger.Debug().Int("existing", len(existing)).Int("fixed", len(fixed)).Msg("Mapped fixed assignments")

	schedule := []*Assignment{}
	for date := range routine.Days.Dates(weekmask.Closed(start, end)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dateStr := date.Format(constants.DateFormat)
		if a, ok := fixed[dateStr]; ok {
			genLogger.Debug().Str("date", dateStr).Str("participant", a.Participant).Bool("override", a.Override).Msg("Using fixed assignment")
			schedule = append(schedule, fromTracker(a))
			continue
		}

		assignment, err := p.assignForDate(ctx, routine, date)
		if err != nil {
			return nil, fmt.Errorf("failed to assign for date %s: %w", dateStr, err)
		}
		schedule = append(schedule, assignment)
	}

	genLogger.Info().Int("total_assignments", len(schedule)).Msg("Schedule generation complete")
	signals.EmitScheduleGenerated(ctx, routine.ID, len(schedule))
	return schedule, nil
}

// assignForDate determines who takes the routine on a date and records it
func (p *Planner) assignForDate(ctx context.Context, routine *database.Routine, date time.Time) (*Assignment, error) {
	assignLogger := p.logger.With().Int64("routine_id", routine.ID).Str("date", date.Format(constants.DateFormat)).Logger()

	lastAssignments, err := p.tracker.GetLastAssignmentsUntil(ctx, routine.ID, constants.FairnessLookback, date)
	if err != nil {
		assignLogger.Error().Err(err).Msg("Failed to get last assignments")
		return nil, fmt.Errorf("failed to get last assignments: %w", err)
	}

	stats, err := p.tracker.GetParticipantStatsUntil(ctx, routine.ID, date)
	if err != nil {
		assignLogger.Error().Err(err).Msg("Failed to get participant stats")
		return nil, fmt.Errorf("failed to get participant stats: %w", err)
	}

	participant, reason, err := p.determineParticipantForDate(routine, date, lastAssignments, stats)
	if err != nil {
		assignLogger.Error().Err(err).Msg("Cannot assign participant")
		return nil, err
	}

	recorded, err := p.tracker.RecordAssignment(ctx, routine.ID, participant, date, reason)
	if err != nil {
		assignLogger.Error().Err(err).Msg("Failed to record assignment")
		return nil, fmt.Errorf("failed to record assignment: %w", err)
	}
	assignLogger.Info().Str("participant", participant).Str("decision_reason", reason.String()).Msg("Assigned participant")

	return fromTracker(recorded), nil
}

// determineParticipantForDate applies the unavailability masks before the fairness rules
func (p *Planner) determineParticipantForDate(routine *database.Routine, date time.Time, lastAssignments []*fairness.Assignment, stats map[string]fairness.Stats) (string, fairness.DecisionReason, error) {
	weekday := date.Weekday()
	aUnavailable := routine.ParticipantAUnavailable.Get(weekday)
	bUnavailable := routine.ParticipantBUnavailable.Get(weekday)

	switch {
	case aUnavailable && bUnavailable:
		return "", "", fmt.Errorf("%w on %s", ErrBothUnavailable, weekmask.DayName(weekday))
	case aUnavailable:
		return routine.ParticipantB, fairness.DecisionReasonUnavailability, nil
	case bUnavailable:
		return routine.ParticipantA, fairness.DecisionReasonUnavailability, nil
	}

	participant, reason := p.determineNextParticipant(routine, lastAssignments, stats)
	return participant, reason, nil
}

// determineNextParticipant applies fairness rules to select the next participant
func (p *Planner) determineNextParticipant(routine *database.Routine, lastAssignments []*fairness.Assignment, stats map[string]fairness.Stats) (string, fairness.DecisionReason) {
	a, b := routine.ParticipantA, routine.ParticipantB
	statsA, statsB := stats[a], stats[b]

	// Fewer total assignments first, participant A wins ties when there is no history
	if statsA.TotalAssignments < statsB.TotalAssignments || (len(lastAssignments) == 0 && statsA.TotalAssignments == statsB.TotalAssignments) {
		return a, fairness.DecisionReasonTotalCount
	}
	if statsB.TotalAssignments < statsA.TotalAssignments {
		return b, fairness.DecisionReasonTotalCount
	}

	if statsA.Last30Days < statsB.Last30Days {
		return a, fairness.DecisionReasonRecentCount
	}
	if statsB.Last30Days < statsA.Last30Days {
		return b, fairness.DecisionReasonRecentCount
	}

	lastParticipant := lastAssignments[0].Participant
	consecutive := 1
	for i := 1; i < len(lastAssignments) && lastAssignments[i].Participant == lastParticipant; i++ {
		consecutive++
	}
	p.logger.Trace().Str("last_participant", lastParticipant).Int("consecutive_count", consecutive).Msg("Checking consecutive assignments")

	if consecutive >= constants.ConsecutiveLimit {
		return routine.Other(lastParticipant), fairness.DecisionReasonConsecutiveLimit
	}

	return routine.Other(lastParticipant), fairness.DecisionReasonAlternating
}
