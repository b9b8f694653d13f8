package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/belphemur/week-routine/internal/config"
	"github.com/belphemur/week-routine/internal/database"
	planner "github.com/belphemur/week-routine/internal/fairness/scheduler"
	"github.com/belphemur/week-routine/internal/logging"
	"github.com/belphemur/week-routine/internal/signals"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// RoutineSource provides the routines the runner keeps scheduled
type RoutineSource interface {
	ListRoutines(ctx context.Context) ([]*database.Routine, error)
	GetRoutine(ctx context.Context, id int64) (*database.Routine, error)
}

// Runner regenerates the schedule of each routine at midnight on the routine's days
type Runner struct {
	source   RoutineSource
	planner  planner.PlannerInterface
	schedule config.ScheduleConfig
	location *time.Location
	now      func() time.Time
	logger   zerolog.Logger

	cron     *cron.Cron
	mu       sync.Mutex
	entries  map[int64]cron.EntryID
	ctx      context.Context
	runs     atomic.Int64
	failures atomic.Int64
	started  atomic.Bool
}

// Option customises a Runner
type Option func(*Runner)

// WithLocation sets the time zone used to decide when a day starts
func WithLocation(loc *time.Location) Option {
	return func(r *Runner) { r.location = loc }
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a runner. It does nothing until Start is called.
func NewRunner(source RoutineSource, p planner.PlannerInterface, schedule config.ScheduleConfig, opts ...Option) *Runner {
	r := &Runner{
		source:   source,
		planner:  p,
		schedule: schedule,
		location: time.Local,
		now:      time.Now,
		logger:   logging.GetLogger("runner"),
		entries:  make(map[int64]cron.EntryID),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cron = cron.New(cron.WithLocation(r.location))
	return r
}

func (r *Runner) listenerKey() string {
	return fmt.Sprintf("runner-%p", r)
}

// Start registers every stored routine, subscribes to routine changes and starts the cron loop.
// The runner stops when ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return fmt.Errorf("runner already started")
	}
	r.ctx = ctx

	routines, err := r.source.ListRoutines(ctx)
	if err != nil {
		return fmt.Errorf("failed to list routines: %w", err)
	}
	for _, routine := range routines {
		r.Register(routine)
	}

	key := r.listenerKey()
	signals.OnRoutineSaved(func(_ context.Context, data signals.RoutineSavedData) {
		routine, err := r.source.GetRoutine(ctx, data.RoutineID)
		if err != nil {
			r.logger.Error().Err(err).Int64("routine_id", data.RoutineID).Msg("Failed to reload saved routine")
			return
		}
		r.Register(routine)
	}, key)
	signals.OnRoutineDeleted(func(_ context.Context, data signals.RoutineDeletedData) {
		r.Unregister(data.RoutineID)
	}, key)

	r.cron.Start()
	r.logger.Info().Int("routines", len(routines)).Str("location", r.location.String()).Msg("Runner started")

	go func() {
		<-ctx.Done()
		r.stop()
	}()
	return nil
}

func (r *Runner) stop() {
	signals.RemoveListeners(r.listenerKey())
	<-r.cron.Stop().Done()
	r.logger.Info().Int64("runs", r.runs.Load()).Int64("failures", r.failures.Load()).Msg("Runner stopped")
}

// Register schedules a routine, replacing any previous entry for it.
// Routines without days are only unregistered.
func (r *Runner) Register(routine *database.Routine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.entries[routine.ID]; ok {
		r.cron.Remove(id)
		delete(r.entries, routine.ID)
	}
	if routine.Days.Blank() {
		r.logger.Info().Int64("routine_id", routine.ID).Str("routine", routine.Name).Msg("Routine has no days, not scheduled")
		return
	}

	routineID := routine.ID
	r.entries[routineID] = r.cron.Schedule(DaySchedule{Days: routine.Days}, cron.FuncJob(func() {
		r.runScheduled(routineID)
	}))
	r.logger.Info().Int64("routine_id", routineID).Str("routine", routine.Name).Stringer("days", routine.Days).Msg("Routine scheduled")
}

// Unregister removes the cron entry of a routine
func (r *Runner) Unregister(routineID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.entries[routineID]; ok {
		r.cron.Remove(id)
		delete(r.entries, routineID)
		r.logger.Info().Int64("routine_id", routineID).Msg("Routine unscheduled")
	}
}

// Entries returns the number of scheduled routines
func (r *Runner) Entries() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// NextRun returns when a routine is due next, zero when it is not scheduled
func (r *Runner) NextRun(routineID int64) time.Time {
	r.mu.Lock()
	id, ok := r.entries[routineID]
	r.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return r.cron.Entry(id).Next
}

// Runs returns the number of successful schedule generations
func (r *Runner) Runs() int64 {
	return r.runs.Load()
}

// Failures returns the number of failed schedule generations
func (r *Runner) Failures() int64 {
	return r.failures.Load()
}

func (r *Runner) runScheduled(routineID int64) {
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	routine, err := r.source.GetRoutine(ctx, routineID)
	if err != nil {
		r.failures.Inc()
		r.logger.Error().Err(err).Int64("routine_id", routineID).Msg("Failed to load routine for scheduled run")
		return
	}
	if _, err := r.RunRoutine(ctx, routine); err != nil {
		r.logger.Error().Err(err).Int64("routine_id", routineID).Msg("Scheduled run failed")
	}
}

// Window returns the range covered by a run started at now: the configured past threshold
// before today through the look-ahead horizon.
func (r *Runner) Window(now time.Time) (start, end time.Time) {
	local := now.In(r.location)
	y, m, d := local.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, r.location)
	return today.AddDate(0, 0, -r.schedule.PastEventThresholdDays), today.AddDate(0, 0, r.schedule.LookAheadDays)
}

// RunRoutine regenerates the schedule of one routine over the runner's window
func (r *Runner) RunRoutine(ctx context.Context, routine *database.Routine) ([]*planner.Assignment, error) {
	now := r.now()
	start, end := r.Window(now)

	assignments, err := r.planner.GenerateSchedule(ctx, routine, start, end, now.In(r.location))
	if err != nil {
		r.failures.Inc()
		return nil, fmt.Errorf("failed to generate schedule for %s: %w", routine.Name, err)
	}
	r.runs.Inc()
	return assignments, nil
}
