package signals

import (
	"context"

	"github.com/belphemur/week-routine/weekmask"
	"github.com/maniartech/signals"
)

// RoutineSavedData contains data associated with a routine being created or updated
type RoutineSavedData struct {
	RoutineID int64
	Name      string
	Days      weekmask.WeekMask
}

// RoutineDeletedData contains data associated with a routine being removed
type RoutineDeletedData struct {
	RoutineID int64
	Name      string
}

// ScheduleGeneratedData contains data associated with a freshly generated schedule
type ScheduleGeneratedData struct {
	RoutineID int64
	Count     int
}

// Signal definitions using generics
var RoutineSaved = signals.New[RoutineSavedData]()
var RoutineDeleted = signals.New[RoutineDeletedData]()
var ScheduleGenerated = signals.New[ScheduleGeneratedData]()

// EmitRoutineSaved emits a signal when a routine is stored
func EmitRoutineSaved(ctx context.Context, routineID int64, name string, days weekmask.WeekMask) {
	RoutineSaved.Emit(ctx, RoutineSavedData{
		RoutineID: routineID,
		Name:      name,
		Days:      days,
	})
}

// EmitRoutineDeleted emits a signal when a routine is removed
func EmitRoutineDeleted(ctx context.Context, routineID int64, name string) {
	RoutineDeleted.Emit(ctx, RoutineDeletedData{
		RoutineID: routineID,
		Name:      name,
	})
}

// EmitScheduleGenerated emits a signal once a schedule has been planned
func EmitScheduleGenerated(ctx context.Context, routineID int64, count int) {
	ScheduleGenerated.Emit(ctx, ScheduleGeneratedData{
		RoutineID: routineID,
		Count:     count,
	})
}

// OnRoutineSaved registers a handler for routine saved events
func OnRoutineSaved(handler func(ctx context.Context, data RoutineSavedData), key ...string) {
	if len(key) > 0 {
		RoutineSaved.AddListener(handler, key[0])
	} else {
		RoutineSaved.AddListener(handler)
	}
}

// OnRoutineDeleted registers a handler for routine deleted events
func OnRoutineDeleted(handler func(ctx context.Context, data RoutineDeletedData), key ...string) {
	if len(key) > 0 {
		RoutineDeleted.AddListener(handler, key[0])
	} else {
		RoutineDeleted.AddListener(handler)
	}
}

// OnScheduleGenerated registers a handler for schedule generated events
func OnScheduleGenerated(handler func(ctx context.Context, data ScheduleGeneratedData), key ...string) {
	if len(key) > 0 {
		ScheduleGenerated.AddListener(handler, key[0])
	} else {
		ScheduleGenerated.AddListener(handler)
	}
}

// RemoveListeners unregisters the handlers registered under key on every signal
func RemoveListeners(key string) {
	RoutineSaved.RemoveListener(key)
	RoutineDeleted.RemoveListener(key)
	ScheduleGenerated.RemoveListener(key)
}
