package database

import (
	"context"
	"testing"
	"time"

	"github.com/belphemur/week-routine/internal/signals"
	"github.com/belphemur/week-routine/weekmask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *RoutineStore {
	t.Helper()
	store, err := NewRoutineStore(newTestDB(t))
	require.NoError(t, err, "Failed to create routine store")
	return store
}

func testRoutine(name string) *Routine {
	return &Routine{
		Name:                    name,
		Days:                    *weekmask.Of("monday", "wednesday", "friday"),
		ParticipantA:            "Alice",
		ParticipantB:            "Bob",
		ParticipantBUnavailable: *weekmask.Of("friday"),
	}
}

func TestRoutineStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	r := testRoutine("bedtime")
	require.NoError(t, store.SaveRoutine(ctx, r))
	require.NotZero(t, r.ID, "SaveRoutine should assign an ID")

	got, err := store.GetRoutine(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "bedtime", got.Name)
	assert.True(t, got.Days.Equal(r.Days))
	assert.Equal(t, "Alice", got.ParticipantA)
	assert.Equal(t, "Bob", got.ParticipantB)
	assert.True(t, got.ParticipantAUnavailable.Blank())
	assert.True(t, got.ParticipantBUnavailable.Get(time.Friday))
	assert.False(t, got.CreatedAt.IsZero())

	byName, err := store.GetRoutineByName(ctx, "BEDTIME")
	require.NoError(t, err, "Names should match case-insensitively")
	assert.Equal(t, r.ID, byName.ID)
}

func TestRoutineStore_SaveUpdatesExisting(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := testRoutine("bedtime")
	require.NoError(t, store.SaveRoutine(ctx, first))

	second := testRoutine("bedtime")
	second.Days = *weekmask.New(weekmask.MaxValue)
	require.NoError(t, store.SaveRoutine(ctx, second))

	assert.Equal(t, first.ID, second.ID, "Saving by name should update in place")

	routines, err := store.ListRoutines(ctx)
	require.NoError(t, err)
	require.Len(t, routines, 1)
	assert.True(t, routines[0].Days.All())
}

func TestRoutineStore_SaveValidation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		routine *Routine
		errMsg  string
	}{
		{"empty name", &Routine{ParticipantA: "A", ParticipantB: "B"}, "name cannot be empty"},
		{"missing participant", &Routine{Name: "x", ParticipantA: "A"}, "cannot be empty"},
		{"same participants", &Routine{Name: "x", ParticipantA: "A", ParticipantB: "A"}, "must be different"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveRoutine(ctx, tt.routine)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestRoutineStore_ListRoutines(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	empty, err := store.ListRoutines(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"laundry", "bedtime", "dishes"} {
		require.NoError(t, store.SaveRoutine(ctx, testRoutine(name)))
	}

	routines, err := store.ListRoutines(ctx)
	require.NoError(t, err)
	names := make([]string, len(routines))
	for i, r := range routines {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"bedtime", "dishes", "laundry"}, names)
}

func TestRoutineStore_SetRoutineDays(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	r := testRoutine("bedtime")
	require.NoError(t, store.SaveRoutine(ctx, r))

	require.NoError(t, store.SetRoutineDays(ctx, r.ID, *weekmask.Of(time.Saturday, time.Sunday)))
	got, err := store.GetRoutine(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 65, got.Days.Int())

	err = store.SetRoutineDays(ctx, r.ID+100, *weekmask.New(1))
	assert.ErrorIs(t, err, ErrRoutineNotFound)
}

func TestRoutineStore_DeleteRoutine(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	r := testRoutine("bedtime")
	require.NoError(t, store.SaveRoutine(ctx, r))

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO assignments (routine_id, participant, assignment_date, decision_reason)
		VALUES (?, 'Alice', '2026-01-05', 'Alternating')
	`, r.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteRoutine(ctx, r.ID))

	_, err = store.GetRoutine(ctx, r.ID)
	assert.ErrorIs(t, err, ErrRoutineNotFound)

	var assignments int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments`).Scan(&assignments))
	assert.Zero(t, assignments, "Assignments should cascade with their routine")

	assert.ErrorIs(t, store.DeleteRoutine(ctx, r.ID), ErrRoutineNotFound)
}

func TestRoutineStore_EmitsSignals(t *testing.T) {
	const key = "routine-store-test"
	t.Cleanup(func() { signals.RemoveListeners(key) })

	saved := make(chan signals.RoutineSavedData, 4)
	deleted := make(chan signals.RoutineDeletedData, 4)
	signals.OnRoutineSaved(func(ctx context.Context, data signals.RoutineSavedData) {
		if data.Name == "signalled" {
			saved <- data
		}
	}, key)
	signals.OnRoutineDeleted(func(ctx context.Context, data signals.RoutineDeletedData) {
		if data.Name == "signalled" {
			deleted <- data
		}
	}, key)

	store := setupTestStore(t)
	ctx := context.Background()

	r := testRoutine("signalled")
	require.NoError(t, store.SaveRoutine(ctx, r))

	select {
	case data := <-saved:
		assert.Equal(t, r.ID, data.RoutineID)
		assert.Equal(t, 42, data.Days.Int())
	case <-time.After(2 * time.Second):
		t.Fatal("RoutineSaved was not emitted")
	}

	require.NoError(t, store.DeleteRoutine(ctx, r.ID))
	select {
	case data := <-deleted:
		assert.Equal(t, r.ID, data.RoutineID)
	case <-time.After(2 * time.Second):
		t.Fatal("RoutineDeleted was not emitted")
	}
}

func TestRoutine_Helpers(t *testing.T) {
	r := testRoutine("bedtime")

	assert.Equal(t, [2]string{"Alice", "Bob"}, r.Participants())
	assert.Equal(t, "Bob", r.Other("Alice"))
	assert.Equal(t, "Alice", r.Other("Bob"))
	assert.True(t, r.Unavailable("Bob").Get(time.Friday))
	assert.True(t, r.Unavailable("Alice").Blank())
	assert.True(t, r.Unavailable("Carol").Blank())
}
