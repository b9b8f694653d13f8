package database

import (
	"context"
	"testing"

	"github.com/belphemur/week-routine/internal/config"
	"github.com/belphemur/week-routine/weekmask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestSeeder(t *testing.T) (*ConfigSeeder, *RoutineStore) {
	t.Helper()
	store, err := NewRoutineStore(newTestDB(t))
	require.NoError(t, err, "Failed to create routine store")
	return NewConfigSeeder(store), store
}

func createTestConfig() *config.Config {
	return &config.Config{
		Routines: []config.RoutineConfig{
			{
				Name:                    "bedtime",
				Days:                    *weekmask.Of("monday", "wednesday", "friday"),
				ParticipantA:            "Alice",
				ParticipantB:            "Bob",
				ParticipantAUnavailable: *weekmask.Of("wednesday"),
			},
			{
				Name:         "dishes",
				Days:         *weekmask.New(weekmask.MaxValue),
				ParticipantA: "Alice",
				ParticipantB: "Bob",
			},
		},
	}
}

func TestConfigSeeder_InitialSeeding(t *testing.T) {
	seeder, store := setupTestSeeder(t)
	ctx := context.Background()

	hasRoutines, err := store.HasRoutines(ctx)
	require.NoError(t, err)
	assert.False(t, hasRoutines, "Database should start empty")

	count, err := seeder.SeedFromConfig(ctx, createTestConfig())
	require.NoError(t, err, "Failed to seed routines")
	assert.Equal(t, 2, count)

	bedtime, err := store.GetRoutineByName(ctx, "bedtime")
	require.NoError(t, err)
	assert.Equal(t, 42, bedtime.Days.Int())
	assert.Equal(t, 8, bedtime.ParticipantAUnavailable.Int())
	assert.True(t, bedtime.ParticipantBUnavailable.Blank())
}

func TestConfigSeeder_SkipsWhenRoutinesExist(t *testing.T) {
	seeder, store := setupTestSeeder(t)
	ctx := context.Background()

	_, err := seeder.SeedFromConfig(ctx, createTestConfig())
	require.NoError(t, err)

	bedtime, err := store.GetRoutineByName(ctx, "bedtime")
	require.NoError(t, err)
	require.NoError(t, store.SetRoutineDays(ctx, bedtime.ID, *weekmask.Of("saturday")))

	count, err := seeder.SeedFromConfig(ctx, createTestConfig())
	require.NoError(t, err)
	assert.Zero(t, count, "Seeding should be skipped when routines exist")

	bedtime, err = store.GetRoutineByName(ctx, "bedtime")
	require.NoError(t, err)
	assert.Equal(t, 64, bedtime.Days.Int(), "Database edits should survive a restart")
}

func TestConfigSeeder_InvalidRoutine(t *testing.T) {
	seeder, _ := setupTestSeeder(t)

	cfg := &config.Config{Routines: []config.RoutineConfig{
		{Name: "broken", Days: *weekmask.New(1), ParticipantA: "Alice", ParticipantB: "Alice"},
	}}

	_, err := seeder.SeedFromConfig(context.Background(), cfg)
	assert.ErrorContains(t, err, "broken")
}
