package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a migrated database in a temporary directory
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(NewDefaultOptions(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err, "Failed to create DB connection")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.MigrateDatabase(), "Failed to migrate database")
	return db
}

func countRoutines(t *testing.T, db *DB) int {
	t.Helper()
	var count int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM routines").Scan(&count))
	return count
}

func insertRoutineTx(ctx context.Context, tx *sql.Tx, name string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO routines (name, days, participant_a, participant_b)
		VALUES (?, ?, ?, ?)
	`, name, 42, "Alice", "Bob")
	return err
}

func TestDBClose(t *testing.T) {
	db, err := New(NewDefaultOptions(filepath.Join(t.TempDir(), "close.db")))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.conn.Ping(), "Ping should fail on a closed connection")
}

// TestPragmaSettings verifies that options reach every connection through the DSN.
func TestPragmaSettings(t *testing.T) {
	testCases := []struct {
		name            string
		opts            func(path string) SQLiteOptions
		expectedJournal string
		expectedBusy    int
		expectedCache   int
		expectedFK      int
		expectedSync    int // 0=OFF, 1=NORMAL, 2=FULL, 3=EXTRA
	}{
		{
			name:            "Default Options",
			opts:            NewDefaultOptions,
			expectedJournal: "wal",
			expectedBusy:    5000,
			expectedCache:   2000,
			expectedFK:      1,
			expectedSync:    1,
		},
		{
			name: "Custom Options",
			opts: func(path string) SQLiteOptions {
				return SQLiteOptions{
					Path:        path,
					Journal:     JournalDelete,
					BusyTimeout: 12345,
					CacheSize:   -4000,
					Synchronous: SynchronousFull,
				}
			},
			expectedJournal: "delete",
			expectedBusy:    12345,
			expectedCache:   -4000,
			expectedFK:      0,
			expectedSync:    2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, err := New(tc.opts(filepath.Join(t.TempDir(), "pragma.db")))
			require.NoError(t, err, "Failed to create DB connection")
			defer db.Close()

			var journalMode string
			require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode;").Scan(&journalMode))
			assert.Equal(t, tc.expectedJournal, journalMode, "Unexpected journal_mode")

			var busyTimeout int
			require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout;").Scan(&busyTimeout))
			assert.Equal(t, tc.expectedBusy, busyTimeout, "Unexpected busy_timeout")

			var cacheSize int
			require.NoError(t, db.conn.QueryRow("PRAGMA cache_size;").Scan(&cacheSize))
			assert.Equal(t, tc.expectedCache, cacheSize, "Unexpected cache_size")

			var foreignKeys int
			require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys;").Scan(&foreignKeys))
			assert.Equal(t, tc.expectedFK, foreignKeys, "Unexpected foreign_keys setting")

			var synchronous int
			require.NoError(t, db.conn.QueryRow("PRAGMA synchronous;").Scan(&synchronous))
			assert.Equal(t, tc.expectedSync, synchronous, "Unexpected synchronous setting")
		})
	}
}

func TestMigrateDatabase_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.MigrateDatabase(), "Second migration run should be a no-op")

	for _, table := range []string{"routines", "assignments"} {
		var name string
		err := db.conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "Table %s should exist", table)
	}
}

func TestMigrateDatabase_DaysConstraint(t *testing.T) {
	db := newTestDB(t)

	_, err := db.conn.Exec(`
		INSERT INTO routines (name, days, participant_a, participant_b)
		VALUES ('overflow', 128, 'Alice', 'Bob')
	`)
	assert.Error(t, err, "Days above 127 should be rejected")
}

func TestInMemoryDatabase(t *testing.T) {
	db, err := New(NewDefaultOptions(":memory:"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.MigrateDatabase())
	ctx := context.Background()
	require.NoError(t, db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return insertRoutineTx(ctx, tx, "memory")
	}))
	assert.Equal(t, 1, countRoutines(t, db))
}

func TestWithTransaction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("Successful Transaction", func(t *testing.T) {
		err := db.WithTransaction(ctx, func(tx *sql.Tx) error {
			return insertRoutineTx(ctx, tx, "committed")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countRoutines(t, db))
	})

	t.Run("Transaction Rollback on Error", func(t *testing.T) {
		before := countRoutines(t, db)
		testError := errors.New("test error")

		err := db.WithTransaction(ctx, func(tx *sql.Tx) error {
			if err := insertRoutineTx(ctx, tx, "rolled-back"); err != nil {
				return err
			}
			return testError
		})

		assert.ErrorIs(t, err, testError)
		assert.Equal(t, before, countRoutines(t, db))
	})

	t.Run("Transaction Rollback on Panic", func(t *testing.T) {
		before := countRoutines(t, db)

		assert.Panics(t, func() {
			_ = db.WithTransaction(ctx, func(tx *sql.Tx) error {
				if err := insertRoutineTx(ctx, tx, "panicked"); err != nil {
					return err
				}
				panic("test panic")
			})
		})

		assert.Equal(t, before, countRoutines(t, db))
	})

	t.Run("Context Cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := db.WithTransaction(cancelled, func(tx *sql.Tx) error {
			return insertRoutineTx(cancelled, tx, "cancelled")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
