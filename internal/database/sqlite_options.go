package database

// SynchronousMode represents the available synchronous settings for SQLite
type SynchronousMode string

const (
	SynchronousOff    SynchronousMode = "OFF"
	SynchronousNormal SynchronousMode = "NORMAL"
	SynchronousFull   SynchronousMode = "FULL"
	SynchronousExtra  SynchronousMode = "EXTRA"
)

// JournalMode represents the available journal modes for SQLite
type JournalMode string

const (
	JournalDelete   JournalMode = "DELETE"
	JournalTruncate JournalMode = "TRUNCATE"
	JournalPersist  JournalMode = "PERSIST"
	JournalMemory   JournalMode = "MEMORY"
	JournalWAL      JournalMode = "WAL"
	JournalOff      JournalMode = "OFF"
)

// LockingMode represents the available locking modes for SQLite
type LockingMode string

const (
	LockingNormal    LockingMode = "NORMAL"
	LockingExclusive LockingMode = "EXCLUSIVE"
)

// CacheMode represents the available cache modes for SQLite
type CacheMode string

const (
	CacheShared  CacheMode = "shared"
	CachePrivate CacheMode = "private"
)

// TxLock represents the BEGIN statement flavour used by the driver
type TxLock string

const (
	TxLockDeferred  TxLock = "deferred"
	TxLockImmediate TxLock = "immediate"
	TxLockExclusive TxLock = "exclusive"
)

// SQLiteOptions contains configuration options for SQLite connection.
// URI options are understood by SQLite itself; PRAGMA options are applied by the
// driver to every pooled connection.
type SQLiteOptions struct {
	// Path to the SQLite database file, or ":memory:"
	Path string

	// URI options
	Mode      string    // ro, rw, rwc, memory
	Cache     CacheMode // shared, private
	Immutable bool

	// PRAGMA options
	Journal     JournalMode     // journal_mode
	ForeignKeys bool            // foreign_keys
	BusyTimeout int             // busy_timeout (milliseconds)
	CacheSize   int             // cache_size (pages, negative for KiB)
	Synchronous SynchronousMode // synchronous
	LockingMode LockingMode     // locking_mode
	AutoVacuum  string          // auto_vacuum: none, full, incremental

	// Driver options
	TxLock TxLock // _txlock
}

// NewDefaultOptions creates SQLiteOptions with recommended defaults
func NewDefaultOptions(path string) SQLiteOptions {
	return SQLiteOptions{
		Path:        path,
		Mode:        "rwc",
		Journal:     JournalWAL, // WAL is recommended for better concurrency
		ForeignKeys: true,
		BusyTimeout: 5000,
		CacheSize:   2000,
		Synchronous: SynchronousNormal,
		Cache:       CachePrivate,
		TxLock:      TxLockImmediate,
	}
}

// IsMemory reports whether the options describe an in-memory database
func (opts SQLiteOptions) IsMemory() bool {
	return opts.Path == ":memory:" || opts.Mode == "memory"
}
