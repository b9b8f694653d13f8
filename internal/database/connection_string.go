package database

import (
	"fmt"
	"net/url"
	"strings"
)

// pragmas returns the PRAGMA statements implied by the options, in application order.
// journal_mode comes last so busy_timeout is already active when WAL is negotiated.
func (opts *SQLiteOptions) pragmas() []string {
	var pragmas []string

	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout))
	}
	if opts.ForeignKeys {
		pragmas = append(pragmas, "foreign_keys(1)")
	}
	if opts.Synchronous != "" {
		pragmas = append(pragmas, fmt.Sprintf("synchronous(%s)", opts.Synchronous))
	}
	if opts.CacheSize != 0 {
		pragmas = append(pragmas, fmt.Sprintf("cache_size(%d)", opts.CacheSize))
	}
	if opts.LockingMode != "" {
		pragmas = append(pragmas, fmt.Sprintf("locking_mode(%s)", opts.LockingMode))
	}
	if opts.AutoVacuum != "" {
		pragmas = append(pragmas, fmt.Sprintf("auto_vacuum(%s)", strings.ToUpper(opts.AutoVacuum)))
	}
	if opts.Journal != "" {
		pragmas = append(pragmas, fmt.Sprintf("journal_mode(%s)", opts.Journal))
	}

	return pragmas
}

// buildConnectionString generates a modernc.org/sqlite DSN from options
func (opts *SQLiteOptions) buildConnectionString() string {
	params := url.Values{}

	if opts.Mode != "" {
		params.Set("mode", opts.Mode)
	}
	if opts.Cache != "" {
		params.Set("cache", string(opts.Cache))
	}
	if opts.Immutable {
		params.Set("immutable", "1")
	}
	if opts.TxLock != "" {
		params.Set("_txlock", string(opts.TxLock))
	}
	for _, p := range opts.pragmas() {
		params.Add("_pragma", p)
	}

	connStr := opts.Path
	if !strings.HasPrefix(connStr, "file:") {
		connStr = "file:" + connStr
	}
	if encoded := params.Encode(); encoded != "" {
		connStr += "?" + encoded
	}

	return connStr
}
