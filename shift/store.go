/*
store.go - Persistence interface for shift records

PURPOSE:
  Defines the boundary between the Calendar and wherever records live.
  The observed application keeps records in memory for the life of the
  process; the same contract is served by SQLite for operators who want
  a file.

KEY INTERFACES:
  Store:   Keyed record persistence (upsert, lookup, range load, range delete)
  TxStore: Store plus all-or-nothing execution of several writes

UPSERT CONTRACT:
  Put replaces any existing record for the same date. There is never more
  than one record per date, so a store is a map keyed by day.

ATOMIC BATCHES:
  Overwriting a week removes up to 7 records and writes up to 7 more.
  WithTx guarantees that either all of it happens or none of it does.

IMPLEMENTATIONS:
  - store/memory: map + RWMutex, snapshot/restore transactions
  - store/sqlite: database/sql with mattn/go-sqlite3

SEE ALSO:
  - calendar.go: The only writer
*/
package shift

import (
	"context"

	"github.com/warp/shift-calendar/generic"
)

// Store handles persistence of shift records keyed by date.
type Store interface {
	// Put upserts rec, replacing any record for rec.Date.
	Put(ctx context.Context, rec Record) error

	// Get returns the record for date, or nil when absent.
	Get(ctx context.Context, date generic.TimePoint) (*Record, error)

	// LoadRange returns records with from <= Date <= to, ordered by Date.
	LoadRange(ctx context.Context, from, to generic.TimePoint) ([]Record, error)

	// DeleteRange removes records with from <= Date <= to and reports how
	// many existed. Deleting absent dates is a no-op.
	DeleteRange(ctx context.Context, from, to generic.TimePoint) (int, error)
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
