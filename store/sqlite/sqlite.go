/*
Package sqlite provides a SQLite-backed implementation of shift.TxStore.

PURPOSE:
  Implements the record store on SQLite. The default path ":memory:" keeps
  the calendar volatile for the life of the process, like the in-memory
  store; pointing it at a file keeps records across restarts.

UPSERT ENFORCEMENT:
  shift_records is keyed by date. Put uses INSERT ... ON CONFLICT(date)
  DO UPDATE, so there is never more than one record per day.

KEY TABLES:
  shift_records: one row per date (labels, decimal hours/wage as TEXT)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. An in-memory database exists per
  connection, so the pool is pinned to a single connection.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  cal := shift.NewCalendar(store)

SEE ALSO:
  - shift/store.go: Interface definitions
  - store/memory: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/shift"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store implements shift.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != MemoryPath {
		dsn = dbPath + "?_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shift_records (
		date TEXT PRIMARY KEY,
		start_label TEXT NOT NULL,
		end_label TEXT NOT NULL DEFAULT '',
		hours TEXT NOT NULL,
		wage TEXT NOT NULL,
		hourly_wage TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// shift.Store
// =============================================================================

// Put upserts a record.
func (s *Store) Put(ctx context.Context, rec shift.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putRecord(ctx, s.db, rec)
}

// Get retrieves the record for date, or nil.
func (s *Store) Get(ctx context.Context, date generic.TimePoint) (*shift.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRecord(ctx, s.db, date)
}

// LoadRange returns records in [from, to] ordered by date.
func (s *Store) LoadRange(ctx context.Context, from, to generic.TimePoint) ([]shift.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadRange(ctx, s.db, from, to)
}

// DeleteRange removes records in [from, to].
func (s *Store) DeleteRange(ctx context.Context, from, to generic.TimePoint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteRange(ctx, s.db, from, to)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store shift.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) Put(ctx context.Context, rec shift.Record) error {
	return putRecord(ctx, ts.tx, rec)
}

func (ts *txStore) Get(ctx context.Context, date generic.TimePoint) (*shift.Record, error) {
	return getRecord(ctx, ts.tx, date)
}

func (ts *txStore) LoadRange(ctx context.Context, from, to generic.TimePoint) ([]shift.Record, error) {
	return loadRange(ctx, ts.tx, from, to)
}

func (ts *txStore) DeleteRange(ctx context.Context, from, to generic.TimePoint) (int, error) {
	return deleteRange(ctx, ts.tx, from, to)
}

// =============================================================================
// QUERIES
// =============================================================================

const selectColumns = `SELECT date, start_label, end_label, hours, wage, hourly_wage, created_at FROM shift_records`

func putRecord(ctx context.Context, q querier, rec shift.Record) error {
	query := `
		INSERT INTO shift_records (date, start_label, end_label, hours, wage, hourly_wage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			start_label = excluded.start_label,
			end_label = excluded.end_label,
			hours = excluded.hours,
			wage = excluded.wage,
			hourly_wage = excluded.hourly_wage,
			created_at = excluded.created_at
	`
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := q.ExecContext(ctx, query,
		rec.Date.String(),
		rec.StartLabel,
		rec.EndLabel,
		rec.Hours.String(),
		rec.Wage.String(),
		rec.HourlyWage.String(),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.Date, err)
	}
	return nil
}

func getRecord(ctx context.Context, q querier, date generic.TimePoint) (*shift.Record, error) {
	row := q.QueryRowContext(ctx, selectColumns+" WHERE date = ?", date.String())
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func loadRange(ctx context.Context, q querier, from, to generic.TimePoint) ([]shift.Record, error) {
	rows, err := q.QueryContext(ctx,
		selectColumns+" WHERE date >= ? AND date <= ? ORDER BY date ASC",
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []shift.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func deleteRange(ctx context.Context, q querier, from, to generic.TimePoint) (int, error) {
	res, err := q.ExecContext(ctx,
		"DELETE FROM shift_records WHERE date >= ? AND date <= ?",
		from.String(), to.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (shift.Record, error) {
	var rec shift.Record
	var date, hours, wage, hourly, createdAt string
	if err := row.Scan(&date, &rec.StartLabel, &rec.EndLabel, &hours, &wage, &hourly, &createdAt); err != nil {
		return shift.Record{}, err
	}

	var err error
	if rec.Date, err = generic.ParseDate(date); err != nil {
		return shift.Record{}, fmt.Errorf("failed to parse record date: %w", err)
	}
	if rec.Hours, err = decimal.NewFromString(hours); err != nil {
		return shift.Record{}, fmt.Errorf("failed to parse hours of %s: %w", date, err)
	}
	if rec.Wage, err = decimal.NewFromString(wage); err != nil {
		return shift.Record{}, fmt.Errorf("failed to parse wage of %s: %w", date, err)
	}
	if rec.HourlyWage, err = decimal.NewFromString(hourly); err != nil {
		return shift.Record{}, fmt.Errorf("failed to parse hourly wage of %s: %w", date, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return shift.Record{}, fmt.Errorf("failed to parse created_at of %s: %w", date, err)
	}
	return rec, nil
}
