package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/shift"
	"github.com/warp/shift-calendar/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(d int) generic.TimePoint {
	return generic.NewTimePoint(2025, time.March, d)
}

func workRecord(t *testing.T, date generic.TimePoint, start, end string) shift.Record {
	rec, err := shift.NewWorkRecord(date, start, end, decimal.NewFromInt(10000))
	require.NoError(t, err)
	return rec
}

// =============================================================================
// RECORD TESTS
// =============================================================================

func TestStore_PutThenGet_RoundTripsDecimals(t *testing.T) {
	// GIVEN: A 09:00~18:00 record at 10000/h
	// WHEN: Saving and reading it back
	// THEN: Labels and decimal values survive unchanged

	store := newTestStore(t)
	ctx := context.Background()

	rec := workRecord(t, day(3), "9:00", "18:00")
	require.NoError(t, store.Put(ctx, rec))

	got, err := store.Get(ctx, day(3))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "09:00", got.StartLabel)
	assert.Equal(t, "18:00", got.EndLabel)
	assert.True(t, got.Hours.Equal(decimal.NewFromInt(8)), "hours = %s", got.Hours)
	assert.True(t, got.Wage.Equal(decimal.NewFromInt(80000)), "wage = %s", got.Wage)
	assert.True(t, got.Date.Equal(day(3)))
}

func TestStore_Get_MissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), day(1))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Put_ReplacesSameDate(t *testing.T) {
	// GIVEN: A work record on March 4
	// WHEN: Saving a rest record for the same date
	// THEN: Only the rest record remains

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, workRecord(t, day(4), "09:00", "18:00")))
	require.NoError(t, store.Put(ctx, shift.NewRestRecord(day(4), shift.RestPaidWeek, decimal.NewFromInt(10000))))

	records, err := store.LoadRange(ctx, day(1), day(31))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsRest())
	assert.Equal(t, "주휴", records[0].Label())
}

func TestStore_LoadRange_OrderedAndInclusive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []int{12, 3, 10, 17} {
		require.NoError(t, store.Put(ctx, workRecord(t, day(d), "10:00", "14:00")))
	}

	records, err := store.LoadRange(ctx, day(3), day(12))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-03-03", records[0].Date.String())
	assert.Equal(t, "2025-03-10", records[1].Date.String())
	assert.Equal(t, "2025-03-12", records[2].Date.String())
}

func TestStore_DeleteRange_ReportsCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, workRecord(t, day(3), "10:00", "14:00")))
	require.NoError(t, store.Put(ctx, workRecord(t, day(5), "10:00", "14:00")))

	n, err := store.DeleteRange(ctx, day(3), day(9))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.DeleteRange(ctx, day(3), day(9))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// =============================================================================
// TRANSACTION TESTS
// =============================================================================

func TestStore_WithTx_RollsBackOnError(t *testing.T) {
	// GIVEN: A stored record
	// WHEN: A transaction deletes it and then fails
	// THEN: The record is still there

	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, workRecord(t, day(3), "10:00", "14:00")))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx shift.Store) error {
		if _, err := tx.DeleteRange(ctx, day(1), day(31)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, day(3))
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestStore_WithTx_CommitsOnSuccess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx shift.Store) error {
		for d := 3; d <= 9; d++ {
			if err := tx.Put(ctx, workRecord(t, day(d), "10:00", "14:00")); err != nil {
				return err
			}
		}
		records, err := tx.LoadRange(ctx, day(3), day(9))
		if err != nil {
			return err
		}
		assert.Len(t, records, 7)
		return nil
	})
	require.NoError(t, err)

	records, err := store.LoadRange(ctx, day(1), day(31))
	require.NoError(t, err)
	assert.Len(t, records, 7)
}

func TestStore_CorruptRow_ReturnsParseError(t *testing.T) {
	// GIVEN: A file-backed record whose hours column was edited to garbage
	// WHEN: Reading the day and loading the month
	// THEN: Both fail with a parse error instead of reporting zero hours

	path := t.TempDir() + "/shifts.db"
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, workRecord(t, day(3), "10:00", "14:00")))
	require.NoError(t, store.Close())

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE shift_records SET hours = 'four' WHERE date = ?`, day(3).String())
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Get(ctx, day(3))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "failed to parse hours of 2025-03-03")

	_, err = reopened.LoadRange(ctx, day(1), day(31))
	require.Error(t, err)
}

func TestStore_CorruptCreatedAt_ReturnsParseError(t *testing.T) {
	path := t.TempDir() + "/shifts.db"
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, workRecord(t, day(4), "10:00", "14:00")))
	require.NoError(t, store.Close())

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE shift_records SET created_at = 'yesterday'`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	_, err = reopened.Get(ctx, day(4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse created_at")
}

func TestStore_FileBacked_PersistsAcrossOpen(t *testing.T) {
	path := t.TempDir() + "/shifts.db"
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, workRecord(t, day(3), "22:00", "07:00")))
	require.NoError(t, store.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Get(ctx, day(3))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Hours.Equal(decimal.NewFromInt(8)), "hours = %s", got.Hours)
}
