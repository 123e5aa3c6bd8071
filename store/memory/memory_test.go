package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/shift"
	"github.com/warp/shift-calendar/store/memory"
)

func day(d int) generic.TimePoint {
	return generic.NewTimePoint(2025, time.March, d)
}

func rest(d int) shift.Record {
	return shift.NewRestRecord(day(d), shift.RestOff, decimal.NewFromInt(10030))
}

func TestMemory_LoadRange_Sorted(t *testing.T) {
	store := memory.NewMemory()
	ctx := context.Background()

	for _, d := range []int{9, 1, 5} {
		require.NoError(t, store.Put(ctx, rest(d)))
	}

	records, err := store.LoadRange(ctx, day(1), day(9))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Date.Day())
	assert.Equal(t, 5, records[1].Date.Day())
	assert.Equal(t, 9, records[2].Date.Day())
}

func TestMemory_PutSameDate_KeepsOne(t *testing.T) {
	store := memory.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, rest(2)))
	require.NoError(t, store.Put(ctx, rest(2)))
	assert.Equal(t, 1, store.Len())
}

func TestTxMemory_RollbackRestoresSnapshot(t *testing.T) {
	// GIVEN: Two stored rest days
	// WHEN: A transaction clears the month and then fails
	// THEN: Both records are restored

	store := memory.NewTxMemory()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, rest(3)))
	require.NoError(t, store.Put(ctx, rest(4)))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx shift.Store) error {
		n, err := tx.DeleteRange(ctx, day(1), day(31))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, store.Len())
}

func TestTxMemory_CommitKeepsWrites(t *testing.T) {
	store := memory.NewTxMemory()
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx shift.Store) error {
		return tx.Put(ctx, rest(7))
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, day(7))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "OFF", got.Label())
}
