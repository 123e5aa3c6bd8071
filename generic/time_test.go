package generic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TIME POINT TESTS
// =============================================================================

func TestParseDate(t *testing.T) {
	tp, err := ParseDate("2025-06-16")
	require.NoError(t, err)
	assert.Equal(t, 2025, tp.Year())
	assert.Equal(t, time.June, tp.Month())
	assert.True(t, tp.IsMonday())
	assert.Equal(t, "2025-06-16", tp.String())

	_, err = ParseDate("2025-02-30")
	assert.Error(t, err)
	_, err = ParseDate("16/06/2025")
	assert.Error(t, err)
}

func TestParseMonth(t *testing.T) {
	tp, err := ParseMonth("2025-06")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", tp.String())
	assert.Equal(t, "2025-06", tp.MonthString())

	_, err = ParseMonth("2025-13")
	assert.Error(t, err)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate(2024, time.February, 29))
	assert.False(t, ValidDate(2025, time.February, 29))
	assert.False(t, ValidDate(2025, time.Month(13), 1))
	assert.False(t, ValidDate(2025, time.June, 0))
	assert.False(t, ValidDate(2025, time.June, 31))
}

func TestFromTime_DropsClockAndZone(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	tp := FromTime(time.Date(2025, time.June, 16, 23, 30, 0, 0, seoul))
	assert.Equal(t, "2025-06-16", tp.String())
	assert.True(t, tp.Equal(NewTimePoint(2025, time.June, 16)))
}

func TestAddMonths_SnapsToFirst(t *testing.T) {
	jan31 := NewTimePoint(2025, time.January, 31)

	assert.Equal(t, "2025-02-01", jan31.AddMonths(1).String())
	assert.Equal(t, "2024-12-01", jan31.AddMonths(-1).String())
	assert.Equal(t, "2026-01-01", jan31.AddMonths(12).String())
	assert.Equal(t, "2025-01-01", jan31.AddMonths(0).String())
}

func TestMondayOf(t *testing.T) {
	sunday := NewTimePoint(2025, time.June, 22)
	monday := NewTimePoint(2025, time.June, 16)

	assert.Equal(t, "2025-06-16", MondayOf(sunday).String())
	assert.Equal(t, "2025-06-16", MondayOf(monday).String())
}

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, "2024-02-29", EndOfMonth(2024, time.February).String())
	assert.Equal(t, "2025-12-31", EndOfMonth(2025, time.December).String())
}

// =============================================================================
// PERIOD TESTS
// =============================================================================

func TestWeekFrom(t *testing.T) {
	// GIVEN: A week starting on a Wednesday
	// WHEN: Building the week period
	// THEN: It spans 7 inclusive days from that date, not from Monday

	start := NewTimePoint(2025, time.June, 18)
	week := WeekFrom(start)

	assert.Equal(t, "2025-06-24", week.End.String())
	assert.True(t, week.Contains(start))
	assert.True(t, week.Contains(week.End))
	assert.False(t, week.Contains(start.AddDays(-1)))
	assert.False(t, week.Contains(week.End.AddDays(1)))
}

func TestMonthOf(t *testing.T) {
	month := MonthOf(NewTimePoint(2025, time.February, 14))
	assert.Equal(t, "[2025-02-01, 2025-02-28]", month.String())
	assert.True(t, month.Contains(NewTimePoint(2025, time.February, 28)))
	assert.False(t, month.Contains(NewTimePoint(2025, time.March, 1)))
	assert.False(t, month.Contains(NewTimePoint(2024, time.February, 14)))
}
