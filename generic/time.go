package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date at day granularity
// =============================================================================

// TimePoint is a calendar date. Shift records are keyed by day, so the
// time-of-day component is always normalized away. Wall-clock times of a
// shift are carried as strings on the record, never here.
type TimePoint struct {
	Time time.Time
}

// DateLayout is the canonical textual form of a TimePoint.
const DateLayout = "2006-01-02"

// MonthLayout is the canonical textual form of a month cursor.
const MonthLayout = "2006-01"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the time-of-day and location of t.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// ParseMonth parses "YYYY-MM" into the first day of that month.
func ParseMonth(s string) (TimePoint, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return StartOfMonth(t.Year(), t.Month()), nil
}

// ValidDate reports whether year/month/day name a real calendar day
// (time.Date silently normalizes 2025-02-30 to March 2).
func ValidDate(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	tp := NewTimePoint(year, month, day)
	return tp.Year() == year && tp.Month() == month && tp.Day() == day
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return FromTime(tp.Time.AddDate(0, 0, n)) }

// AddMonths moves by n calendar months and snaps to the first of the month,
// so Jan 31 + 1 month is Feb 1 rather than March 3.
func (tp TimePoint) AddMonths(n int) TimePoint {
	first := StartOfMonth(tp.Year(), tp.Month())
	return FromTime(first.Time.AddDate(0, n, 0))
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsMonday() bool        { return tp.Weekday() == time.Monday }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	return tp.normalize().Format(DateLayout)
}

// MonthString formats the month this date falls in as "YYYY-MM".
func (tp TimePoint) MonthString() string {
	return tp.normalize().Format(MonthLayout)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }

func EndOfMonth(year int, month time.Month) TimePoint {
	return FromTime(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

// MondayOf returns the Monday on or before tp (ISO week start).
func MondayOf(tp TimePoint) TimePoint {
	offset := (int(tp.Weekday()) + 6) % 7
	return tp.AddDays(-offset)
}
