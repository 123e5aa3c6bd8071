/*
calendar.go - The calendar store

PURPOSE:
  Calendar is the single owner of shift records and the only component
  that writes to a Store. It maps weekday-relative schedule entries onto
  absolute dates, computes hours and wages at the current hourly rate,
  detects week conflicts, and answers month-scoped aggregation queries.

STATE:
  - records:      held by the Store (one per date)
  - hourlyWage:   applies to records created from now on; existing records
                  keep the wage they were created with
  - currentMonth: navigation cursor for presentation, first day of a month

CONCURRENCY:
  All mutations run under one mutex. ApplyWeek with ApplyIfAbsent performs
  the containsWeek check and the writes inside the same critical section
  and store transaction, so two concurrent submissions for one week cannot
  both see "no conflict".

NOTIFICATIONS:
  Subscribers receive Events after the change is committed and the lock is
  released, so a listener may call back into the Calendar.

SEE ALSO:
  - store.go: Store / TxStore
  - calculator.go: Hours and wage rules
  - pipeline/pipeline.go: Drives ApplyWeek from recognized schedules
*/
package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-calendar/generic"
)

// DefaultHourlyWage is the starting hourly rate (KRW).
var DefaultHourlyWage = decimal.NewFromInt(10030)

// =============================================================================
// APPLY MODES
// =============================================================================

// ApplyMode selects how a recognized week merges with existing records.
type ApplyMode string

const (
	// ApplyIfAbsent writes only when the week holds no records, otherwise
	// returns ErrWeekConflict without writing.
	ApplyIfAbsent ApplyMode = "if_absent"
	// ApplyAppend upserts day by day, keeping other days of the week.
	ApplyAppend ApplyMode = "append"
	// ApplyOverwrite removes the whole week first.
	ApplyOverwrite ApplyMode = "overwrite"
)

// DayEntry is one weekday's recognized shift text ("09:00 ~ 18:00", "OFF").
type DayEntry struct {
	Weekday Weekday
	Text    string
}

// SkippedDay is an entry that could not be applied. The rest of the week
// still applies.
type SkippedDay struct {
	Weekday Weekday
	Date    generic.TimePoint
	Text    string
	Err     error
}

// ApplyReport describes the outcome of ApplyWeek.
type ApplyReport struct {
	WeekStart generic.TimePoint
	Mode      ApplyMode
	Removed   int
	Applied   []Record
	Skipped   []SkippedDay
}

// =============================================================================
// CALENDAR
// =============================================================================

type Calendar struct {
	mu           sync.Mutex
	store        TxStore
	hourlyWage   decimal.Decimal
	currentMonth generic.TimePoint
	logger       *slog.Logger
	events       generic.Hub[Event]
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithHourlyWage sets the starting rate.
func WithHourlyWage(w decimal.Decimal) Option {
	return func(c *Calendar) { c.hourlyWage = w }
}

// WithCurrentMonth sets the starting month cursor.
func WithCurrentMonth(tp generic.TimePoint) Option {
	return func(c *Calendar) { c.currentMonth = generic.StartOfMonth(tp.Year(), tp.Month()) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calendar) { c.logger = l }
}

// NewCalendar creates a calendar over store. The month cursor starts at the
// current month.
func NewCalendar(store TxStore, opts ...Option) *Calendar {
	today := generic.Today()
	c := &Calendar{
		store:        store,
		hourlyWage:   DefaultHourlyWage,
		currentMonth: generic.StartOfMonth(today.Year(), today.Month()),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (c *Calendar) Subscribe(fn func(Event)) func() {
	return c.events.Subscribe(fn)
}

// =============================================================================
// RATE AND MONTH CURSOR
// =============================================================================

func (c *Calendar) HourlyWage() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hourlyWage
}

// SetHourlyWage changes the rate for records created afterwards.
func (c *Calendar) SetHourlyWage(w decimal.Decimal) error {
	if w.IsNegative() {
		return generic.ErrNegativeWage
	}
	c.mu.Lock()
	c.hourlyWage = w
	c.mu.Unlock()
	c.events.Publish(Event{Kind: EventWageChanged})
	return nil
}

func (c *Calendar) CurrentMonth() generic.TimePoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentMonth
}

// ChangeMonth moves the cursor by offset months. Any offset, including 0, is accepted.
func (c *Calendar) ChangeMonth(offset int) generic.TimePoint {
	c.mu.Lock()
	c.currentMonth = c.currentMonth.AddMonths(offset)
	month := c.currentMonth
	c.mu.Unlock()
	c.events.Publish(Event{Kind: EventMonthChanged, Date: month})
	return month
}

// JumpToMonth sets the cursor to the month containing date.
func (c *Calendar) JumpToMonth(date generic.TimePoint) generic.TimePoint {
	c.mu.Lock()
	c.currentMonth = generic.StartOfMonth(date.Year(), date.Month())
	month := c.currentMonth
	c.mu.Unlock()
	c.events.Publish(Event{Kind: EventMonthChanged, Date: month})
	return month
}

// =============================================================================
// SINGLE-DAY WRITES
// =============================================================================

// AddWorkDay records a work shift for weekday of the week starting at
// weekStart. Text without exactly one '~' is skipped silently; an invalid
// clock time returns an *InvalidTimeError and writes nothing.
func (c *Calendar) AddWorkDay(ctx context.Context, weekday Weekday, timeRange string, weekStart generic.TimePoint) error {
	start, end, ok := SplitTimeRange(timeRange)
	if !ok {
		c.logger.Debug("skipping malformed time range", "weekday", weekday, "text", timeRange)
		return nil
	}
	return c.SetWorkDay(ctx, weekday.DateIn(weekStart), start, end)
}

// AddRestDay records a rest day for weekday of the week starting at weekStart.
func (c *Calendar) AddRestDay(ctx context.Context, weekday Weekday, label RestLabel, weekStart generic.TimePoint) error {
	return c.SetRestDay(ctx, weekday.DateIn(weekStart), label)
}

// SetWorkDay upserts a work record for an absolute date.
func (c *Calendar) SetWorkDay(ctx context.Context, date generic.TimePoint, start, end string) error {
	c.mu.Lock()
	rec, err := NewWorkRecord(date, start, end, c.hourlyWage)
	if err == nil {
		err = c.store.Put(ctx, rec)
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.events.Publish(Event{Kind: EventRecordSaved, Date: date, Record: &rec})
	return nil
}

// SetRestDay upserts a rest record for an absolute date.
func (c *Calendar) SetRestDay(ctx context.Context, date generic.TimePoint, label RestLabel) error {
	c.mu.Lock()
	rec := NewRestRecord(date, label, c.hourlyWage)
	err := c.store.Put(ctx, rec)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.events.Publish(Event{Kind: EventRecordSaved, Date: date, Record: &rec})
	return nil
}

// RemoveDay deletes the record for date and reports whether one existed.
func (c *Calendar) RemoveDay(ctx context.Context, date generic.TimePoint) (bool, error) {
	c.mu.Lock()
	n, err := c.store.DeleteRange(ctx, date, date)
	c.mu.Unlock()
	if err != nil {
		return false, err
	}
	if n > 0 {
		c.events.Publish(Event{Kind: EventDayRemoved, Date: date})
	}
	return n > 0, nil
}

// =============================================================================
// WEEK OPERATIONS
// =============================================================================

// ContainsWeek reports whether any of the 7 days from weekStart has a record.
func (c *Calendar) ContainsWeek(ctx context.Context, weekStart generic.TimePoint) (bool, error) {
	week := generic.WeekFrom(weekStart)
	recs, err := c.store.LoadRange(ctx, week.Start, week.End)
	if err != nil {
		return false, err
	}
	return len(recs) > 0, nil
}

// RemoveWeek deletes all records of the 7 days from weekStart. Idempotent.
func (c *Calendar) RemoveWeek(ctx context.Context, weekStart generic.TimePoint) error {
	week := generic.WeekFrom(weekStart)
	c.mu.Lock()
	n, err := c.store.DeleteRange(ctx, week.Start, week.End)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if n > 0 {
		c.events.Publish(Event{Kind: EventWeekRemoved, Date: weekStart})
	}
	return nil
}

// Week returns the records of the 7 days from weekStart, ordered by date.
func (c *Calendar) Week(ctx context.Context, weekStart generic.TimePoint) ([]Record, error) {
	week := generic.WeekFrom(weekStart)
	return c.store.LoadRange(ctx, week.Start, week.End)
}

// ApplyWeek writes a recognized week in one store transaction. Entries whose
// clock times do not parse, or whose text is neither a time range nor a rest
// marker, are reported in Skipped and the remaining days still apply.
func (c *Calendar) ApplyWeek(ctx context.Context, weekStart generic.TimePoint, entries []DayEntry, mode ApplyMode) (ApplyReport, error) {
	week := generic.WeekFrom(weekStart)
	var (
		report ApplyReport
		events []Event
	)

	c.mu.Lock()
	err := c.store.WithTx(ctx, func(st Store) error {
		report = ApplyReport{WeekStart: weekStart, Mode: mode}
		events = events[:0]

		switch mode {
		case ApplyIfAbsent:
			existing, err := st.LoadRange(ctx, week.Start, week.End)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return &WeekConflictError{WeekStart: weekStart}
			}
		case ApplyOverwrite:
			n, err := st.DeleteRange(ctx, week.Start, week.End)
			if err != nil {
				return err
			}
			report.Removed = n
			if n > 0 {
				events = append(events, Event{Kind: EventWeekRemoved, Date: weekStart})
			}
		case ApplyAppend:
		default:
			return fmt.Errorf("unknown apply mode %q", mode)
		}

		for _, entry := range entries {
			date := entry.Weekday.DateIn(weekStart)
			rec, err := c.recordFor(date, entry.Text)
			if err != nil {
				if errors.Is(err, generic.ErrInvalidTimeFormat) {
					c.logger.Warn("skipping day with unusable shift text",
						"date", date.String(), "weekday", entry.Weekday, "text", entry.Text, "error", err)
					report.Skipped = append(report.Skipped, SkippedDay{Weekday: entry.Weekday, Date: date, Text: entry.Text, Err: err})
					continue
				}
				return err
			}
			if err := st.Put(ctx, rec); err != nil {
				return err
			}
			report.Applied = append(report.Applied, rec)
			saved := rec
			events = append(events, Event{Kind: EventRecordSaved, Date: date, Record: &saved})
		}
		return nil
	})
	c.mu.Unlock()

	if err != nil {
		return ApplyReport{}, err
	}
	c.logger.Info("week applied",
		"week", week.String(), "mode", mode,
		"applied", len(report.Applied), "skipped", len(report.Skipped), "removed", report.Removed)
	c.events.Publish(events...)
	return report, nil
}

var errUnrecognizedShift = fmt.Errorf("%w: not a time range or rest marker", generic.ErrInvalidTimeFormat)

// recordFor classifies shift text. Caller holds c.mu.
func (c *Calendar) recordFor(date generic.TimePoint, text string) (Record, error) {
	if label, ok := FindRestLabel(text); ok {
		return NewRestRecord(date, label, c.hourlyWage), nil
	}
	start, end, ok := SplitTimeRange(text)
	if !ok {
		return Record{}, errUnrecognizedShift
	}
	return NewWorkRecord(date, start, end, c.hourlyWage)
}

// =============================================================================
// QUERIES
// =============================================================================

// Record returns the record for date, or nil.
func (c *Calendar) Record(ctx context.Context, date generic.TimePoint) (*Record, error) {
	return c.store.Get(ctx, date)
}

// WageForDate returns the daily wage of date, if a record exists.
func (c *Calendar) WageForDate(ctx context.Context, date generic.TimePoint) (decimal.Decimal, bool, error) {
	rec, err := c.store.Get(ctx, date)
	if err != nil || rec == nil {
		return decimal.Zero, false, err
	}
	return rec.Wage, true, nil
}

// LabelForDate returns the rest label of date when it is a rest day.
func (c *Calendar) LabelForDate(ctx context.Context, date generic.TimePoint) (string, bool, error) {
	rec, err := c.store.Get(ctx, date)
	if err != nil || rec == nil || !rec.IsRest() {
		return "", false, err
	}
	return rec.StartLabel, true, nil
}

// MonthRecords returns the records of the calendar month containing month.
func (c *Calendar) MonthRecords(ctx context.Context, month generic.TimePoint) ([]Record, error) {
	p := generic.MonthOf(month)
	return c.store.LoadRange(ctx, p.Start, p.End)
}

// TotalWageForMonth sums daily wages over the calendar month (year and
// month) containing month.
func (c *Calendar) TotalWageForMonth(ctx context.Context, month generic.TimePoint) (decimal.Decimal, error) {
	recs, err := c.MonthRecords(ctx, month)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(r.Wage)
	}
	return total, nil
}

// MonthSummary aggregates hours, wages and day counts for a month.
func (c *Calendar) MonthSummary(ctx context.Context, month generic.TimePoint) (MonthSummary, error) {
	recs, err := c.MonthRecords(ctx, month)
	if err != nil {
		return MonthSummary{}, err
	}
	return Summarize(month, recs), nil
}
