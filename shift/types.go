/*
Package shift holds the shift calendar domain: the per-day record, the
weekday enumeration, the hours/wage calculator and the Calendar that owns
all records.

PURPOSE:
  A schedule photo yields seven (weekday, shift text) pairs. This package
  turns each pair into a Record for an absolute date, computing hours
  worked after the unpaid break and the day's wage, and keeps exactly one
  Record per date.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: One day's work interval or rest designation
  - RestLabel: OFF, 오프 (informal off) or 주휴 (paid weekly rest)

INVARIANTS:
  1. Wage == Hours * HourlyWage at creation time
  2. One Record per Date in a store (insertion overwrites)
  3. Records are never mutated in place, only replaced or removed

SEE ALSO:
  - weekday.go: Weekday enumeration with ISO offsets
  - calculator.go: Hours and wage computation
  - calendar.go: The calendar store
*/
package shift

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-calendar/generic"
)

// =============================================================================
// REST LABELS
// =============================================================================

// RestLabel marks a scheduled non-working day.
type RestLabel string

const (
	RestOff       RestLabel = "OFF"
	RestOffKorean RestLabel = "오프"
	RestPaidWeek  RestLabel = "주휴"
)

// RestLabels lists every recognized rest marker.
var RestLabels = []RestLabel{RestOff, RestOffKorean, RestPaidWeek}

// ParseRestLabel matches a label exactly.
func ParseRestLabel(s string) (RestLabel, bool) {
	s = strings.TrimSpace(s)
	for _, l := range RestLabels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// FindRestLabel returns the rest marker contained in text. 주휴 wins over
// the plain off markers since it changes pay semantics.
func FindRestLabel(text string) (RestLabel, bool) {
	if strings.Contains(text, string(RestPaidWeek)) {
		return RestPaidWeek, true
	}
	for _, l := range []RestLabel{RestOff, RestOffKorean} {
		if strings.Contains(text, string(l)) {
			return l, true
		}
	}
	return "", false
}

// =============================================================================
// RECORD - One day's shift
// =============================================================================

// Record is the stored shift for a single date.
type Record struct {
	Date       generic.TimePoint
	StartLabel string // "HH:MM" or a RestLabel
	EndLabel   string // "HH:MM", empty on rest days
	Hours      decimal.Decimal
	Wage       decimal.Decimal
	HourlyWage decimal.Decimal // rate in force when the record was created
	CreatedAt  time.Time
}

// IsRest reports whether the record is a rest day.
func (r Record) IsRest() bool {
	_, ok := ParseRestLabel(r.StartLabel)
	return ok
}

// Label returns the rest marker of a rest day, or "" for work days.
func (r Record) Label() string {
	if r.IsRest() {
		return r.StartLabel
	}
	return ""
}

// TimeRange renders a work day as "09:00~18:00"; rest days render their label.
func (r Record) TimeRange() string {
	if r.IsRest() {
		return r.StartLabel
	}
	return r.StartLabel + "~" + r.EndLabel
}

// NewWorkRecord computes hours and wage for a start/end pair at the given rate.
func NewWorkRecord(date generic.TimePoint, start, end string, hourlyWage decimal.Decimal) (Record, error) {
	hours, err := ComputeHours(start, end)
	if err != nil {
		return Record{}, err
	}
	// ComputeHours validated both clocks already.
	s, _ := NormalizeClock(start)
	e, _ := NormalizeClock(end)
	return Record{
		Date:       date,
		StartLabel: s,
		EndLabel:   e,
		Hours:      hours,
		Wage:       ComputeWage(hours, hourlyWage),
		HourlyWage: hourlyWage,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// NewRestRecord builds a zero-hour, zero-wage record.
func NewRestRecord(date generic.TimePoint, label RestLabel, hourlyWage decimal.Decimal) Record {
	return Record{
		Date:       date,
		StartLabel: string(label),
		Hours:      decimal.Zero,
		Wage:       decimal.Zero,
		HourlyWage: hourlyWage,
		CreatedAt:  time.Now().UTC(),
	}
}

// =============================================================================
// SUMMARIES
// =============================================================================

// MonthSummary aggregates the records of one calendar month.
type MonthSummary struct {
	Month      generic.TimePoint // first day of the month
	TotalHours generic.Amount
	TotalWage  generic.Amount
	WorkDays   int
	RestDays   int
}

// Summarize folds records into a MonthSummary. Records outside month are ignored.
func Summarize(month generic.TimePoint, records []Record) MonthSummary {
	period := generic.MonthOf(month)
	s := MonthSummary{
		Month:      period.Start,
		TotalHours: generic.ZeroAmount(generic.UnitHours),
		TotalWage:  generic.ZeroAmount(generic.UnitCurrency),
	}
	for _, r := range records {
		if !period.Contains(r.Date) {
			continue
		}
		if r.IsRest() {
			s.RestDays++
			continue
		}
		s.WorkDays++
		s.TotalHours = s.TotalHours.Add(generic.Amount{Value: r.Hours, Unit: generic.UnitHours})
		s.TotalWage = s.TotalWage.Add(generic.Amount{Value: r.Wage, Unit: generic.UnitCurrency})
	}
	return s
}
