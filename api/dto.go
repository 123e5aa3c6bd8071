/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calendar and pipeline types from the external contract: dates render
  as "2006-01-02", months as "2006-01", and decimal hours and wages as
  strings so no precision is lost in transit.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator tags. Handlers call
  h.validate.Struct before touching the calendar.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/pipeline"
	"github.com/warp/shift-calendar/shift"
)

// =============================================================================
// RECORDS
// =============================================================================

// RecordDTO represents one day's shift record.
type RecordDTO struct {
	Date       string          `json:"date"`
	Weekday    string          `json:"weekday"`
	Rest       bool            `json:"rest"`
	StartLabel string          `json:"start_label"`
	EndLabel   string          `json:"end_label,omitempty"`
	TimeRange  string          `json:"time_range"`
	Hours      decimal.Decimal `json:"hours"`
	Wage       decimal.Decimal `json:"wage"`
	HourlyWage decimal.Decimal `json:"hourly_wage"`
	CreatedAt  string          `json:"created_at"`
}

func toRecordDTO(r shift.Record) RecordDTO {
	return RecordDTO{
		Date:       r.Date.String(),
		Weekday:    r.Date.Weekday().String(),
		Rest:       r.IsRest(),
		StartLabel: r.StartLabel,
		EndLabel:   r.EndLabel,
		TimeRange:  r.TimeRange(),
		Hours:      r.Hours,
		Wage:       r.Wage,
		HourlyWage: r.HourlyWage,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

func toRecordDTOs(records []shift.Record) []RecordDTO {
	out := make([]RecordDTO, len(records))
	for i, r := range records {
		out[i] = toRecordDTO(r)
	}
	return out
}

// SetDayRequest edits a single day: either a work interval or a rest label.
type SetDayRequest struct {
	Start string `json:"start" validate:"required_without=Label"`
	End   string `json:"end" validate:"required_with=Start"`
	Label string `json:"label" validate:"omitempty,oneof=OFF 오프 주휴"`
}

// =============================================================================
// WEEKS AND MONTHS
// =============================================================================

// WeekDayDTO is one slot of a week view.
type WeekDayDTO struct {
	Date    string     `json:"date"`
	Weekday string     `json:"weekday"`
	Label   string     `json:"label"`
	Record  *RecordDTO `json:"record"`
}

// WeekDTO is the seven days starting at WeekStart.
type WeekDTO struct {
	WeekStart string       `json:"week_start"`
	Contains  bool         `json:"contains"`
	Days      []WeekDayDTO `json:"days"`
}

// SummaryDTO aggregates one month.
type SummaryDTO struct {
	Month      string          `json:"month"`
	TotalHours decimal.Decimal `json:"total_hours"`
	TotalWage  decimal.Decimal `json:"total_wage"`
	WorkDays   int             `json:"work_days"`
	RestDays   int             `json:"rest_days"`
}

func toSummaryDTO(s shift.MonthSummary) SummaryDTO {
	return SummaryDTO{
		Month:      s.Month.MonthString(),
		TotalHours: s.TotalHours.Value,
		TotalWage:  s.TotalWage.Value,
		WorkDays:   s.WorkDays,
		RestDays:   s.RestDays,
	}
}

// MonthDTO lists a month's records with its totals.
type MonthDTO struct {
	Month   string      `json:"month"`
	Records []RecordDTO `json:"records"`
	Summary SummaryDTO  `json:"summary"`
}

// =============================================================================
// CALENDAR STATE
// =============================================================================

// CalendarDTO is the navigation state plus the current month's totals.
type CalendarDTO struct {
	CurrentMonth string          `json:"current_month"`
	HourlyWage   decimal.Decimal `json:"hourly_wage"`
	Summary      SummaryDTO      `json:"summary"`
}

// ChangeMonthRequest moves the month cursor by Offset or jumps to Month.
type ChangeMonthRequest struct {
	Offset *int   `json:"offset" validate:"required_without=Month"`
	Month  string `json:"month" validate:"omitempty,datetime=2006-01"`
}

// SetWageRequest changes the hourly wage for future records.
type SetWageRequest struct {
	HourlyWage decimal.Decimal `json:"hourly_wage"`
}

// =============================================================================
// UPLOADS
// =============================================================================

// PairDTO is one extracted weekday with its shift text.
type PairDTO struct {
	Weekday string `json:"weekday"`
	Label   string `json:"label"`
	Text    string `json:"text"`
}

// SkippedDTO is a day that could not be applied.
type SkippedDTO struct {
	Date  string `json:"date"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

// ReportDTO summarizes what applying a week changed.
type ReportDTO struct {
	Mode    string       `json:"mode"`
	Removed int          `json:"removed"`
	Applied []RecordDTO  `json:"applied"`
	Skipped []SkippedDTO `json:"skipped"`
}

// SubmissionDTO represents an upload's progress.
type SubmissionDTO struct {
	ID        string     `json:"id"`
	State     string     `json:"state"`
	WeekStart string     `json:"week_start,omitempty"`
	Pairs     []PairDTO  `json:"pairs,omitempty"`
	Report    *ReportDTO `json:"report,omitempty"`
	Error     string     `json:"error,omitempty"`
	ErrorKind string     `json:"error_kind,omitempty"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

func toSubmissionDTO(s pipeline.Submission) SubmissionDTO {
	dto := SubmissionDTO{
		ID:        s.ID.String(),
		State:     string(s.State),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
	if !s.WeekStart.IsZero() {
		dto.WeekStart = s.WeekStart.String()
	}
	for _, p := range s.Pairs {
		dto.Pairs = append(dto.Pairs, PairDTO{Weekday: p.Weekday.String(), Label: p.Weekday.Label(), Text: p.Text})
	}
	if s.Report != nil {
		report := toReportDTO(*s.Report)
		dto.Report = &report
	}
	if s.Err != nil {
		dto.Error = s.Err.Error()
		dto.ErrorKind = errorKind(s.Err)
	}
	return dto
}

// Error kinds let clients branch on a failure without matching message text.
const (
	ErrorKindOCR         = "ocr_failure"
	ErrorKindRecognition = "schedule_recognition_failed"
	ErrorKindApply       = "apply_failed"
)

func errorKind(err error) string {
	switch {
	case !generic.IsRecognitionFailure(err):
		return ErrorKindApply
	case errors.Is(err, generic.ErrOCRFailure):
		return ErrorKindOCR
	default:
		return ErrorKindRecognition
	}
}

func toReportDTO(r shift.ApplyReport) ReportDTO {
	report := ReportDTO{
		Mode:    string(r.Mode),
		Removed: r.Removed,
		Applied: toRecordDTOs(r.Applied),
		Skipped: []SkippedDTO{},
	}
	for _, sk := range r.Skipped {
		report.Skipped = append(report.Skipped, SkippedDTO{Date: sk.Date.String(), Text: sk.Text, Error: sk.Err.Error()})
	}
	return report
}

// ResolveRequest answers a week conflict.
type ResolveRequest struct {
	Choice string `json:"choice" validate:"required,oneof=append overwrite cancel"`
}

// =============================================================================
// EVENTS AND ERRORS
// =============================================================================

// CalendarEventDTO is streamed when the calendar changes.
type CalendarEventDTO struct {
	Kind   string     `json:"kind"`
	Date   string     `json:"date,omitempty"`
	Record *RecordDTO `json:"record,omitempty"`
}

func toCalendarEventDTO(e shift.Event) CalendarEventDTO {
	dto := CalendarEventDTO{Kind: string(e.Kind)}
	if !e.Date.IsZero() {
		dto.Date = e.Date.String()
	}
	if e.Record != nil {
		rec := toRecordDTO(*e.Record)
		dto.Record = &rec
	}
	return dto
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func weekDays(weekStart generic.TimePoint, records []shift.Record) []WeekDayDTO {
	byDate := make(map[string]shift.Record, len(records))
	for _, r := range records {
		byDate[r.Date.String()] = r
	}
	days := make([]WeekDayDTO, 0, generic.DaysPerWeek)
	for _, wd := range shift.Weekdays {
		date := wd.DateIn(weekStart)
		day := WeekDayDTO{Date: date.String(), Weekday: wd.String(), Label: wd.Label()}
		if r, ok := byDate[date.String()]; ok {
			dto := toRecordDTO(r)
			day.Record = &dto
		}
		days = append(days, day)
	}
	return days
}
