package shift

import (
	"fmt"

	"github.com/warp/shift-calendar/generic"
)

// InvalidTimeError reports a clock string that is not HH:MM.
type InvalidTimeError struct {
	Value string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid time %q: want HH:MM with hour 0-23 and minute 0-59", e.Value)
}

func (e *InvalidTimeError) Unwrap() error {
	return generic.ErrInvalidTimeFormat
}

// WeekConflictError reports that a week already holds records.
type WeekConflictError struct {
	WeekStart generic.TimePoint
}

func (e *WeekConflictError) Error() string {
	return fmt.Sprintf("week starting %s already has records", e.WeekStart)
}

func (e *WeekConflictError) Unwrap() error {
	return generic.ErrWeekConflict
}
