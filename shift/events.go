package shift

import (
	"github.com/warp/shift-calendar/generic"
)

// EventKind names a calendar change.
type EventKind string

const (
	EventRecordSaved  EventKind = "record_saved"
	EventDayRemoved   EventKind = "day_removed"
	EventWeekRemoved  EventKind = "week_removed"
	EventWageChanged  EventKind = "wage_changed"
	EventMonthChanged EventKind = "month_changed"
)

// Event is delivered to subscribers after a change is committed and the
// calendar lock released.
type Event struct {
	Kind   EventKind
	Date   generic.TimePoint // record date, week start, or month for month_changed
	Record *Record           // set for record_saved
}
