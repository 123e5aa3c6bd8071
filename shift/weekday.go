package shift

import (
	"strings"

	"github.com/warp/shift-calendar/generic"
)

// Weekday is the closed set of schedule days, Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays lists every weekday in ISO order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = [...]string{"월요일", "화요일", "수요일", "목요일", "금요일", "토요일", "일요일"}

var weekdayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Valid reports whether w is one of the seven weekdays.
func (w Weekday) Valid() bool { return w >= Monday && w <= Sunday }

// Offset is the number of days after the week's Monday.
func (w Weekday) Offset() int { return int(w) }

// Label is the Korean schedule label, e.g. "월요일".
func (w Weekday) Label() string {
	if !w.Valid() {
		return ""
	}
	return weekdayLabels[w]
}

func (w Weekday) String() string {
	if !w.Valid() {
		return "invalid"
	}
	return weekdayNames[w]
}

// DateIn maps the weekday to an absolute date of the week starting at weekStart.
func (w Weekday) DateIn(weekStart generic.TimePoint) generic.TimePoint {
	return weekStart.AddDays(w.Offset())
}

// ParseWeekday accepts the Korean label ("월요일") or the English name.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.TrimSpace(s)
	for _, w := range Weekdays {
		if s == w.Label() || strings.EqualFold(s, w.String()) {
			return w, true
		}
	}
	return 0, false
}

// FindWeekday returns the first weekday, in Monday..Sunday order, whose
// label occurs in text.
func FindWeekday(text string) (Weekday, bool) {
	for _, w := range Weekdays {
		if strings.Contains(text, w.Label()) {
			return w, true
		}
	}
	return 0, false
}
