package generic

// =============================================================================
// PERIOD - Inclusive date window used for weeks and months
// =============================================================================

// DaysPerWeek is the fixed size of a schedule week.
const DaysPerWeek = 7

// Period defines an inclusive date window [Start, End].
//
// Examples:
//   - Schedule week: Monday 2025-06-16 .. Sunday 2025-06-22
//   - Calendar month: 2025-06-01 .. 2025-06-30
type Period struct {
	Start TimePoint
	End   TimePoint
}

// WeekFrom returns the 7-day window starting at start. start is used as the
// week's first day as-is; callers decide whether it must be a Monday.
func WeekFrom(start TimePoint) Period {
	return Period{Start: start, End: start.AddDays(DaysPerWeek - 1)}
}

// MonthOf returns the calendar month containing tp.
func MonthOf(tp TimePoint) Period {
	return Period{
		Start: StartOfMonth(tp.Year(), tp.Month()),
		End:   EndOfMonth(tp.Year(), tp.Month()),
	}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
