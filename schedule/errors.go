package schedule

import (
	"fmt"

	"github.com/warp/shift-calendar/generic"
)

// RecognitionError reports why a photo did not yield a complete week.
type RecognitionError struct {
	Weekdays       int
	Texts          int
	WeekStartFound bool
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("schedule not recognized: %d/%d weekdays, %d/%d shift texts, week start found: %t",
		e.Weekdays, generic.DaysPerWeek, e.Texts, generic.DaysPerWeek, e.WeekStartFound)
}

func (e *RecognitionError) Unwrap() error {
	return generic.ErrScheduleRecognitionFailed
}
