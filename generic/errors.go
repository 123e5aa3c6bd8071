/*
errors.go - Centralized error types for the shift calendar

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  Domain packages wrap these with structured errors that carry context
  and implement Unwrap, so callers can always test with errors.Is.

ERROR CATEGORIES:
  1. Recognition errors - OCR collaborator and schedule extraction failures
  2. Calculation errors - Malformed clock times
  3. Calendar errors - Week conflicts, bad wages
  4. Pipeline errors - Unknown submissions, invalid state transitions

USAGE:
  if errors.Is(err, generic.ErrWeekConflict) {
      // ask the user: append, overwrite or cancel
  }

SEE ALSO:
  - shift/errors.go: InvalidTimeError, WeekConflictError
  - schedule/extractor.go: RecognitionError
*/
package generic

import (
	"errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrOCRFailure is returned when the recognition collaborator errored or
	// produced no words. Surfaced to the user; never retried.
	ErrOCRFailure = errors.New("text recognition failed")

	// ErrScheduleRecognitionFailed is returned when extraction did not find
	// exactly 7 weekdays, 7 shift texts and a week start date.
	ErrScheduleRecognitionFailed = errors.New("schedule recognition failed")

	// ErrInvalidTimeFormat is returned when a clock time is not HH:MM with
	// hour 0-23 and minute 0-59. Isolated to the affected day.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrWeekConflict is returned when a week already holds records. It is a
	// decision point for the user, not a failure.
	ErrWeekConflict = errors.New("week already has records")

	// ErrNegativeWage is returned when an hourly wage below zero is configured.
	ErrNegativeWage = errors.New("hourly wage must not be negative")

	// ErrUnsupportedImage is returned when image bytes are not PNG, JPEG or WebP.
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrSubmissionNotFound is returned for unknown pipeline submission IDs.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrInvalidTransition is returned when a submission is resolved outside
	// the awaiting-choice state.
	ErrInvalidTransition = errors.New("invalid submission state transition")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRecognitionFailure returns true for both failure kinds that end a
// submission with a user-visible alert.
func IsRecognitionFailure(err error) bool {
	return errors.Is(err, ErrOCRFailure) || errors.Is(err, ErrScheduleRecognitionFailed)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTimeFormat) ||
		errors.Is(err, ErrNegativeWage) ||
		errors.Is(err, ErrUnsupportedImage)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSubmissionNotFound)
}
