/*
Package pipeline drives one schedule photo from upload to calendar.

PURPOSE:
  Each upload becomes a Submission that moves through a small state
  machine: recognition, extraction, and application to the calendar. When
  the photographed week already has records the submission stops and waits
  for the user to append, overwrite or cancel.

STATE MACHINE:
  idle -> recognizing
  recognizing -> recognition_failed   (OCR error, no words, extraction failure)
  recognizing -> extracted            (week start and seven pairs found)
  extracted   -> applied              (week had no records)
  extracted   -> awaiting_choice      (week already has records)
  awaiting_choice -> append_applied | overwrite_applied | cancelled

  Nothing is written to the calendar before "extracted". A store failure
  while applying leaves the submission in "extracted" with Err set.

CONCURRENCY:
  Submit runs recognition on its own goroutine with a timeout detached from
  the caller's cancellation. Resolve on a submission is claimed under the
  pipeline lock so two choices cannot both apply.

SEE ALSO:
  - ocr: Recognizer contract
  - schedule: Window extraction
  - shift/calendar.go: ApplyWeek
*/
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/schedule"
	"github.com/warp/shift-calendar/shift"
)

// State is a submission's position in the state machine.
type State string

const (
	StateIdle              State = "idle"
	StateRecognizing       State = "recognizing"
	StateRecognitionFailed State = "recognition_failed"
	StateExtracted         State = "extracted"
	StateApplied           State = "applied"
	StateAwaitingChoice    State = "awaiting_choice"
	StateAppendApplied     State = "append_applied"
	StateOverwriteApplied  State = "overwrite_applied"
	StateCancelled         State = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	switch s {
	case StateRecognitionFailed, StateApplied, StateAppendApplied, StateOverwriteApplied, StateCancelled:
		return true
	}
	return false
}

// Choice resolves a week conflict.
type Choice string

const (
	ChoiceAppend    Choice = "append"
	ChoiceOverwrite Choice = "overwrite"
	ChoiceCancel    Choice = "cancel"
)

// ParseChoice accepts append, overwrite or cancel.
func ParseChoice(s string) (Choice, error) {
	switch c := Choice(strings.ToLower(strings.TrimSpace(s))); c {
	case ChoiceAppend, ChoiceOverwrite, ChoiceCancel:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown choice %q", generic.ErrInvalidTransition, s)
	}
}

// Submission is a snapshot of one upload's progress.
type Submission struct {
	ID        uuid.UUID
	State     State
	WeekStart generic.TimePoint // set from extracted on
	Pairs     []schedule.Pair
	Report    *shift.ApplyReport
	Err       error
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the extracted week.
func (s Submission) Window() schedule.Window {
	return schedule.Window{WeekStart: s.WeekStart, Pairs: s.Pairs}
}

func (s Submission) clone() Submission {
	out := s
	if s.Pairs != nil {
		out.Pairs = append([]schedule.Pair(nil), s.Pairs...)
	}
	return out
}

// Event carries a submission snapshot after every state change.
type Event struct {
	Submission Submission
}
