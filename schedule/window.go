/*
Package schedule extracts a week of shifts from reconstructed OCR lines.

PURPOSE:
  Given the words of one schedule photo, find the date range that anchors
  the week and seven (weekday, shift text) pairs. Extraction is
  all-or-nothing: either a complete Window comes back or a
  RecognitionError describing what was missing.

KEY CONCEPTS:
  - Window: Week start plus exactly seven pairs
  - Pair: A weekday and the raw shift text found for it
  - Pairing: How weekdays and shift texts are matched

PAIRING:
  PairPositional zips the i-th distinct weekday with the i-th shift text in
  reading order. It assumes the photo alternates weekday and time lines
  (or lists all weekdays then all times) with no stray times in between.

  PairProximity binds a shift text to the weekday on the same line, or to
  the earliest preceding weekday still waiting for one. Times that appear
  before any weekday (store hours in a header) are ignored.

SEE ALSO:
  - extractor.go: Pattern matching and assembly
  - ocr/lines.go: Line reconstruction
  - shift/calendar.go: ApplyWeek consumes Window.Entries()
*/
package schedule

import (
	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/shift"
)

// Pair is one weekday with its recognized shift text.
type Pair struct {
	Weekday shift.Weekday
	Text    string
}

// Line renders the pair as "월요일 09:00~18:00".
func (p Pair) Line() string {
	return p.Weekday.Label() + " " + p.Text
}

// Window is a successfully extracted week.
type Window struct {
	WeekStart generic.TimePoint
	Pairs     []Pair
}

// Entries converts the pairs for Calendar.ApplyWeek.
func (w Window) Entries() []shift.DayEntry {
	out := make([]shift.DayEntry, len(w.Pairs))
	for i, p := range w.Pairs {
		out[i] = shift.DayEntry{Weekday: p.Weekday, Text: p.Text}
	}
	return out
}

// Lines renders every pair.
func (w Window) Lines() []string {
	out := make([]string, len(w.Pairs))
	for i, p := range w.Pairs {
		out[i] = p.Line()
	}
	return out
}
