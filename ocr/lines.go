package ocr

import (
	"math"
	"sort"
	"strings"

	"github.com/warp/shift-calendar/shift"
)

// DefaultLineThreshold is the vertical distance under which two words are
// considered part of the same line.
const DefaultLineThreshold = 0.02

// =============================================================================
// LINE - Words sharing a baseline
// =============================================================================

// Line holds words in the order they were assigned. The first word anchors
// the line's vertical position.
type Line struct {
	Words []Word
}

// Y returns the anchor position of the line.
func (l Line) Y() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	return l.Words[0].Y
}

// Text joins the words left to right with single spaces.
func (l Line) Text() string {
	words := make([]Word, len(l.Words))
	copy(words, l.Words)
	sort.SliceStable(words, func(i, j int) bool { return words[i].X < words[j].X })

	parts := make([]string, 0, len(words))
	for _, w := range words {
		if t := strings.TrimSpace(w.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// RECONSTRUCTION
// =============================================================================

// GroupIntoLines orders words top to bottom and greedily clusters them.
// A word joins the first line whose anchor is strictly closer than
// threshold, otherwise it starts a new line. Lines come back top to bottom.
//
// This is an approximation: a word equidistant from two lines goes to the
// earlier one and slanted rows may split.
func GroupIntoLines(words []Word, threshold float64) []Line {
	if threshold <= 0 {
		threshold = DefaultLineThreshold
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var lines []Line
	for _, w := range sorted {
		placed := false
		for i := range lines {
			if math.Abs(lines[i].Y()-w.Y) < threshold {
				lines[i].Words = append(lines[i].Words, w)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, Line{Words: []Word{w}})
		}
	}
	return lines
}

// LineTexts renders each line's text.
func LineTexts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text())
	}
	return out
}

// FilterScheduleLines keeps lines that mention a weekday, a time range
// separator or a rest marker.
func FilterScheduleLines(lines []string) []string {
	var out []string
	for _, text := range lines {
		if IsScheduleLine(text) {
			out = append(out, text)
		}
	}
	return out
}

// IsScheduleLine reports whether text could belong to the schedule body.
func IsScheduleLine(text string) bool {
	if strings.Contains(text, "~") {
		return true
	}
	if _, ok := shift.FindWeekday(text); ok {
		return true
	}
	_, ok := shift.FindRestLabel(text)
	return ok
}

// FullText joins word texts with newlines in recognition order.
func FullText(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, "\n")
}
