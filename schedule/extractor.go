package schedule

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/ocr"
	"github.com/warp/shift-calendar/shift"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	weekRangePattern = regexp.MustCompile(
		`(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})\s*~\s*(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})`)

	timeRangePattern = regexp.MustCompile(`\d{1,2}:\d{2}\s*~\s*\d{1,2}:\d{2}`)

	// Go's \b only understands ASCII word characters, so the boundaries
	// around the Korean markers are spelled out.
	restMarkerPattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(OFF|오프|주휴)(?:$|[^\p{L}\p{N}])`)
)

// ExtractWeekStart returns the first date of the first well-formed
// "YYYY.MM.DD ~ YYYY.MM.DD" range in text. Separators may be '.', '-' or
// '/'. Ranges whose start is not a real calendar date are skipped.
func ExtractWeekStart(text string) (generic.TimePoint, bool) {
	for _, m := range weekRangePattern.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if !generic.ValidDate(year, time.Month(month), day) {
			continue
		}
		return generic.NewTimePoint(year, time.Month(month), day), true
	}
	return generic.TimePoint{}, false
}

// ExtractShiftText returns the time range on a line, or failing that the
// rest marker.
func ExtractShiftText(line string) (string, bool) {
	if m := timeRangePattern.FindString(line); m != "" {
		return m, true
	}
	if m := restMarkerPattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// Pairing selects how weekdays are matched with shift texts.
type Pairing string

const (
	PairPositional Pairing = "positional"
	PairProximity  Pairing = "proximity"
)

// ParsePairing validates a configured pairing name.
func ParsePairing(s string) (Pairing, error) {
	switch p := Pairing(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PairPositional:
		return PairPositional, nil
	case PairProximity:
		return p, nil
	default:
		return "", fmt.Errorf("unknown pairing %q", s)
	}
}

// Extractor assembles a Window from recognized words.
type Extractor struct {
	threshold float64
	pairing   Pairing
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLineThreshold sets the vertical grouping threshold.
func WithLineThreshold(t float64) Option {
	return func(e *Extractor) { e.threshold = t }
}

// WithPairing selects the pairing strategy.
func WithPairing(p Pairing) Option {
	return func(e *Extractor) { e.pairing = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		threshold: ocr.DefaultLineThreshold,
		pairing:   PairPositional,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Pairing returns the configured strategy.
func (e *Extractor) Pairing() Pairing { return e.pairing }

// Extract groups words into lines and extracts the week.
func (e *Extractor) Extract(words []ocr.Word) (Window, error) {
	lines := ocr.LineTexts(ocr.GroupIntoLines(words, e.threshold))
	return e.extract(ocr.FullText(words), lines)
}

// ExtractLines extracts the week from text that is already split into lines.
func (e *Extractor) ExtractLines(lines []string) (Window, error) {
	return e.extract(strings.Join(lines, "\n"), lines)
}

func (e *Extractor) extract(fullText string, lines []string) (Window, error) {
	weekStart, found := ExtractWeekStart(fullText)
	lines = ocr.FilterScheduleLines(lines)

	var (
		pairs    []Pair
		weekdays int
		texts    int
	)
	switch e.pairing {
	case PairProximity:
		pairs, weekdays, texts = pairByProximity(lines)
	default:
		pairs, weekdays, texts = pairByPosition(lines)
	}

	if !found || len(pairs) != generic.DaysPerWeek {
		err := &RecognitionError{Weekdays: weekdays, Texts: texts, WeekStartFound: found}
		e.logger.Info("schedule extraction failed",
			"pairing", e.pairing,
			"weekdays", weekdays,
			"texts", texts,
			"week_start_found", found,
			"lines", len(lines))
		return Window{}, err
	}

	if !weekStart.IsMonday() {
		e.logger.Info("week start is not a Monday, using it as the week anchor",
			"week_start", weekStart.String(), "weekday", weekStart.Weekday().String(),
			"monday", generic.MondayOf(weekStart).String())
	}
	e.logger.Debug("schedule extracted", "week_start", weekStart.String(), "pairing", e.pairing)

	return Window{WeekStart: weekStart, Pairs: pairs}, nil
}

// pairByPosition collects distinct weekdays and up to seven shift texts
// independently and zips them in order.
func pairByPosition(lines []string) ([]Pair, int, int) {
	var weekdays []shift.Weekday
	var texts []string
	seen := make(map[shift.Weekday]bool)

	for _, line := range lines {
		if wd, ok := shift.FindWeekday(line); ok && !seen[wd] {
			seen[wd] = true
			weekdays = append(weekdays, wd)
		}
		if text, ok := ExtractShiftText(line); ok {
			texts = append(texts, text)
		}
	}
	if len(texts) > generic.DaysPerWeek {
		texts = texts[:generic.DaysPerWeek]
	}

	if len(weekdays) != generic.DaysPerWeek || len(texts) != generic.DaysPerWeek {
		return nil, len(weekdays), len(texts)
	}
	pairs := make([]Pair, generic.DaysPerWeek)
	for i := range pairs {
		pairs[i] = Pair{Weekday: weekdays[i], Text: texts[i]}
	}
	return pairs, len(weekdays), len(texts)
}

// pairByProximity binds each shift text to the weekday on its own line,
// else to the earliest preceding weekday without a text.
func pairByProximity(lines []string) ([]Pair, int, int) {
	type slot struct {
		weekday shift.Weekday
		text    string
		bound   bool
	}
	var slots []*slot
	byDay := make(map[shift.Weekday]*slot)
	bound := 0

	for _, line := range lines {
		wd, hasDay := shift.FindWeekday(line)
		if hasDay && byDay[wd] == nil {
			s := &slot{weekday: wd}
			slots = append(slots, s)
			byDay[wd] = s
		}

		text, ok := ExtractShiftText(line)
		if !ok || bound == generic.DaysPerWeek {
			continue
		}

		var target *slot
		if hasDay && !byDay[wd].bound {
			target = byDay[wd]
		} else {
			for _, s := range slots {
				if !s.bound {
					target = s
					break
				}
			}
		}
		if target == nil {
			continue
		}
		target.text = text
		target.bound = true
		bound++
	}

	if len(slots) != generic.DaysPerWeek || bound != generic.DaysPerWeek {
		return nil, len(slots), bound
	}
	pairs := make([]Pair, 0, generic.DaysPerWeek)
	for _, s := range slots {
		pairs = append(pairs, Pair{Weekday: s.weekday, Text: s.text})
	}
	return pairs, len(slots), bound
}
