package schedule_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/ocr"
	"github.com/warp/shift-calendar/schedule"
	"github.com/warp/shift-calendar/shift"
	"github.com/warp/shift-calendar/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func alternatingLines() []string {
	return []string{
		"2025-06-16 ~ 2025-06-22",
		"월요일", "09:00 ~ 18:00",
		"화요일", "OFF",
		"수요일", "10:00~19:00",
		"목요일", "22:00~07:00",
		"금요일", "주휴",
		"토요일", "9:00~13:00",
		"일요일", "오프",
	}
}

// wordsFromLines lays lines out top to bottom, one word per line.
func wordsFromLines(lines []string) []ocr.Word {
	words := make([]ocr.Word, len(lines))
	for i, l := range lines {
		words[i] = ocr.Word{Text: l, X: 0.5, Y: 0.95 - float64(i)*0.05}
	}
	return words
}

// =============================================================================
// WEEK START TESTS
// =============================================================================

func TestExtractWeekStart_Separators(t *testing.T) {
	cases := map[string]string{
		"근무기간 2025.06.16 ~ 2025.06.22": "2025-06-16",
		"2025-06-16~2025-06-22":         "2025-06-16",
		"2025/6/2 ~ 2025/6/8":           "2025-06-02",
		"2025.06.16\n~\n2025.06.22":     "2025-06-16",
	}
	for input, want := range cases {
		got, ok := schedule.ExtractWeekStart(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got.String(), input)
	}
}

func TestExtractWeekStart_FirstMatchWins(t *testing.T) {
	got, ok := schedule.ExtractWeekStart("2025.06.16 ~ 2025.06.22\n2025.06.23 ~ 2025.06.29")
	require.True(t, ok)
	assert.Equal(t, "2025-06-16", got.String())
}

func TestExtractWeekStart_RejectsImpossibleDates(t *testing.T) {
	_, ok := schedule.ExtractWeekStart("2025.13.40 ~ 2025.13.46")
	assert.False(t, ok)

	_, ok = schedule.ExtractWeekStart("2025.06.16")
	assert.False(t, ok, "a single date is not a range")

	got, ok := schedule.ExtractWeekStart("2025.02.30 ~ 2025.03.05 then 2025.03.03 ~ 2025.03.09")
	require.True(t, ok)
	assert.Equal(t, "2025-03-03", got.String())
}

// =============================================================================
// SHIFT TEXT TESTS
// =============================================================================

func TestExtractShiftText(t *testing.T) {
	cases := []struct {
		line string
		want string
		ok   bool
	}{
		{"월요일 09:00 ~ 18:00", "09:00 ~ 18:00", true},
		{"9:00~13:00 OFF", "9:00~13:00", true},
		{"화요일 OFF", "OFF", true},
		{"오프", "오프", true},
		{"(주휴)", "주휴", true},
		{"OFFICE", "", false},
		{"주휴수당", "", false},
		{"월요일", "", false},
		{"2025.06.16 ~ 2025.06.22", "", false},
	}
	for _, tc := range cases {
		got, ok := schedule.ExtractShiftText(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}
}

// =============================================================================
// EXTRACTION TESTS
// =============================================================================

func TestExtractor_ExtractLines_PositionalPairs(t *testing.T) {
	ex := schedule.NewExtractor()

	w, err := ex.ExtractLines(alternatingLines())
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16", w.WeekStart.String())
	require.Len(t, w.Pairs, 7)
	assert.Equal(t, schedule.Pair{Weekday: shift.Monday, Text: "09:00 ~ 18:00"}, w.Pairs[0])
	assert.Equal(t, schedule.Pair{Weekday: shift.Tuesday, Text: "OFF"}, w.Pairs[1])
	assert.Equal(t, schedule.Pair{Weekday: shift.Sunday, Text: "오프"}, w.Pairs[6])
	assert.Equal(t, "금요일 주휴", w.Pairs[4].Line())
}

func TestExtractor_NonMondayWeekStart_KeptAndLogged(t *testing.T) {
	// GIVEN: A schedule whose range starts on a Wednesday
	// WHEN: Extracting it
	// THEN: The Wednesday anchors the window and the log names that week's Monday

	lines := alternatingLines()
	lines[0] = "2025-06-18 ~ 2025-06-24"

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	w, err := schedule.NewExtractor(schedule.WithLogger(logger)).ExtractLines(lines)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-18", w.WeekStart.String())
	assert.Contains(t, buf.String(), `"monday":"2025-06-16"`)
	assert.Contains(t, buf.String(), `"weekday":"Wednesday"`)
}

func TestExtractor_Extract_FromWords(t *testing.T) {
	// GIVEN: Words laid out one per row, top to bottom, shuffled
	// WHEN: Extracting through line reconstruction
	// THEN: The same window as reading the lines directly

	words := wordsFromLines(alternatingLines())
	words[0], words[5] = words[5], words[0]

	w, err := schedule.NewExtractor().Extract(words)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16", w.WeekStart.String())
	assert.Equal(t, "22:00~07:00", w.Pairs[3].Text)
}

func TestExtractor_SixWeekdays_FailsUniformly(t *testing.T) {
	// GIVEN: Lines with 6 distinct weekdays and 7 shift texts
	// WHEN: Extracting
	// THEN: RecognitionError, no window

	lines := alternatingLines()
	lines[13] = "휴무" // drop 일요일

	w, err := schedule.NewExtractor().ExtractLines(lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrScheduleRecognitionFailed)
	assert.Empty(t, w.Pairs)

	var rerr *schedule.RecognitionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 6, rerr.Weekdays)
	assert.Equal(t, 7, rerr.Texts)
	assert.True(t, rerr.WeekStartFound)
}

func TestExtractor_MissingWeekStart_Fails(t *testing.T) {
	lines := alternatingLines()[1:]

	_, err := schedule.NewExtractor().ExtractLines(lines)
	var rerr *schedule.RecognitionError
	require.ErrorAs(t, err, &rerr)
	assert.False(t, rerr.WeekStartFound)
	assert.Equal(t, 7, rerr.Weekdays)
}

func TestExtractor_ExtraTextsAreTruncated(t *testing.T) {
	lines := append(alternatingLines(), "추가 12:00~15:00")

	w, err := schedule.NewExtractor().ExtractLines(lines)
	require.NoError(t, err)
	assert.Equal(t, "오프", w.Pairs[6].Text)
}

func TestExtractor_DuplicateWeekdaysCountOnce(t *testing.T) {
	lines := alternatingLines()
	lines = append(lines[:3], append([]string{"월요일 메모"}, lines[3:]...)...)

	w, err := schedule.NewExtractor().ExtractLines(lines)
	require.NoError(t, err)
	assert.Len(t, w.Pairs, 7)
}

// =============================================================================
// PAIRING TESTS
// =============================================================================

func TestExtractor_HeaderTime_PositionalShiftsPairs(t *testing.T) {
	// GIVEN: Store hours printed above the weekday rows
	// WHEN: Pairing positionally
	// THEN: Every text slides one weekday down (documented fragility)

	lines := append([]string{"2025-06-16 ~ 2025-06-22", "영업시간 07:00~23:00"}, alternatingLines()[1:]...)

	w, err := schedule.NewExtractor().ExtractLines(lines)
	require.NoError(t, err)
	assert.Equal(t, "07:00~23:00", w.Pairs[0].Text)
	assert.Equal(t, "09:00 ~ 18:00", w.Pairs[1].Text)
}

func TestExtractor_HeaderTime_ProximityIgnoresIt(t *testing.T) {
	lines := append([]string{"2025-06-16 ~ 2025-06-22", "영업시간 07:00~23:00"}, alternatingLines()[1:]...)

	ex := schedule.NewExtractor(schedule.WithPairing(schedule.PairProximity))
	w, err := ex.ExtractLines(lines)
	require.NoError(t, err)
	assert.Equal(t, schedule.Pair{Weekday: shift.Monday, Text: "09:00 ~ 18:00"}, w.Pairs[0])
	assert.Equal(t, schedule.Pair{Weekday: shift.Sunday, Text: "오프"}, w.Pairs[6])
}

func TestExtractor_Proximity_SameLineAndColumns(t *testing.T) {
	sameLine := []string{
		"2025.06.16 ~ 2025.06.22",
		"월요일 09:00~18:00", "화요일 OFF", "수요일 10:00~19:00", "목요일 주휴",
		"금요일 09:00~18:00", "토요일 오프", "일요일 OFF",
	}
	columns := []string{
		"2025.06.16 ~ 2025.06.22",
		"월요일", "화요일", "수요일", "목요일", "금요일", "토요일", "일요일",
		"09:00~18:00", "OFF", "10:00~19:00", "주휴", "09:00~18:00", "오프", "OFF",
	}

	ex := schedule.NewExtractor(schedule.WithPairing(schedule.PairProximity))
	for _, lines := range [][]string{sameLine, columns} {
		w, err := ex.ExtractLines(lines)
		require.NoError(t, err)
		assert.Equal(t, "OFF", w.Pairs[1].Text)
		assert.Equal(t, "주휴", w.Pairs[3].Text)
		assert.Equal(t, shift.Thursday, w.Pairs[3].Weekday)
	}
}

func TestParsePairing(t *testing.T) {
	p, err := schedule.ParsePairing("")
	require.NoError(t, err)
	assert.Equal(t, schedule.PairPositional, p)

	p, err = schedule.ParsePairing("Proximity")
	require.NoError(t, err)
	assert.Equal(t, schedule.PairProximity, p)

	_, err = schedule.ParsePairing("nearest")
	assert.Error(t, err)
}

// =============================================================================
// END-TO-END
// =============================================================================

func TestWindow_AppliedToCalendar(t *testing.T) {
	// GIVEN: The alternating schedule and an hourly wage of 10000
	// WHEN: Applying the extracted window
	// THEN: Monday is 8h / 80000, Tuesday is an OFF day with zeros

	ctx := context.Background()
	cal := shift.NewCalendar(memory.NewTxMemory(), shift.WithHourlyWage(decimal.NewFromInt(10000)))

	w, err := schedule.NewExtractor().ExtractLines(alternatingLines())
	require.NoError(t, err)

	report, err := cal.ApplyWeek(ctx, w.WeekStart, w.Entries(), shift.ApplyIfAbsent)
	require.NoError(t, err)
	assert.Len(t, report.Applied, 7)
	assert.Empty(t, report.Skipped)

	mon, err := cal.Record(ctx, generic.NewTimePoint(2025, time.June, 16))
	require.NoError(t, err)
	require.NotNil(t, mon)
	assert.True(t, mon.Hours.Equal(decimal.NewFromInt(8)), "hours = %s", mon.Hours)
	assert.True(t, mon.Wage.Equal(decimal.NewFromInt(80000)), "wage = %s", mon.Wage)

	tue, err := cal.Record(ctx, generic.NewTimePoint(2025, time.June, 17))
	require.NoError(t, err)
	require.NotNil(t, tue)
	assert.Equal(t, "OFF", tue.StartLabel)
	assert.True(t, tue.Hours.IsZero())
	assert.True(t, tue.Wage.IsZero())
}
