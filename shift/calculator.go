package shift

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME & WAGE CALCULATOR
// =============================================================================
//
// Break policy: a shift of 9 gross hours or more loses 1.0 unpaid hour,
// anything shorter loses 0.5. The boundary is inclusive (exactly 9.0h
// deducts a full hour). End times earlier than the start cross midnight.

const minutesPerDay = 24 * 60

var (
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

	sixty          = decimal.NewFromInt(60)
	longShiftHours = decimal.NewFromInt(9)
	longBreak      = decimal.NewFromInt(1)
	shortBreak     = decimal.RequireFromString("0.5")
)

// ParseClock converts "H:MM" or "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &InvalidTimeError{Value: s}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, &InvalidTimeError{Value: s}
	}
	return hour*60 + minute, nil
}

// NormalizeClock zero-pads a valid clock time: "9:00" -> "09:00".
func NormalizeClock(s string) (string, error) {
	mins, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60), nil
}

// BreakFor returns the unpaid break deducted from a shift of total gross hours.
func BreakFor(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThanOrEqual(longShiftHours) {
		return longBreak
	}
	return shortBreak
}

// GrossHours is end minus start in hours, wrapping past midnight when end < start.
func GrossHours(start, end string) (decimal.Decimal, error) {
	s, err := ParseClock(start)
	if err != nil {
		return decimal.Zero, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return decimal.Zero, err
	}
	if e < s {
		e += minutesPerDay
	}
	return decimal.NewFromInt(int64(e - s)).Div(sixty), nil
}

// ComputeHours returns paid hours for a shift: gross hours minus the break,
// never below zero. Invalid input yields zero and an *InvalidTimeError.
func ComputeHours(start, end string) (decimal.Decimal, error) {
	total, err := GrossHours(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Max(decimal.Zero, total.Sub(BreakFor(total))), nil
}

// ComputeWage multiplies paid hours by the hourly rate. No rounding.
func ComputeWage(hours, hourlyWage decimal.Decimal) decimal.Decimal {
	return hours.Mul(hourlyWage)
}

// SplitTimeRange splits "09:00 ~ 18:00" into trimmed halves. ok is false
// unless the text holds exactly one '~'.
func SplitTimeRange(text string) (start, end string, ok bool) {
	parts := strings.Split(text, "~")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
