/*
Package generic provides the domain-agnostic primitives of the shift calendar.

PURPOSE:
  This package contains the small value types every other package builds
  on: day-granular dates, inclusive periods (weeks and months), decimal
  quantities with units, and the centralized error catalogue. It knows
  nothing about OCR, weekday labels or shift notation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 8 hours, 80000 KRW)
  - Unit: hours or currency

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift in sums
  2. No rounding: currency rounding is a presentation concern
  3. Type Safety: Units prevent adding hours to money by accident

USAGE:
  total := generic.ZeroAmount(generic.UnitHours)
  total = total.Add(generic.Amount{Value: rec.Hours, Unit: generic.UnitHours})

SEE ALSO:
  - time.go: TimePoint
  - period.go: Week and month windows
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours    Unit = "hours"
	UnitCurrency Unit = "currency"
)

// ZeroAmount returns a zero quantity of the given unit.
func ZeroAmount(unit Unit) Amount {
	return Amount{Value: decimal.Zero, Unit: unit}
}

// Add sums two quantities; the unit of a is kept.
func (a Amount) Add(b Amount) Amount { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
