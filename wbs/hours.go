/*
Package wbs provides the core value objects of the work-hour allocation engine.

PURPOSE:
  This package contains the immutable domain values everything else computes
  over: calendar dates and month keys, man-hour quantities, task periods,
  company holidays, personal schedules, and WBS assignees.

KEY CONCEPTS IN THIS FILE (hours.go):
  - Hours: A man-hour quantity backed by decimal.Decimal

DESIGN PRINCIPLES:
  1. Immutability: Every value is created by a factory and never mutated
  2. Precision: Uses decimal.Decimal so quantized allocations re-sum exactly
  3. Two factories per entity: New* validates fresh domain input,
     Reconstruct* trusts values rehydrated from storage

USAGE:
  kosu := wbs.NewHours(37.5)
  half := kosu.Div(wbs.NewHours(2))
  rounded := half.Round(0.25)

SEE ALSO:
  - date.go: Date and MonthKey values
  - task.go: Task (yotei/jisseki kosu carrier)
*/
package wbs

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Man-hour quantity
// =============================================================================

type Hours struct {
	Value decimal.Decimal
}

func NewHours(v float64) Hours        { return Hours{Value: decimal.NewFromFloat(v)} }
func NewHoursFromInt(v int) Hours     { return Hours{Value: decimal.NewFromInt(int64(v))} }
func HoursFrom(d decimal.Decimal) Hours { return Hours{Value: d} }
func ZeroHours() Hours                { return Hours{Value: decimal.Zero} }

// ParseHours parses a stored decimal string, e.g. "37.5".
func ParseHours(s string) (Hours, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Hours{}, err
	}
	return Hours{Value: d}, nil
}

// Arithmetic
func (h Hours) Add(o Hours) Hours { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Mul(o Hours) Hours { return Hours{Value: h.Value.Mul(o.Value)} }
func (h Hours) Div(o Hours) Hours { return Hours{Value: h.Value.Div(o.Value)} }
func (h Hours) Neg() Hours        { return Hours{Value: h.Value.Neg()} }

// Scale multiplies by a plain ratio (e.g. an assignee commitment rate).
func (h Hours) Scale(ratio float64) Hours {
	return Hours{Value: h.Value.Mul(decimal.NewFromFloat(ratio))}
}

// Comparison
func (h Hours) IsZero() bool            { return h.Value.IsZero() }
func (h Hours) IsNegative() bool        { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool        { return h.Value.IsPositive() }
func (h Hours) Equal(o Hours) bool      { return h.Value.Equal(o.Value) }
func (h Hours) GreaterThan(o Hours) bool { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool   { return h.Value.LessThan(o.Value) }

func (h Hours) Min(o Hours) Hours {
	if h.LessThan(o) {
		return h
	}
	return o
}

func (h Hours) Max(o Hours) Hours {
	if h.GreaterThan(o) {
		return h
	}
	return o
}

// ApproxEqual reports whether two quantities agree within tol.
func (h Hours) ApproxEqual(o Hours, tol float64) bool {
	return h.Value.Sub(o.Value).Abs().LessThanOrEqual(decimal.NewFromFloat(tol))
}

// Round rounds to the nearest multiple of unit (e.g. 0.25h increments).
// A non-positive unit returns the value unchanged.
func (h Hours) Round(unit float64) Hours {
	if unit <= 0 {
		return h
	}
	u := decimal.NewFromFloat(unit)
	return Hours{Value: h.Value.Div(u).Round(0).Mul(u)}
}

func (h Hours) Float64() float64 {
	f, _ := h.Value.Float64()
	return f
}

func (h Hours) String() string { return h.Value.String() }
