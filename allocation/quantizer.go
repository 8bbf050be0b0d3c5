package allocation

import (
	"sort"

	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// QUANTIZER - Sum-preserving rounding to a display unit
// =============================================================================

// Quantizer rounds related hour values to a fixed increment (e.g. 0.25h)
// while keeping their sum exact. Rounding each month independently drifts the
// total; the largest-remainder correction pushes the drift onto the entry
// that was already furthest from a clean multiple.
type Quantizer struct {
	Unit float64
}

// NewQuantizer creates a quantizer for the given unit.
func NewQuantizer(unit float64) *Quantizer {
	return &Quantizer{Unit: unit}
}

// Quantize rounds a single value to the nearest multiple of the unit.
func (q *Quantizer) Quantize(v wbs.Hours) wbs.Hours {
	return v.Round(q.Unit)
}

// QuantizeDistribution rounds every entry to the unit and corrects the
// rounding drift against the quantized total, so the corrected entries
// re-sum exactly to the total at unit precision.
func (q *Quantizer) QuantizeDistribution(values map[wbs.MonthKey]wbs.Hours, total wbs.Hours) map[wbs.MonthKey]wbs.Hours {
	if len(values) == 0 {
		return map[wbs.MonthKey]wbs.Hours{}
	}

	keys := make([]wbs.MonthKey, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rounded := make(map[wbs.MonthKey]wbs.Hours, len(values))
	sum := wbs.ZeroHours()
	for _, key := range keys {
		r := values[key].Round(q.Unit)
		rounded[key] = r
		sum = sum.Add(r)
	}

	drift := sum.Sub(total.Round(q.Unit))
	if drift.IsZero() {
		return rounded
	}

	// Largest-remainder correction: the entry whose rounding moved it most
	// absorbs the whole drift. Ties go to the earliest month.
	target := keys[0]
	largest := wbs.ZeroHours()
	for _, key := range keys {
		remainder := values[key].Sub(rounded[key])
		if remainder.IsNegative() {
			remainder = remainder.Neg()
		}
		if remainder.GreaterThan(largest) {
			largest = remainder
			target = key
		}
	}

	rounded[target] = rounded[target].Sub(drift)
	return rounded
}
