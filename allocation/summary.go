package allocation

import (
	"sort"

	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// MONTHLY SUMMARY ACCUMULATOR - Folds task breakdowns into report totals
// =============================================================================

// SummaryTotal is one bucket of summed hours. Difference is always derived
// as actual - planned; forecast is whatever the caller supplied, never
// inferred from planned or actual.
type SummaryTotal struct {
	PlannedHours  wbs.Hours
	ActualHours   wbs.Hours
	ForecastHours wbs.Hours
	BaselineHours wbs.Hours
}

func newSummaryTotal() SummaryTotal {
	return SummaryTotal{
		PlannedHours:  wbs.ZeroHours(),
		ActualHours:   wbs.ZeroHours(),
		ForecastHours: wbs.ZeroHours(),
		BaselineHours: wbs.ZeroHours(),
	}
}

func (t SummaryTotal) add(planned, actual, forecast, baseline wbs.Hours) SummaryTotal {
	return SummaryTotal{
		PlannedHours:  t.PlannedHours.Add(planned),
		ActualHours:   t.ActualHours.Add(actual),
		ForecastHours: t.ForecastHours.Add(forecast),
		BaselineHours: t.BaselineHours.Add(baseline),
	}
}

// Difference returns actual - planned.
func (t SummaryTotal) Difference() wbs.Hours {
	return t.ActualHours.Sub(t.PlannedHours)
}

// SummaryRow is one (month, assignee) cell of the summary table, carrying
// the task breakdowns that contributed to it.
type SummaryRow struct {
	Assignee string
	Month    wbs.MonthKey
	SummaryTotal
	TaskDetails []*MonthlyTaskAllocation
}

// SummaryTotals is the full result of an accumulation run.
type SummaryTotals struct {
	Rows           []SummaryRow
	MonthlyTotals  map[wbs.MonthKey]SummaryTotal
	AssigneeTotals map[string]SummaryTotal
	GrandTotal     SummaryTotal
}

type rowKey struct {
	month    wbs.MonthKey
	assignee string
}

// SummaryAccumulator folds many task allocations into three nested totals:
// by (month, assignee), by month alone, and a grand total. Each bucket sums
// independently, so the roll-ups are additive by construction.
type SummaryAccumulator struct {
	rows           map[rowKey]*SummaryRow
	monthlyTotals  map[wbs.MonthKey]SummaryTotal
	assigneeTotals map[string]SummaryTotal
	grandTotal     SummaryTotal
}

// NewSummaryAccumulator creates an empty accumulator.
func NewSummaryAccumulator() *SummaryAccumulator {
	return &SummaryAccumulator{
		rows:           make(map[rowKey]*SummaryRow),
		monthlyTotals:  make(map[wbs.MonthKey]SummaryTotal),
		assigneeTotals: make(map[string]SummaryTotal),
		grandTotal:     newSummaryTotal(),
	}
}

// Add accumulates one task's contribution to one (month, assignee) cell.
// Forecast hours are optional and default to zero.
func (a *SummaryAccumulator) Add(assignee string, month wbs.MonthKey, planned, actual, baseline wbs.Hours, detail *MonthlyTaskAllocation, forecast ...wbs.Hours) {
	fc := wbs.ZeroHours()
	if len(forecast) > 0 {
		fc = forecast[0]
	}

	key := rowKey{month: month, assignee: assignee}
	row, ok := a.rows[key]
	if !ok {
		row = &SummaryRow{Assignee: assignee, Month: month, SummaryTotal: newSummaryTotal()}
		a.rows[key] = row
	}
	row.SummaryTotal = row.SummaryTotal.add(planned, actual, fc, baseline)
	if detail != nil {
		row.TaskDetails = append(row.TaskDetails, detail)
	}

	monthly, ok := a.monthlyTotals[month]
	if !ok {
		monthly = newSummaryTotal()
	}
	a.monthlyTotals[month] = monthly.add(planned, actual, fc, baseline)

	byAssignee, ok := a.assigneeTotals[assignee]
	if !ok {
		byAssignee = newSummaryTotal()
	}
	a.assigneeTotals[assignee] = byAssignee.add(planned, actual, fc, baseline)

	a.grandTotal = a.grandTotal.add(planned, actual, fc, baseline)
}

// Totals returns the accumulated rows (sorted by month, then assignee) and
// the three roll-ups.
func (a *SummaryAccumulator) Totals() SummaryTotals {
	rows := make([]SummaryRow, 0, len(a.rows))
	for _, row := range a.rows {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		return rows[i].Assignee < rows[j].Assignee
	})

	monthly := make(map[wbs.MonthKey]SummaryTotal, len(a.monthlyTotals))
	for k, v := range a.monthlyTotals {
		monthly[k] = v
	}
	byAssignee := make(map[string]SummaryTotal, len(a.assigneeTotals))
	for k, v := range a.assigneeTotals {
		byAssignee[k] = v
	}

	return SummaryTotals{
		Rows:           rows,
		MonthlyTotals:  monthly,
		AssigneeTotals: byAssignee,
		GrandTotal:     a.grandTotal,
	}
}
