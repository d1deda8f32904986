/*
periods.go - Period generation and monthly-breakdown seeding

PURPOSE:
  Turns a case's leave dates into the ordered skeleton of maternity
  periods. SMP timing drives alignment: the walk starts at the payroll
  period containing the SMP start date, NOT the maternity start date.

FALLBACK:
  When the calendar cannot resolve the SMP start date (missing periods,
  hourly cutoff gaps), the generator emits synthetic monthly periods
  from the maternity start date instead of failing. Synthetic periods
  end one month minus one day after they start and pay on the 28th.

REGENERATION:
  Generation is idempotent for identical dates and calendar contents,
  but it discards entered amounts. Callers re-apply the monthly SMP
  breakdown afterwards; manual edits beyond that are lost by design
  when leave dates change (the old periods no longer exist).
*/
package maternity

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/warp/maternity-engine/calendar"
)

// =============================================================================
// PERIOD GENERATOR
// =============================================================================

// GeneratePeriods produces the ordered period skeletons for a case
// (zero amounts, pending status). The second return reports whether
// the synthetic monthly fallback was used.
func GeneratePeriods(c *Case, cal *calendar.Calendar) ([]Period, bool, error) {
	end := c.EffectiveEndDate()

	resolved, err := cal.Resolve(c.SMPStartDate, c.Employee.StaffClass)
	if err != nil {
		if errors.Is(err, calendar.ErrNoMatchingPeriod) {
			return syntheticPeriods(c, end), true, nil
		}
		return nil, false, err
	}

	var periods []Period
	for _, p := range cal.From(resolved) {
		if p.Start.After(end) {
			break
		}
		periods = append(periods, newPeriod(c.ID, len(periods)+1, p.Start, p.End, p.PayDate, p.Name))
	}
	if len(periods) == 0 {
		// The resolved period itself starts after the effective end:
		// degenerate dates, but the leave still deserves one period.
		periods = append(periods, newPeriod(c.ID, 1, resolved.Start, resolved.End, resolved.PayDate, resolved.Name))
	}
	return periods, false, nil
}

// syntheticPeriods emits consecutive ~1-month periods from the
// maternity start until the effective end is covered, capped at
// MaxSyntheticPeriods as a runaway-loop guard.
func syntheticPeriods(c *Case, end calendar.Date) []Period {
	var periods []Period
	start := c.MaternityStartDate
	for len(periods) < MaxSyntheticPeriods {
		periodEnd := start.AddMonths(1).AddDays(-1)
		payDate := calendar.NewDate(start.Year(), start.Month(), 28)
		name := fmt.Sprintf("%s %d", start.Month().String(), start.Year())
		periods = append(periods, newPeriod(c.ID, len(periods)+1, start, periodEnd, payDate, name))
		if periodEnd.AfterOrEqual(end) {
			break
		}
		start = periodEnd.AddDays(1)
	}
	return periods
}

func newPeriod(caseID string, number int, start, end, payDate calendar.Date, name string) Period {
	return Period{
		ID:      fmt.Sprintf("%s_P%d", caseID, number),
		Number:  number,
		Start:   start,
		End:     end,
		PayDate: payDate,
		Name:    name,
		Status:  PeriodPending,
	}
}

// =============================================================================
// MONTHLY BREAKDOWN SEEDING
// =============================================================================

// ApplyMonthlyBreakdown seeds period SMP amounts from the case's
// monthly breakdown, keyed by the period start's year-month. It is a
// best-effort seed: manual edits afterwards always take precedence.
// Breakdown months that match no generated period are reported as
// warnings so a typo'd month is visible rather than silently ignored.
func ApplyMonthlyBreakdown(c *Case, actor string, at time.Time) []Warning {
	if len(c.MonthlySMPBreakdown) == 0 {
		return nil
	}

	matched := make(map[string]bool, len(c.MonthlySMPBreakdown))
	for i := range c.Periods {
		p := &c.Periods[i]
		amount, ok := c.MonthlySMPBreakdown[p.Start.YearMonth()]
		if !ok {
			continue
		}
		matched[p.Start.YearMonth()] = true
		p.SMPAmount = amount
		p.EnteredBy = actor
		entered := at
		p.EnteredAt = &entered
		p.RefreshDataComplete()
	}

	var unmatched []string
	for month := range c.MonthlySMPBreakdown {
		if !matched[month] {
			unmatched = append(unmatched, month)
		}
	}
	sort.Strings(unmatched)

	warnings := make([]Warning, 0, len(unmatched))
	for _, month := range unmatched {
		warnings = append(warnings, Warning{
			Code:    WarnBreakdownUnmatched,
			Message: fmt.Sprintf("monthly SMP breakdown entry %s matches no generated period", month),
		})
	}
	return warnings
}
