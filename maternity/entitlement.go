/*
entitlement.go - Company maternity pay (CMP) allocation

PURPOSE:
  Computes the employer top-up for each period of a case under a capped
  weekly entitlement. The algorithm is week-based: each period consumes
  entitlement proportional to its actual length, so a short first
  period (SMP starting mid-period) consumes fewer weeks than a full
  one. Do not replace this with a fixed 4-week-per-period shortcut;
  the two diverge on any period that is not exactly four weeks.

ALGORITHM (periods walked in canonical number order):
  target        = max(averageWeeklyEarnings, contractedWeeklyEarnings)
  weeksInPeriod = ceil((periodEnd - max(smpStart, periodStart) + 1d) / 7d)
  available     = min(weeksInPeriod, entitlement - weeksConsumed)

  available <= 0      -> CMP 0, note "beyond entitlement"
  period SMP <= 0     -> CMP 0, note "no SMP for period"; entitlement
                         is NOT consumed (a zero-SMP period is a data
                         gap, not a paid week)
  otherwise           -> CMP = max(0, target*available - SMP), 2 dp;
                         weeksConsumed += available

GUARANTEES:
  - CMP >= 0 for every period
  - weeksConsumed <= entitlement
  - Re-running on unchanged input reproduces identical output
*/
package maternity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
)

const (
	calcNoteBeyondEntitlement = "beyond entitlement"
	calcNoteNoSMP             = "no SMP for period"
)

// TargetWeeklyAmount is the weekly figure CMP tops pay up to:
// the greater of the manually entered average weekly earnings and the
// contractual weekly earnings derived from the employee snapshot.
func TargetWeeklyAmount(average, contracted decimal.Decimal) decimal.Decimal {
	if contracted.GreaterThan(average) {
		return contracted
	}
	return average
}

// WeeksInPeriod counts 7-day units between max(smpStart, periodStart)
// and periodEnd inclusive, rounded up, floored at zero.
func (p *Period) WeeksInPeriod(c *Case) int {
	effectiveStart := c.SMPStartDate.Max(p.Start)
	days := calendarDays(effectiveStart, p.End)
	if days <= 0 {
		return 0
	}
	return (days + 6) / 7
}

// Recalculate runs the CMP allocation over the whole case, in period
// order, updating each period's CompanyAmount and the case totals.
// It never partially applies: validation happens up front.
func Recalculate(c *Case) error {
	if c.CMPWeeksEntitlement < 0 {
		return &CalculationError{CaseID: c.ID, Err: fmt.Errorf("negative entitlement %d", c.CMPWeeksEntitlement)}
	}
	for i := range c.Periods {
		if c.Periods[i].SMPAmount.IsNegative() {
			return &CalculationError{
				CaseID: c.ID,
				Err:    fmt.Errorf("period %s has negative SMP %s", c.Periods[i].ID, c.Periods[i].SMPAmount),
			}
		}
	}

	c.ContractedWeeklyEarnings = c.Employee.ContractedWeeklyEarnings()
	c.TargetWeeklyAmount = TargetWeeklyAmount(c.AverageWeeklyEarnings, c.ContractedWeeklyEarnings)

	weeksConsumed := 0
	total := decimal.Zero

	for i := range c.Periods {
		p := &c.Periods[i]

		available := p.WeeksInPeriod(c)
		if remaining := c.CMPWeeksEntitlement - weeksConsumed; available > remaining {
			available = remaining
		}

		switch {
		case available <= 0:
			p.CompanyAmount = decimal.Zero
			p.CalcNote = calcNoteBeyondEntitlement

		case !p.SMPAmount.IsPositive():
			p.CompanyAmount = decimal.Zero
			p.CalcNote = calcNoteNoSMP

		default:
			periodTarget := c.TargetWeeklyAmount.Mul(decimal.NewFromInt(int64(available)))
			cmp := periodTarget.Sub(p.SMPAmount)
			if cmp.IsNegative() {
				cmp = decimal.Zero
			}
			p.CompanyAmount = cmp.Round(2)
			p.CalcNote = ""
			weeksConsumed += available
		}

		p.RefreshDataComplete()
		total = total.Add(p.CompanyAmount)
	}

	c.TotalCMP = total.Round(2)
	return nil
}

// calendarDays returns the inclusive day count of [from, to].
func calendarDays(from, to calendar.Date) int {
	return calendar.DaysBetween(from, to) + 1
}
