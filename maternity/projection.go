/*
projection.go - Read-only projections for the presentation layer

PURPOSE:
  Computes the dashboard view (per-case status bucket plus aggregate
  remaining-pay totals) and the per-case period detail grouped by
  calendar month. Projections never mutate cases; they are recomputed
  from stored state on every read.

STATUS BUCKETS:
  upcoming   maternity start is in the future
  returned   an actual return date exists and is not after today
  overdue    effective end has passed with no recorded return
  returning  expected return falls within the next 30 days
  on-leave   everything else between start and return
*/
package maternity

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
)

// =============================================================================
// DASHBOARD
// =============================================================================

type StatusBucket string

const (
	BucketUpcoming  StatusBucket = "upcoming"
	BucketOnLeave   StatusBucket = "on-leave"
	BucketReturning StatusBucket = "returning"
	BucketOverdue   StatusBucket = "overdue"
	BucketReturned  StatusBucket = "returned"
)

// returningWindowDays is how close the expected return must be before
// a case moves from on-leave to returning.
const returningWindowDays = 30

// DashboardCase is one row of the dashboard projection.
type DashboardCase struct {
	CaseID             string          `json:"case_id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name"`
	Location           string          `json:"location"`
	Bucket             StatusBucket    `json:"bucket"`
	MaternityStartDate calendar.Date   `json:"maternity_start_date"`
	ExpectedReturnDate calendar.Date   `json:"expected_return_date"`
	ActualReturnDate   *calendar.Date  `json:"actual_return_date,omitempty"`
	RemainingSMP       decimal.Decimal `json:"remaining_smp"`
	RemainingCMP       decimal.Decimal `json:"remaining_cmp"`
	TotalCMP           decimal.Decimal `json:"total_cmp"`
}

// Dashboard is the read-only projection consumed by the UI's landing
// page.
type Dashboard struct {
	AsOf              calendar.Date        `json:"as_of"`
	Counts            map[StatusBucket]int `json:"counts"`
	TotalRemainingSMP decimal.Decimal      `json:"total_remaining_smp"`
	TotalRemainingCMP decimal.Decimal      `json:"total_remaining_cmp"`
	Cases             []DashboardCase      `json:"cases"`
}

// BucketFor classifies a case relative to asOf.
func BucketFor(c *Case, asOf calendar.Date) StatusBucket {
	if c.ActualReturnDate != nil && c.ActualReturnDate.BeforeOrEqual(asOf) {
		return BucketReturned
	}
	if c.MaternityStartDate.After(asOf) {
		return BucketUpcoming
	}
	if c.ActualReturnDate == nil && c.EffectiveEndDate().Before(asOf) {
		return BucketOverdue
	}
	if calendar.DaysBetween(asOf, c.ExpectedReturnDate) <= returningWindowDays {
		return BucketReturning
	}
	return BucketOnLeave
}

// RemainingPay sums the SMP and CMP still to be paid: amounts on
// periods whose pay date is asOf or later.
func RemainingPay(c *Case, asOf calendar.Date) (smp, cmp decimal.Decimal) {
	smp, cmp = decimal.Zero, decimal.Zero
	for i := range c.Periods {
		if c.Periods[i].PayDate.AfterOrEqual(asOf) {
			smp = smp.Add(c.Periods[i].SMPAmount)
			cmp = cmp.Add(c.Periods[i].CompanyAmount)
		}
	}
	return smp.Round(2), cmp.Round(2)
}

// BuildDashboard projects active cases into status buckets with
// aggregate remaining-pay totals. Archived cases never appear.
func BuildDashboard(cases []*Case, asOf calendar.Date) Dashboard {
	d := Dashboard{
		AsOf:              asOf,
		Counts:            make(map[StatusBucket]int),
		TotalRemainingSMP: decimal.Zero,
		TotalRemainingCMP: decimal.Zero,
	}

	for _, c := range cases {
		if c.Status == CaseArchived {
			continue
		}
		smp, cmp := RemainingPay(c, asOf)
		row := DashboardCase{
			CaseID:             c.ID,
			EmployeeID:         c.EmployeeID,
			EmployeeName:       c.Employee.FullName,
			Location:           c.Employee.Location,
			Bucket:             BucketFor(c, asOf),
			MaternityStartDate: c.MaternityStartDate,
			ExpectedReturnDate: c.ExpectedReturnDate,
			ActualReturnDate:   c.ActualReturnDate,
			RemainingSMP:       smp,
			RemainingCMP:       cmp,
			TotalCMP:           c.TotalCMP,
		}
		d.Cases = append(d.Cases, row)
		d.Counts[row.Bucket]++
		d.TotalRemainingSMP = d.TotalRemainingSMP.Add(smp)
		d.TotalRemainingCMP = d.TotalRemainingCMP.Add(cmp)
	}

	sort.Slice(d.Cases, func(i, j int) bool {
		return d.Cases[i].MaternityStartDate.Before(d.Cases[j].MaternityStartDate)
	})
	return d
}

// =============================================================================
// CASE DETAIL - Periods grouped by calendar month
// =============================================================================

// MonthGroup is one calendar month of a case's period detail.
type MonthGroup struct {
	Month    string          `json:"month"` // YYYY-MM of period start
	Periods  []Period        `json:"periods"`
	SMPTotal decimal.Decimal `json:"smp_total"`
	CMPTotal decimal.Decimal `json:"cmp_total"`
}

// GroupPeriodsByMonth groups a case's periods by the calendar month of
// their start date, preserving canonical period order and subtotaling
// each month.
func GroupPeriodsByMonth(c *Case) []MonthGroup {
	var groups []MonthGroup
	index := make(map[string]int)

	for _, p := range c.Periods {
		month := p.Start.YearMonth()
		i, ok := index[month]
		if !ok {
			i = len(groups)
			index[month] = i
			groups = append(groups, MonthGroup{
				Month:    month,
				SMPTotal: decimal.Zero,
				CMPTotal: decimal.Zero,
			})
		}
		groups[i].Periods = append(groups[i].Periods, p)
		groups[i].SMPTotal = groups[i].SMPTotal.Add(p.SMPAmount).Round(2)
		groups[i].CMPTotal = groups[i].CMPTotal.Add(p.CompanyAmount).Round(2)
	}
	return groups
}
