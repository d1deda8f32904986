/*
Package maternity implements the employer's maternity pay engine.

PURPOSE:
  Aligns the statutory maternity pay (SMP) schedule against the
  employer's payroll calendar, derives the company top-up (CMP) under a
  capped weekly entitlement, and maintains a per-case ledger of pay
  periods edited incrementally by payroll staff.

KEY CONCEPTS IN THIS FILE (types.go):
  - Case:   One employee's maternity leave, with a frozen employee
            snapshot, the four key dates, declared SMP figures and the
            ordered period list
  - Period: One payroll period of the leave, carrying manually entered
            SMP and the derived company top-up
  - Warning: Typed non-fatal outcome attached to create results

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all money, 2 dp display rounding
  2. Explicit optionality: optional fields are pointers, not sentinels
  3. Frozen snapshot: employee data captured at creation never updates
  4. Versioned writes: every save increments Version; stores reject
     stale versions

SEE ALSO:
  - periods.go:     Period generation and breakdown seeding
  - entitlement.go: CMP allocation algorithm
  - manager.go:     Case lifecycle operations
*/
package maternity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/employee"
)

// =============================================================================
// STATUSES
// =============================================================================

type CaseStatus string

const (
	CaseActive   CaseStatus = "active"
	CaseArchived CaseStatus = "archived" // terminal
)

type PeriodStatus string

const (
	PeriodPending        PeriodStatus = "pending"
	PeriodAmountsEntered PeriodStatus = "amounts_entered"
)

// DefaultCMPWeeks is the entitlement applied when none is specified.
const DefaultCMPWeeks = 8

// MaxSyntheticPeriods bounds the monthly fallback generator; a leave
// spanning more periods than this indicates bad input dates.
const MaxSyntheticPeriods = 15

// =============================================================================
// CASE
// =============================================================================

// Case is one employee's maternity leave record.
type Case struct {
	ID         string
	EmployeeID string

	// Frozen at creation; see employee.Snapshot.
	Employee employee.Snapshot

	BabyDueDate        calendar.Date
	MaternityStartDate calendar.Date
	SMPStartDate       calendar.Date
	ExpectedReturnDate calendar.Date
	ActualReturnDate   *calendar.Date

	// Declared total SMP, entered manually from the payroll export.
	TotalSMP decimal.Decimal

	// Optional seed: year-month ("2025-04") -> SMP amount for that month.
	MonthlySMPBreakdown map[string]decimal.Decimal

	AverageWeeklyEarnings    decimal.Decimal // manual input
	ContractedWeeklyEarnings decimal.Decimal // derived from snapshot
	TargetWeeklyAmount       decimal.Decimal // derived: max(average, contracted)

	CMPWeeksEntitlement int
	TotalCMP            decimal.Decimal // derived: sum of period CMP

	Status CaseStatus

	CreatedBy     string
	CreatedAt     time.Time
	LastUpdatedAt time.Time
	ArchivedBy    string
	ArchivedAt    *time.Time
	ArchiveReason string

	// Version supports optimistic concurrency: stores accept a save
	// only when the stored version is exactly Version-1.
	Version int64

	Periods []Period
}

// EffectiveEndDate is the date bounding period generation: the actual
// return date when known, otherwise the expected return date.
func (c *Case) EffectiveEndDate() calendar.Date {
	if c.ActualReturnDate != nil {
		return *c.ActualReturnDate
	}
	return c.ExpectedReturnDate
}

// FindPeriod returns the period with the given id, or nil.
func (c *Case) FindPeriod(periodID string) *Period {
	for i := range c.Periods {
		if c.Periods[i].ID == periodID {
			return &c.Periods[i]
		}
	}
	return nil
}

// Clone returns a deep copy. Stores hand out clones so callers never
// share period slices or breakdown maps with cached state.
func (c *Case) Clone() *Case {
	out := *c
	if c.ActualReturnDate != nil {
		d := *c.ActualReturnDate
		out.ActualReturnDate = &d
	}
	if c.ArchivedAt != nil {
		t := *c.ArchivedAt
		out.ArchivedAt = &t
	}
	if c.MonthlySMPBreakdown != nil {
		out.MonthlySMPBreakdown = make(map[string]decimal.Decimal, len(c.MonthlySMPBreakdown))
		for k, v := range c.MonthlySMPBreakdown {
			out.MonthlySMPBreakdown[k] = v
		}
	}
	out.Periods = make([]Period, len(c.Periods))
	copy(out.Periods, c.Periods)
	for i := range out.Periods {
		if c.Periods[i].EnteredAt != nil {
			t := *c.Periods[i].EnteredAt
			out.Periods[i].EnteredAt = &t
		}
	}
	return &out
}

// =============================================================================
// PERIOD
// =============================================================================

// Period is one payroll period of a case. SMPAmount is entered by
// payroll staff (or seeded from the monthly breakdown); CompanyAmount
// is derived by the entitlement engine and recomputed on every edit
// that can affect it.
type Period struct {
	ID     string // deterministic: caseID + "_P" + number
	Number int    // 1-based; canonical order, matches chronological Start

	Start   calendar.Date
	End     calendar.Date
	PayDate calendar.Date
	Name    string

	SMPAmount      decimal.Decimal // manual, >= 0
	CompanyAmount  decimal.Decimal // derived, >= 0
	HolidayAccrued decimal.Decimal

	SMPNotes     string
	CompanyNotes string
	HolidayNotes string

	// CalcNote records why the engine paid nothing for this period
	// ("beyond entitlement", "no SMP for period"). Empty otherwise.
	CalcNote string

	EnteredBy string
	EnteredAt *time.Time

	DataComplete bool // derived: any amount > 0
	Status       PeriodStatus
}

// RefreshDataComplete recomputes the derived completeness flag and
// promotes the workflow status once amounts exist.
func (p *Period) RefreshDataComplete() {
	p.DataComplete = p.SMPAmount.IsPositive() ||
		p.CompanyAmount.IsPositive() ||
		p.HolidayAccrued.IsPositive()
	if p.DataComplete {
		p.Status = PeriodAmountsEntered
	} else {
		p.Status = PeriodPending
	}
}

// =============================================================================
// WARNINGS - Typed non-fatal outcomes
// =============================================================================

type WarningCode string

const (
	WarnCalculationFailed  WarningCode = "calculation_failed"
	WarnCalendarFallback   WarningCode = "calendar_fallback"
	WarnEmployeeNotFound   WarningCode = "employee_not_found"
	WarnBreakdownUnmatched WarningCode = "breakdown_month_unmatched"
)

// Warning is a non-fatal condition surfaced alongside a successful
// result, so "created with zero CMP, needs attention" is a queryable
// state rather than a swallowed exception.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// CreateResult is returned by Manager.CreateCase.
type CreateResult struct {
	Case     *Case
	Warnings []Warning
}
