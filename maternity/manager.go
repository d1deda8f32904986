/*
manager.go - Case lifecycle operations

PURPOSE:
  The Manager owns every mutation of maternity cases: creation,
  field updates, per-period amount edits, workflow status, archival and
  forced recalculation. Each operation is a synchronous
  read -> mutate -> versioned write cycle; a version conflict surfaces
  as ErrConcurrentModification and the caller re-reads.

RECALCULATION TRIGGERS:
  - key-date change        -> regenerate periods, reseed breakdown,
                              then recalculate (when earnings known)
  - period SMP change      -> recalculate the WHOLE case; a single
                              period's SMP affects every later period's
                              remaining entitlement
  - explicit recalculate   -> recalculate only

CREATION TOLERANCE:
  Creation prefers partial success over data loss: a failed employee
  lookup or entitlement calculation still persists the case with zero
  CMP, and the condition is returned as a typed warning on the result.
  Every other operation propagates those failures as blocking errors.
*/
package maternity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/employee"
)

// Manager coordinates the period generator, entitlement engine and
// case store.
type Manager struct {
	store     CaseStore
	source    calendar.Source
	directory employee.Directory
	log       *zap.Logger

	// Injected for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

func NewManager(store CaseStore, source calendar.Source, directory employee.Directory, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:     store,
		source:    source,
		directory: directory,
		log:       log,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

func (m *Manager) loadCalendar(ctx context.Context) (*calendar.Calendar, error) {
	periods, err := m.source.LoadCalendar(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load calendar", Err: err}
	}
	return calendar.New(periods, m.log), nil
}

// =============================================================================
// CREATE
// =============================================================================

// CreateCase validates the input, freezes the employee snapshot,
// generates the period skeleton, seeds it from the monthly breakdown
// and runs the entitlement engine. Non-fatal problems are returned as
// warnings on the result, not errors.
func (m *Manager) CreateCase(ctx context.Context, in CreateCaseInput, actor string) (*CreateResult, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := m.Now().UTC()
	c := &Case{
		ID:                    m.NewID(),
		EmployeeID:            in.EmployeeID,
		BabyDueDate:           in.BabyDueDate,
		MaternityStartDate:    in.MaternityStartDate,
		SMPStartDate:          in.SMPStartDate,
		ExpectedReturnDate:    in.ExpectedReturnDate,
		TotalSMP:              in.TotalSMP,
		MonthlySMPBreakdown:   in.MonthlySMPBreakdown,
		AverageWeeklyEarnings: in.AverageWeeklyEarnings,
		CMPWeeksEntitlement:   in.CMPWeeksEntitlement,
		Status:                CaseActive,
		CreatedBy:             actor,
		CreatedAt:             now,
		LastUpdatedAt:         now,
		Version:               1,
	}
	if c.CMPWeeksEntitlement == 0 {
		c.CMPWeeksEntitlement = DefaultCMPWeeks
	}

	var warnings []Warning

	rec, err := m.directory.LookupByNumber(ctx, in.EmployeeID)
	lookupFailed := false
	switch {
	case err == nil:
		c.Employee = employee.SnapshotOf(rec)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		// Persist anyway: losing a half-entered case over a directory
		// gap costs more than a case that needs attention.
		lookupFailed = true
		c.Employee = employee.Snapshot{StaffClass: calendar.StaffSalaried}
		warnings = append(warnings, Warning{
			Code:    WarnEmployeeNotFound,
			Message: fmt.Sprintf("employee %s not found in directory; case created without snapshot, CMP not calculated", in.EmployeeID),
		})
		m.log.Warn("creating case without employee snapshot",
			zap.String("case_id", c.ID), zap.String("employee_id", in.EmployeeID))
	default:
		return nil, fmt.Errorf("employee lookup: %w", err)
	}

	cal, err := m.loadCalendar(ctx)
	if err != nil {
		return nil, err
	}

	warnings = append(warnings, m.regenerate(c, cal, actor, now)...)

	if lookupFailed {
		c.TotalCMP = decimal.Zero
	} else if err := Recalculate(c); err != nil {
		var calcErr *CalculationError
		if !errors.As(err, &calcErr) {
			return nil, err
		}
		c.TotalCMP = decimal.Zero
		warnings = append(warnings, Warning{
			Code:    WarnCalculationFailed,
			Message: calcErr.Error(),
		})
		m.log.Warn("case created with zero CMP after calculation failure",
			zap.String("case_id", c.ID), zap.Error(calcErr))
	}

	if err := m.save(ctx, c, "create case"); err != nil {
		return nil, err
	}

	m.log.Info("maternity case created",
		zap.String("case_id", c.ID),
		zap.String("employee_id", c.EmployeeID),
		zap.Int("periods", len(c.Periods)),
		zap.String("total_cmp", c.TotalCMP.StringFixed(2)))

	return &CreateResult{Case: c, Warnings: warnings}, nil
}

// regenerate rebuilds the period list and reseeds it from the monthly
// breakdown, collecting warnings.
func (m *Manager) regenerate(c *Case, cal *calendar.Calendar, actor string, now time.Time) []Warning {
	var warnings []Warning

	periods, usedFallback, err := GeneratePeriods(c, cal)
	if err != nil {
		// Resolution errors are handled inside GeneratePeriods; only
		// unexpected failures land here.
		m.log.Error("period generation failed", zap.String("case_id", c.ID), zap.Error(err))
		return append(warnings, Warning{Code: WarnCalculationFailed, Message: err.Error()})
	}
	if usedFallback {
		warnings = append(warnings, Warning{
			Code:    WarnCalendarFallback,
			Message: "SMP start date matched no payroll period; synthetic monthly periods generated",
		})
		m.log.Warn("payroll calendar fallback",
			zap.String("case_id", c.ID),
			zap.String("smp_start", c.SMPStartDate.String()),
			zap.String("staff_class", string(c.Employee.StaffClass)))
	}

	c.Periods = periods
	warnings = append(warnings, ApplyMonthlyBreakdown(c, actor, now)...)
	return warnings
}

// =============================================================================
// READ
// =============================================================================

func (m *Manager) GetCase(ctx context.Context, id string) (*Case, error) {
	return m.store.GetCase(ctx, id)
}

func (m *Manager) ListCases(ctx context.Context, includeArchived bool) ([]*Case, error) {
	return m.store.ListCases(ctx, includeArchived)
}

// =============================================================================
// UPDATE
// =============================================================================

// UpdateCase merges a partial update. When any of the key dates
// changed, periods are regenerated (entered amounts are discarded and
// the breakdown reseeded) and CMP recalculated if earnings are known.
func (m *Manager) UpdateCase(ctx context.Context, id string, in UpdateCaseInput, actor string) (*Case, []Warning, error) {
	c, err := m.activeCase(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	datesChanged := false
	applyDate := func(dst *calendar.Date, src *calendar.Date) {
		if src != nil && !src.Equal(*dst) {
			*dst = *src
			datesChanged = true
		}
	}
	applyDate(&c.BabyDueDate, in.BabyDueDate)
	applyDate(&c.MaternityStartDate, in.MaternityStartDate)
	applyDate(&c.SMPStartDate, in.SMPStartDate)
	applyDate(&c.ExpectedReturnDate, in.ExpectedReturnDate)

	if in.TotalSMP != nil {
		c.TotalSMP = *in.TotalSMP
	}
	if in.MonthlySMPBreakdown != nil {
		c.MonthlySMPBreakdown = in.MonthlySMPBreakdown
	}
	if in.AverageWeeklyEarnings != nil {
		c.AverageWeeklyEarnings = *in.AverageWeeklyEarnings
	}
	if in.CMPWeeksEntitlement != nil {
		c.CMPWeeksEntitlement = *in.CMPWeeksEntitlement
	}

	if err := validateMergedCase(c); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	if datesChanged {
		cal, err := m.loadCalendar(ctx)
		if err != nil {
			return nil, nil, err
		}
		warnings = m.regenerate(c, cal, actor, m.Now().UTC())
	}

	if c.AverageWeeklyEarnings.IsPositive() {
		if err := Recalculate(c); err != nil {
			return nil, nil, err
		}
	}

	if err := m.saveUpdated(ctx, c, "update case"); err != nil {
		return nil, nil, err
	}
	return c, warnings, nil
}

// SetActualReturnDate records the actual return. The return date
// bounds the period walk, so periods regenerate and CMP recalculates.
func (m *Manager) SetActualReturnDate(ctx context.Context, id string, date calendar.Date, actor string) (*Case, []Warning, error) {
	c, err := m.activeCase(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if date.IsZero() {
		return nil, nil, &ValidationError{Messages: []string{"actual return date is required"}}
	}
	if !date.After(c.MaternityStartDate) {
		return nil, nil, &ValidationError{Messages: []string{"actual return date must be after maternity start date"}}
	}

	c.ActualReturnDate = &date

	cal, err := m.loadCalendar(ctx)
	if err != nil {
		return nil, nil, err
	}
	warnings := m.regenerate(c, cal, actor, m.Now().UTC())

	if c.AverageWeeklyEarnings.IsPositive() {
		if err := Recalculate(c); err != nil {
			return nil, nil, err
		}
	}

	if err := m.saveUpdated(ctx, c, "set actual return date"); err != nil {
		return nil, nil, err
	}
	return c, warnings, nil
}

// =============================================================================
// PERIOD EDITS
// =============================================================================

// UpdatePeriodAmounts applies per-field edits to one period. An SMP
// change recalculates the whole case: entitlement remaining for later
// periods depends on every earlier period, so a sequence-wide rerun is
// required, not optional.
func (m *Manager) UpdatePeriodAmounts(ctx context.Context, caseID, periodID string, in UpdatePeriodAmountsInput, actor string) (*Case, error) {
	if err := validatePeriodAmounts(in); err != nil {
		return nil, err
	}

	c, err := m.activeCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	p := c.FindPeriod(periodID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s in case %s", ErrPeriodNotFound, periodID, caseID)
	}

	smpChanged := false
	if in.SMPAmount != nil && !in.SMPAmount.Equal(p.SMPAmount) {
		p.SMPAmount = *in.SMPAmount
		smpChanged = true
	}
	if in.CompanyAmount != nil {
		p.CompanyAmount = *in.CompanyAmount
	}
	if in.HolidayAccrued != nil {
		p.HolidayAccrued = *in.HolidayAccrued
	}
	if in.SMPNotes != nil {
		p.SMPNotes = *in.SMPNotes
	}
	if in.CompanyNotes != nil {
		p.CompanyNotes = *in.CompanyNotes
	}
	if in.HolidayNotes != nil {
		p.HolidayNotes = *in.HolidayNotes
	}

	p.EnteredBy = actor
	entered := m.Now().UTC()
	p.EnteredAt = &entered
	p.RefreshDataComplete()

	if smpChanged {
		if err := Recalculate(c); err != nil {
			return nil, err
		}
	}

	if err := m.saveUpdated(ctx, c, "update period amounts"); err != nil {
		return nil, err
	}
	return c, nil
}

// SetPeriodStatus sets a period's workflow status directly.
func (m *Manager) SetPeriodStatus(ctx context.Context, caseID, periodID string, status PeriodStatus, actor string) (*Case, error) {
	if status != PeriodPending && status != PeriodAmountsEntered {
		return nil, &ValidationError{Messages: []string{fmt.Sprintf("unknown period status %q", status)}}
	}

	c, err := m.activeCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	p := c.FindPeriod(periodID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s in case %s", ErrPeriodNotFound, periodID, caseID)
	}

	p.Status = status
	p.EnteredBy = actor
	entered := m.Now().UTC()
	p.EnteredAt = &entered

	if err := m.saveUpdated(ctx, c, "set period status"); err != nil {
		return nil, err
	}
	return c, nil
}

// =============================================================================
// ARCHIVE / RECALCULATE
// =============================================================================

// ArchiveCase soft-deletes a case. Terminal and irreversible; periods
// and amounts are retained for audit.
func (m *Manager) ArchiveCase(ctx context.Context, id, reason, actor string) (*Case, error) {
	if reason == "" {
		return nil, &ValidationError{Messages: []string{"archive reason is required"}}
	}

	c, err := m.activeCase(ctx, id)
	if err != nil {
		return nil, err
	}

	now := m.Now().UTC()
	c.Status = CaseArchived
	c.ArchivedBy = actor
	c.ArchivedAt = &now
	c.ArchiveReason = reason

	if err := m.saveUpdated(ctx, c, "archive case"); err != nil {
		return nil, err
	}

	m.log.Info("maternity case archived",
		zap.String("case_id", c.ID), zap.String("reason", reason), zap.String("actor", actor))
	return c, nil
}

// RecalculateCase forces a CMP recalculation without other changes.
func (m *Manager) RecalculateCase(ctx context.Context, id, actor string) (*Case, error) {
	c, err := m.activeCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Recalculate(c); err != nil {
		return nil, err
	}
	if err := m.saveUpdated(ctx, c, "recalculate case"); err != nil {
		return nil, err
	}
	return c, nil
}

// =============================================================================
// CALENDAR QUERIES
// =============================================================================

// StartDateCheck reports how a proposed SMP start date would align.
type StartDateCheck struct {
	Date       calendar.Date           `json:"date"`
	StaffClass calendar.StaffClass     `json:"staff_class"`
	Resolved   bool                    `json:"resolved"`
	Period     *calendar.PayrollPeriod `json:"period,omitempty"`
	Message    string                  `json:"message"`
}

// ValidateStartDate resolves a proposed SMP start date against the
// calendar without touching any case.
func (m *Manager) ValidateStartDate(ctx context.Context, date calendar.Date, class calendar.StaffClass) (StartDateCheck, error) {
	cal, err := m.loadCalendar(ctx)
	if err != nil {
		return StartDateCheck{}, err
	}

	check := StartDateCheck{Date: date, StaffClass: class}
	period, err := cal.Resolve(date, class)
	if err != nil {
		if errors.Is(err, calendar.ErrNoMatchingPeriod) {
			check.Message = "no payroll period matches this date; synthetic monthly periods would be generated"
			return check, nil
		}
		return StartDateCheck{}, err
	}

	check.Resolved = true
	check.Period = &period
	check.Message = fmt.Sprintf("date falls in payroll period %q paying on %s", period.Name, period.PayDate)
	return check, nil
}

// SelfCheck reports payroll calendar completeness.
func (m *Manager) SelfCheck(ctx context.Context) (calendar.Report, error) {
	cal, err := m.loadCalendar(ctx)
	if err != nil {
		return calendar.Report{}, err
	}
	return calendar.SelfCheck(cal, calendar.DateOf(m.Now().UTC())), nil
}

// =============================================================================
// INTERNAL
// =============================================================================

// activeCase loads a case and rejects mutations of archived ones.
func (m *Manager) activeCase(ctx context.Context, id string) (*Case, error) {
	c, err := m.store.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == CaseArchived {
		return nil, fmt.Errorf("%w: %s", ErrCaseArchived, id)
	}
	return c, nil
}

// save writes a case. Store failures surface as PersistenceError (or
// ErrConcurrentModification verbatim); the mutated in-memory case is
// discarded by callers either way.
func (m *Manager) save(ctx context.Context, c *Case, op string) error {
	if err := m.store.SaveCase(ctx, c); err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			return err
		}
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

// saveUpdated stamps the audit timestamp, bumps the optimistic
// version, and writes. The store accepts the write only if the stored
// version is exactly Version-1.
func (m *Manager) saveUpdated(ctx context.Context, c *Case, op string) error {
	c.LastUpdatedAt = m.Now().UTC()
	c.Version++
	return m.save(ctx, c, op)
}
