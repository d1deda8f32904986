/*
Package sqlite provides the SQLite-backed implementation of the
storage interfaces.

INTERFACES IMPLEMENTED:
  maternity.CaseStore:  Case + period persistence with optimistic
                        concurrency
  calendar.Source:      Payroll calendar (plus ReplaceCalendar)
  employee.Directory:   Employee master data (plus SaveEmployee)

OPTIMISTIC CONCURRENCY:
  Every case row carries a version. An update is guarded by
  WHERE id = ? AND version = ? - 1; zero rows affected means another
  writer got there first and the caller receives
  maternity.ErrConcurrentModification. Periods are replaced inside the
  same SQL transaction as the case row so a case is never visible with
  a mismatched period list.

CUTOFF DATES:
  The hourly cutoff date is stored in its own nullable column and
  round-tripped verbatim. It must never be derived, defaulted or
  dropped by this layer; hourly period resolution is wrong without it.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block, single writer at a time, better crash recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/employee"
	"github.com/warp/maternity-engine/maternity"
)

const tsLayout = time.RFC3339

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maternity_cases (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		emp_full_name TEXT NOT NULL DEFAULT '',
		emp_location TEXT NOT NULL DEFAULT '',
		emp_staff_class TEXT NOT NULL,
		emp_annual_salary TEXT NOT NULL DEFAULT '0',
		emp_hourly_rate TEXT NOT NULL DEFAULT '0',
		emp_contracted_hours TEXT NOT NULL DEFAULT '0',
		baby_due_date TEXT NOT NULL,
		maternity_start_date TEXT NOT NULL,
		smp_start_date TEXT NOT NULL,
		expected_return_date TEXT NOT NULL,
		actual_return_date TEXT,
		total_smp TEXT NOT NULL,
		monthly_breakdown_json TEXT,
		average_weekly_earnings TEXT NOT NULL,
		contracted_weekly_earnings TEXT NOT NULL DEFAULT '0',
		target_weekly_amount TEXT NOT NULL DEFAULT '0',
		cmp_weeks_entitlement INTEGER NOT NULL,
		total_cmp TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		last_updated_at TEXT NOT NULL,
		archived_by TEXT,
		archived_at TEXT,
		archive_reason TEXT,
		version INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cases_employee
		ON maternity_cases(employee_id);
	CREATE INDEX IF NOT EXISTS idx_cases_status
		ON maternity_cases(status);

	CREATE TABLE IF NOT EXISTS maternity_periods (
		id TEXT PRIMARY KEY,
		case_id TEXT NOT NULL REFERENCES maternity_cases(id),
		number INTEGER NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		pay_date TEXT NOT NULL,
		name TEXT NOT NULL,
		smp_amount TEXT NOT NULL,
		company_amount TEXT NOT NULL,
		holiday_accrued TEXT NOT NULL,
		smp_notes TEXT NOT NULL DEFAULT '',
		company_notes TEXT NOT NULL DEFAULT '',
		holiday_notes TEXT NOT NULL DEFAULT '',
		calc_note TEXT NOT NULL DEFAULT '',
		entered_by TEXT NOT NULL DEFAULT '',
		entered_at TEXT,
		data_complete INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_periods_case
		ON maternity_periods(case_id, number);

	-- Payroll calendar, externally supplied. cutoff_date is nullable
	-- and must round-trip verbatim.
	CREATE TABLE IF NOT EXISTS payroll_periods (
		staff_class TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		pay_date TEXT NOT NULL,
		cutoff_date TEXT,
		name TEXT NOT NULL,
		PRIMARY KEY (staff_class, period_start)
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		pay_type TEXT NOT NULL,
		annual_salary TEXT NOT NULL DEFAULT '0',
		hourly_rate TEXT NOT NULL DEFAULT '0',
		contracted_hours TEXT NOT NULL DEFAULT '0'
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CASE STORE (maternity.CaseStore interface)
// =============================================================================

// SaveCase inserts (version 1) or updates (guarded by version-1) a
// case and replaces its periods in the same transaction.
func (s *Store) SaveCase(ctx context.Context, c *maternity.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	breakdownJSON, err := marshalBreakdown(c.MonthlySMPBreakdown)
	if err != nil {
		return err
	}

	if c.Version == 1 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO maternity_cases
			(id, employee_id, emp_full_name, emp_location, emp_staff_class,
			 emp_annual_salary, emp_hourly_rate, emp_contracted_hours,
			 baby_due_date, maternity_start_date, smp_start_date, expected_return_date,
			 actual_return_date, total_smp, monthly_breakdown_json,
			 average_weekly_earnings, contracted_weekly_earnings, target_weekly_amount,
			 cmp_weeks_entitlement, total_cmp, status,
			 created_by, created_at, last_updated_at,
			 archived_by, archived_at, archive_reason, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.EmployeeID, c.Employee.FullName, c.Employee.Location, string(c.Employee.StaffClass),
			c.Employee.AnnualSalary.String(), c.Employee.HourlyRate.String(), c.Employee.ContractedHours.String(),
			c.BabyDueDate.String(), c.MaternityStartDate.String(), c.SMPStartDate.String(), c.ExpectedReturnDate.String(),
			nullDate(c.ActualReturnDate), c.TotalSMP.String(), breakdownJSON,
			c.AverageWeeklyEarnings.String(), c.ContractedWeeklyEarnings.String(), c.TargetWeeklyAmount.String(),
			c.CMPWeeksEntitlement, c.TotalCMP.String(), string(c.Status),
			c.CreatedBy, c.CreatedAt.UTC().Format(tsLayout), c.LastUpdatedAt.UTC().Format(tsLayout),
			nullString(c.ArchivedBy), nullTime(c.ArchivedAt), nullString(c.ArchiveReason), c.Version,
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return maternity.ErrConcurrentModification
			}
			return fmt.Errorf("failed to insert case: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE maternity_cases SET
				baby_due_date = ?, maternity_start_date = ?, smp_start_date = ?,
				expected_return_date = ?, actual_return_date = ?,
				total_smp = ?, monthly_breakdown_json = ?,
				average_weekly_earnings = ?, contracted_weekly_earnings = ?, target_weekly_amount = ?,
				cmp_weeks_entitlement = ?, total_cmp = ?, status = ?,
				last_updated_at = ?, archived_by = ?, archived_at = ?, archive_reason = ?,
				version = ?
			WHERE id = ? AND version = ?`,
			c.BabyDueDate.String(), c.MaternityStartDate.String(), c.SMPStartDate.String(),
			c.ExpectedReturnDate.String(), nullDate(c.ActualReturnDate),
			c.TotalSMP.String(), breakdownJSON,
			c.AverageWeeklyEarnings.String(), c.ContractedWeeklyEarnings.String(), c.TargetWeeklyAmount.String(),
			c.CMPWeeksEntitlement, c.TotalCMP.String(), string(c.Status),
			c.LastUpdatedAt.UTC().Format(tsLayout), nullString(c.ArchivedBy), nullTime(c.ArchivedAt), nullString(c.ArchiveReason),
			c.Version,
			c.ID, c.Version-1,
		)
		if err != nil {
			return fmt.Errorf("failed to update case: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		if affected == 0 {
			return maternity.ErrConcurrentModification
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM maternity_periods WHERE case_id = ?`, c.ID); err != nil {
		return fmt.Errorf("failed to clear periods: %w", err)
	}
	for i := range c.Periods {
		p := &c.Periods[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO maternity_periods
			(id, case_id, number, period_start, period_end, pay_date, name,
			 smp_amount, company_amount, holiday_accrued,
			 smp_notes, company_notes, holiday_notes, calc_note,
			 entered_by, entered_at, data_complete, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, c.ID, p.Number, p.Start.String(), p.End.String(), p.PayDate.String(), p.Name,
			p.SMPAmount.String(), p.CompanyAmount.String(), p.HolidayAccrued.String(),
			p.SMPNotes, p.CompanyNotes, p.HolidayNotes, p.CalcNote,
			p.EnteredBy, nullTime(p.EnteredAt), boolToInt(p.DataComplete), string(p.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to insert period %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetCase returns one case with its periods in canonical order.
func (s *Store) GetCase(ctx context.Context, id string) (*maternity.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, caseSelect+` WHERE id = ?`, id)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", maternity.ErrCaseNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadPeriods(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCases returns cases ordered by maternity start date.
func (s *Store) ListCases(ctx context.Context, includeArchived bool) ([]*maternity.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := caseSelect
	if !includeArchived {
		query += ` WHERE status != 'archived'`
	}
	query += ` ORDER BY maternity_start_date ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var cases []*maternity.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range cases {
		if err := s.loadPeriods(ctx, c); err != nil {
			return nil, err
		}
	}
	return cases, nil
}

const caseSelect = `
	SELECT id, employee_id, emp_full_name, emp_location, emp_staff_class,
	       emp_annual_salary, emp_hourly_rate, emp_contracted_hours,
	       baby_due_date, maternity_start_date, smp_start_date, expected_return_date,
	       actual_return_date, total_smp, monthly_breakdown_json,
	       average_weekly_earnings, contracted_weekly_earnings, target_weekly_amount,
	       cmp_weeks_entitlement, total_cmp, status,
	       created_by, created_at, last_updated_at,
	       archived_by, archived_at, archive_reason, version
	FROM maternity_cases`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*maternity.Case, error) {
	var (
		c                                           maternity.Case
		staffClass                                  string
		annualSalary, hourlyRate, contractedHours   string
		babyDue, matStart, smpStart, expectedReturn string
		actualReturn, breakdownJSON                 sql.NullString
		totalSMP, awe, cwe, target, totalCMP        string
		status, createdAt, lastUpdatedAt            string
		archivedBy, archivedAt, archiveReason       sql.NullString
	)

	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.Employee.FullName, &c.Employee.Location, &staffClass,
		&annualSalary, &hourlyRate, &contractedHours,
		&babyDue, &matStart, &smpStart, &expectedReturn,
		&actualReturn, &totalSMP, &breakdownJSON,
		&awe, &cwe, &target,
		&c.CMPWeeksEntitlement, &totalCMP, &status,
		&c.CreatedBy, &createdAt, &lastUpdatedAt,
		&archivedBy, &archivedAt, &archiveReason, &c.Version,
	)
	if err != nil {
		return nil, err
	}

	c.Employee.StaffClass = calendar.StaffClass(staffClass)
	c.Employee.AnnualSalary = mustDecimal(annualSalary)
	c.Employee.HourlyRate = mustDecimal(hourlyRate)
	c.Employee.ContractedHours = mustDecimal(contractedHours)

	if c.BabyDueDate, err = calendar.ParseDate(babyDue); err != nil {
		return nil, err
	}
	if c.MaternityStartDate, err = calendar.ParseDate(matStart); err != nil {
		return nil, err
	}
	if c.SMPStartDate, err = calendar.ParseDate(smpStart); err != nil {
		return nil, err
	}
	if c.ExpectedReturnDate, err = calendar.ParseDate(expectedReturn); err != nil {
		return nil, err
	}
	if actualReturn.Valid {
		d, err := calendar.ParseDate(actualReturn.String)
		if err != nil {
			return nil, err
		}
		c.ActualReturnDate = &d
	}

	c.TotalSMP = mustDecimal(totalSMP)
	c.AverageWeeklyEarnings = mustDecimal(awe)
	c.ContractedWeeklyEarnings = mustDecimal(cwe)
	c.TargetWeeklyAmount = mustDecimal(target)
	c.TotalCMP = mustDecimal(totalCMP)
	c.Status = maternity.CaseStatus(status)

	if breakdownJSON.Valid && breakdownJSON.String != "" {
		if err := json.Unmarshal([]byte(breakdownJSON.String), &c.MonthlySMPBreakdown); err != nil {
			return nil, fmt.Errorf("failed to decode monthly breakdown: %w", err)
		}
	}

	if c.CreatedAt, err = time.Parse(tsLayout, createdAt); err != nil {
		return nil, err
	}
	if c.LastUpdatedAt, err = time.Parse(tsLayout, lastUpdatedAt); err != nil {
		return nil, err
	}
	c.ArchivedBy = archivedBy.String
	c.ArchiveReason = archiveReason.String
	if archivedAt.Valid {
		t, err := time.Parse(tsLayout, archivedAt.String)
		if err != nil {
			return nil, err
		}
		c.ArchivedAt = &t
	}

	return &c, nil
}

func (s *Store) loadPeriods(ctx context.Context, c *maternity.Case) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, period_start, period_end, pay_date, name,
		       smp_amount, company_amount, holiday_accrued,
		       smp_notes, company_notes, holiday_notes, calc_note,
		       entered_by, entered_at, data_complete, status
		FROM maternity_periods
		WHERE case_id = ?
		ORDER BY number ASC`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                   maternity.Period
			start, end, payDate string
			smp, cmp, holiday   string
			enteredAt           sql.NullString
			dataComplete        int
			status              string
		)
		err := rows.Scan(
			&p.ID, &p.Number, &start, &end, &payDate, &p.Name,
			&smp, &cmp, &holiday,
			&p.SMPNotes, &p.CompanyNotes, &p.HolidayNotes, &p.CalcNote,
			&p.EnteredBy, &enteredAt, &dataComplete, &status,
		)
		if err != nil {
			return err
		}

		if p.Start, err = calendar.ParseDate(start); err != nil {
			return err
		}
		if p.End, err = calendar.ParseDate(end); err != nil {
			return err
		}
		if p.PayDate, err = calendar.ParseDate(payDate); err != nil {
			return err
		}
		p.SMPAmount = mustDecimal(smp)
		p.CompanyAmount = mustDecimal(cmp)
		p.HolidayAccrued = mustDecimal(holiday)
		if enteredAt.Valid {
			t, err := time.Parse(tsLayout, enteredAt.String)
			if err != nil {
				return err
			}
			p.EnteredAt = &t
		}
		p.DataComplete = dataComplete != 0
		p.Status = maternity.PeriodStatus(status)

		c.Periods = append(c.Periods, p)
	}
	return rows.Err()
}

// =============================================================================
// PAYROLL CALENDAR (calendar.Source interface)
// =============================================================================

// LoadCalendar returns every payroll period. Cutoff dates come back
// exactly as stored: present when present, nil when absent.
func (s *Store) LoadCalendar(ctx context.Context) ([]calendar.PayrollPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT staff_class, period_start, period_end, pay_date, cutoff_date, name
		FROM payroll_periods
		ORDER BY staff_class, period_start ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []calendar.PayrollPeriod
	for rows.Next() {
		var (
			p                      calendar.PayrollPeriod
			class, start, end, pay string
			cutoff                 sql.NullString
		)
		if err := rows.Scan(&class, &start, &end, &pay, &cutoff, &p.Name); err != nil {
			return nil, err
		}
		p.StaffClass = calendar.StaffClass(class)
		if p.Start, err = calendar.ParseDate(start); err != nil {
			return nil, err
		}
		if p.End, err = calendar.ParseDate(end); err != nil {
			return nil, err
		}
		if p.PayDate, err = calendar.ParseDate(pay); err != nil {
			return nil, err
		}
		if cutoff.Valid {
			d, err := calendar.ParseDate(cutoff.String)
			if err != nil {
				return nil, err
			}
			p.CutoffDate = &d
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// ReplaceCalendar atomically swaps the stored payroll calendar.
func (s *Store) ReplaceCalendar(ctx context.Context, periods []calendar.PayrollPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payroll_periods`); err != nil {
		return fmt.Errorf("failed to clear payroll periods: %w", err)
	}
	for _, p := range periods {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payroll_periods
			(staff_class, period_start, period_end, pay_date, cutoff_date, name)
			VALUES (?, ?, ?, ?, ?, ?)`,
			string(p.StaffClass), p.Start.String(), p.End.String(), p.PayDate.String(),
			nullDate(p.CutoffDate), p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payroll period %s: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

// =============================================================================
// EMPLOYEE DIRECTORY (employee.Directory interface)
// =============================================================================

func (s *Store) LookupByNumber(ctx context.Context, employeeID string) (employee.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec                          employee.Record
		payType, salary, rate, hours string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, location, pay_type, annual_salary, hourly_rate, contracted_hours
		FROM employees WHERE id = ?`, employeeID).
		Scan(&rec.EmployeeID, &rec.FullName, &rec.Location, &payType, &salary, &rate, &hours)
	if errors.Is(err, sql.ErrNoRows) {
		return employee.Record{}, employee.ErrEmployeeNotFound
	}
	if err != nil {
		return employee.Record{}, fmt.Errorf("failed to look up employee: %w", err)
	}

	rec.PayType = employee.PayType(payType)
	rec.AnnualSalary = mustDecimal(salary)
	rec.HourlyRate = mustDecimal(rate)
	rec.ContractedHours = mustDecimal(hours)
	return rec, nil
}

// SaveEmployee upserts a directory record.
func (s *Store) SaveEmployee(ctx context.Context, rec employee.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, full_name, location, pay_type, annual_salary, hourly_rate, contracted_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			location = excluded.location,
			pay_type = excluded.pay_type,
			annual_salary = excluded.annual_salary,
			hourly_rate = excluded.hourly_rate,
			contracted_hours = excluded.contracted_hours`,
		rec.EmployeeID, rec.FullName, rec.Location, string(rec.PayType),
		rec.AnnualSalary.String(), rec.HourlyRate.String(), rec.ContractedHours.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func marshalBreakdown(breakdown map[string]decimal.Decimal) (sql.NullString, error) {
	if len(breakdown) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(breakdown)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode monthly breakdown: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func mustDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d *calendar.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(tsLayout), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
