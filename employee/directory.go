/*
Package employee defines the employee directory collaborator and the
denormalized snapshot stored on each maternity case.

SNAPSHOT RULE:
  The snapshot is captured once, at case creation, and never refreshed.
  Historical maternity calculations must not shift when an employee's
  salary changes months later. Treat Snapshot as immutable.
*/
package employee

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
)

// ErrEmployeeNotFound is returned when the directory has no record for
// an employee number.
var ErrEmployeeNotFound = errors.New("employee not found")

// =============================================================================
// DIRECTORY - External master-data lookup
// =============================================================================

type PayType string

const (
	PaySalary PayType = "salary"
	PayHourly PayType = "hourly"
)

// Record is the directory's view of an employee.
type Record struct {
	EmployeeID      string
	FullName        string
	Location        string
	PayType         PayType
	AnnualSalary    decimal.Decimal // salary staff
	HourlyRate      decimal.Decimal // hourly staff
	ContractedHours decimal.Decimal // hourly staff; zero for zero-hours contracts
}

// Directory looks up employee master data. Implemented by store/sqlite
// in this service; a real deployment may proxy an external HR system.
type Directory interface {
	LookupByNumber(ctx context.Context, employeeID string) (Record, error)
}

// StaticDirectory is a map-backed Directory for tests and seeding.
type StaticDirectory map[string]Record

func (d StaticDirectory) LookupByNumber(_ context.Context, employeeID string) (Record, error) {
	rec, ok := d[employeeID]
	if !ok {
		return Record{}, ErrEmployeeNotFound
	}
	return rec, nil
}

// =============================================================================
// SNAPSHOT - Denormalized capture frozen at case creation
// =============================================================================

type Snapshot struct {
	FullName        string              `json:"full_name"`
	Location        string              `json:"location"`
	StaffClass      calendar.StaffClass `json:"staff_class"`
	AnnualSalary    decimal.Decimal     `json:"annual_salary"`
	HourlyRate      decimal.Decimal     `json:"hourly_rate"`
	ContractedHours decimal.Decimal     `json:"contracted_hours"`
}

// SnapshotOf freezes a directory record into a case snapshot.
func SnapshotOf(rec Record) Snapshot {
	class := calendar.StaffSalaried
	if rec.PayType == PayHourly {
		class = calendar.StaffHourly
	}
	return Snapshot{
		FullName:        rec.FullName,
		Location:        rec.Location,
		StaffClass:      class,
		AnnualSalary:    rec.AnnualSalary,
		HourlyRate:      rec.HourlyRate,
		ContractedHours: rec.ContractedHours,
	}
}

var weeksPerYear = decimal.NewFromInt(52)

// ContractedWeeklyEarnings derives the contractual weekly figure from
// the snapshot. Salaried: annual / 52. Hourly: rate * contracted hours
// (zero-hours contracts legitimately yield zero).
func (s Snapshot) ContractedWeeklyEarnings() decimal.Decimal {
	switch s.StaffClass {
	case calendar.StaffHourly:
		return s.HourlyRate.Mul(s.ContractedHours).Round(2)
	default:
		if s.AnnualSalary.IsZero() {
			return decimal.Zero
		}
		return s.AnnualSalary.Div(weeksPerYear).Round(2)
	}
}
