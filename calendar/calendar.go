/*
Package calendar models the employer's payroll calendar and resolves
dates into payroll periods.

PURPOSE:
  The payroll calendar is externally supplied, read-only data: a list
  of payroll periods per staff classification. The two classifications
  use different matching rules:

    Salaried: a date belongs to the period where
              periodStart <= date <= periodEnd
    Hourly:   a date belongs to the period where
              cutoffDate < date <= periodEnd

  The Hourly lower bound is strictly exclusive on purpose: a date equal
  to the cutoff has already been swept into the PREVIOUS pay run.

DATA QUALITY:
  Hourly periods missing a cutoff date can never match. The resolver
  skips them and logs a warning rather than guessing. Resolution
  failure is non-fatal; callers fall back to synthetic monthly periods
  (see the maternity package).

SEE ALSO:
  - selfcheck.go: Calendar completeness reporting
  - date.go: Day-granularity Date type
*/
package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// =============================================================================
// STAFF CLASSIFICATION
// =============================================================================

type StaffClass string

const (
	StaffSalaried StaffClass = "salaried"
	StaffHourly   StaffClass = "hourly"
)

func (c StaffClass) Valid() bool {
	return c == StaffSalaried || c == StaffHourly
}

// ParseStaffClass normalizes external spellings ("Salaried", "hourly").
func ParseStaffClass(s string) (StaffClass, error) {
	switch s {
	case "salaried", "Salaried", "salary", "Salary":
		return StaffSalaried, nil
	case "hourly", "Hourly":
		return StaffHourly, nil
	}
	return "", fmt.Errorf("unknown staff class %q", s)
}

// =============================================================================
// PAYROLL PERIOD
// =============================================================================

// PayrollPeriod is one entry of the employer's payroll calendar.
// Periods for a given staff class are non-overlapping and ordered by
// Start. CutoffDate is only meaningful for Hourly periods and may be
// absent; it must be preserved verbatim end-to-end by any loader.
type PayrollPeriod struct {
	StaffClass StaffClass
	Start      Date
	End        Date
	PayDate    Date
	CutoffDate *Date
	Name       string
}

// Contains reports whether d falls in [Start, End].
func (p PayrollPeriod) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Source supplies the payroll calendar. Implemented by store/sqlite.
type Source interface {
	LoadCalendar(ctx context.Context) ([]PayrollPeriod, error)
}

// =============================================================================
// CALENDAR - Sorted, class-partitioned view plus resolution
// =============================================================================

// ErrNoMatchingPeriod is returned when no payroll period matches a
// date. Non-fatal: the caller decides fallback behavior.
var ErrNoMatchingPeriod = errors.New("no payroll period matches date")

type Calendar struct {
	byClass map[StaffClass][]PayrollPeriod
	log     *zap.Logger
}

// New builds a calendar from an unsorted period list. The input slice
// is not retained.
func New(periods []PayrollPeriod, log *zap.Logger) *Calendar {
	if log == nil {
		log = zap.NewNop()
	}
	byClass := make(map[StaffClass][]PayrollPeriod)
	for _, p := range periods {
		byClass[p.StaffClass] = append(byClass[p.StaffClass], p)
	}
	for class := range byClass {
		sort.Slice(byClass[class], func(i, j int) bool {
			return byClass[class][i].Start.Before(byClass[class][j].Start)
		})
	}
	return &Calendar{byClass: byClass, log: log}
}

// Periods returns the sorted periods for a staff class.
func (c *Calendar) Periods(class StaffClass) []PayrollPeriod {
	return c.byClass[class]
}

// Resolve returns the payroll period the date falls into under the
// staff class's matching rule, or ErrNoMatchingPeriod.
func (c *Calendar) Resolve(date Date, class StaffClass) (PayrollPeriod, error) {
	for _, p := range c.byClass[class] {
		switch class {
		case StaffSalaried:
			if p.Contains(date) {
				return p, nil
			}
		case StaffHourly:
			if p.CutoffDate == nil {
				// Cannot match without a cutoff. Guessing here would
				// silently shift pay into the wrong run.
				c.log.Warn("hourly payroll period missing cutoff date",
					zap.String("period", p.Name),
					zap.String("period_start", p.Start.String()))
				continue
			}
			if date.After(*p.CutoffDate) && date.BeforeOrEqual(p.End) {
				return p, nil
			}
		}
	}
	return PayrollPeriod{}, fmt.Errorf("%w: %s (%s)", ErrNoMatchingPeriod, date, class)
}

// From returns the sorted periods of a class starting at the period
// whose Start equals from.Start. Used by the period generator to walk
// forward from a resolved period.
func (c *Calendar) From(from PayrollPeriod) []PayrollPeriod {
	periods := c.byClass[from.StaffClass]
	i := sort.Search(len(periods), func(i int) bool {
		return periods[i].Start.AfterOrEqual(from.Start)
	})
	return periods[i:]
}
