package maternity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/employee"
	"github.com/warp/maternity-engine/maternity"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func monthlyCalendar(months int) *calendar.Calendar {
	var periods []calendar.PayrollPeriod
	start := calendar.MustDate("2025-04-01")
	for i := 0; i < months; i++ {
		end := start.AddMonths(1).AddDays(-1)
		periods = append(periods, calendar.PayrollPeriod{
			StaffClass: calendar.StaffSalaried,
			Start:      start,
			End:        end,
			PayDate:    calendar.NewDate(start.Year(), start.Month(), 25),
			Name:       start.Month().String(),
		})
		start = end.AddDays(1)
	}
	return calendar.New(periods, nil)
}

func leaveCase(smpStart, matStart, expectedReturn string) *maternity.Case {
	return &maternity.Case{
		ID:                 "case-1",
		EmployeeID:         "E100",
		Employee:           employee.Snapshot{StaffClass: calendar.StaffSalaried},
		SMPStartDate:       calendar.MustDate(smpStart),
		MaternityStartDate: calendar.MustDate(matStart),
		ExpectedReturnDate: calendar.MustDate(expectedReturn),
	}
}

// =============================================================================
// CALENDAR-ALIGNED GENERATION
// =============================================================================

func TestGeneratePeriods_WalksFromSMPStart(t *testing.T) {
	// GIVEN: A 12-month calendar, leave starting mid-April with SMP
	//        from 15 April, returning mid-July
	// WHEN: Generating periods
	// THEN: Periods run April..July (July contains the return date),
	//       numbered from 1, pending, with calendar pay dates

	c := leaveCase("2025-04-15", "2025-04-10", "2025-07-10")
	periods, fallback, err := maternity.GeneratePeriods(c, monthlyCalendar(12))
	require.NoError(t, err)
	assert.False(t, fallback)

	require.Len(t, periods, 4)
	assert.Equal(t, "April", periods[0].Name)
	assert.Equal(t, "July", periods[3].Name)
	for i, p := range periods {
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, "case-1_P"+string(rune('1'+i)), p.ID)
		assert.Equal(t, maternity.PeriodPending, p.Status)
		assert.True(t, p.SMPAmount.IsZero())
	}
}

func TestGeneratePeriods_StopsAtEffectiveEnd(t *testing.T) {
	// GIVEN: An actual return date earlier than the expected return
	// WHEN: Generating periods
	// THEN: The walk is bounded by the actual return

	c := leaveCase("2025-04-15", "2025-04-10", "2025-12-31")
	actual := calendar.MustDate("2025-06-10")
	c.ActualReturnDate = &actual

	periods, _, err := maternity.GeneratePeriods(c, monthlyCalendar(12))
	require.NoError(t, err)
	require.Len(t, periods, 3)
	assert.Equal(t, "June", periods[2].Name)
}

func TestGeneratePeriods_DegenerateDatesStillYieldOnePeriod(t *testing.T) {
	// GIVEN: An expected return before the SMP start (bad data)
	// WHEN: Generating periods
	// THEN: The resolved period is still emitted alone

	c := leaveCase("2025-06-15", "2025-06-01", "2025-05-01")
	periods, fallback, err := maternity.GeneratePeriods(c, monthlyCalendar(12))
	require.NoError(t, err)
	assert.False(t, fallback)
	require.Len(t, periods, 1)
	assert.Equal(t, "June", periods[0].Name)
}

// =============================================================================
// SYNTHETIC FALLBACK
// =============================================================================

func TestGeneratePeriods_FallbackWhenCalendarCannotResolve(t *testing.T) {
	// GIVEN: A calendar that does not cover the SMP start date
	// WHEN: Generating periods
	// THEN: Synthetic monthly periods run from the MATERNITY start,
	//       each paying on the 28th

	c := leaveCase("2026-06-15", "2026-06-10", "2026-09-20")
	periods, fallback, err := maternity.GeneratePeriods(c, monthlyCalendar(3))
	require.NoError(t, err)
	assert.True(t, fallback)

	require.Len(t, periods, 4)
	assert.Equal(t, "2026-06-10", periods[0].Start.String())
	assert.Equal(t, "2026-07-09", periods[0].End.String())
	assert.Equal(t, "2026-06-28", periods[0].PayDate.String())
	assert.Equal(t, "June 2026", periods[0].Name)
	assert.Equal(t, "2026-07-10", periods[1].Start.String())

	last := periods[len(periods)-1]
	assert.True(t, last.End.AfterOrEqual(c.ExpectedReturnDate))
}

func TestGeneratePeriods_FallbackCapped(t *testing.T) {
	// GIVEN: A far-future return date that would need dozens of months
	// WHEN: Generating synthetic periods
	// THEN: Generation stops at the cap instead of running away

	c := leaveCase("2026-06-15", "2026-06-10", "2040-01-01")
	periods, fallback, err := maternity.GeneratePeriods(c, monthlyCalendar(3))
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Len(t, periods, maternity.MaxSyntheticPeriods)
}

// =============================================================================
// MONTHLY BREAKDOWN SEEDING
// =============================================================================

func TestApplyMonthlyBreakdown_SeedsMatchingPeriods(t *testing.T) {
	// GIVEN: Periods for April..June and a breakdown for April and May
	// WHEN: Applying the breakdown
	// THEN: Matching periods get their SMP, stamped with the actor;
	//       June stays untouched

	c := leaveCase("2025-04-01", "2025-04-01", "2025-06-15")
	var err error
	c.Periods, _, err = maternity.GeneratePeriods(c, monthlyCalendar(12))
	require.NoError(t, err)
	require.Len(t, c.Periods, 3)

	c.MonthlySMPBreakdown = map[string]decimal.Decimal{
		"2025-04": decimal.RequireFromString("1200.00"),
		"2025-05": decimal.RequireFromString("1500.00"),
	}

	at := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	warnings := maternity.ApplyMonthlyBreakdown(c, "payroll", at)
	assert.Empty(t, warnings)

	assert.Equal(t, "1200.00", c.Periods[0].SMPAmount.StringFixed(2))
	assert.Equal(t, "payroll", c.Periods[0].EnteredBy)
	require.NotNil(t, c.Periods[0].EnteredAt)
	assert.True(t, c.Periods[0].EnteredAt.Equal(at))
	assert.True(t, c.Periods[0].DataComplete)
	assert.Equal(t, maternity.PeriodAmountsEntered, c.Periods[0].Status)

	assert.Equal(t, "1500.00", c.Periods[1].SMPAmount.StringFixed(2))
	assert.True(t, c.Periods[2].SMPAmount.IsZero())
	assert.Equal(t, maternity.PeriodPending, c.Periods[2].Status)
}

func TestApplyMonthlyBreakdown_WarnsOnUnmatchedMonths(t *testing.T) {
	// GIVEN: A breakdown containing months outside the generated range
	// WHEN: Applying the breakdown
	// THEN: Each stray month produces a warning, sorted for stable output

	c := leaveCase("2025-04-01", "2025-04-01", "2025-04-20")
	var err error
	c.Periods, _, err = maternity.GeneratePeriods(c, monthlyCalendar(12))
	require.NoError(t, err)

	c.MonthlySMPBreakdown = map[string]decimal.Decimal{
		"2025-04": decimal.RequireFromString("1200.00"),
		"2025-09": decimal.RequireFromString("800.00"),
		"2025-08": decimal.RequireFromString("900.00"),
	}

	warnings := maternity.ApplyMonthlyBreakdown(c, "payroll", time.Now().UTC())
	require.Len(t, warnings, 2)
	assert.Equal(t, maternity.WarnBreakdownUnmatched, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "2025-08")
	assert.Contains(t, warnings[1].Message, "2025-09")
}

func TestApplyMonthlyBreakdown_EmptyBreakdownIsNoop(t *testing.T) {
	c := leaveCase("2025-04-01", "2025-04-01", "2025-04-20")
	var err error
	c.Periods, _, err = maternity.GeneratePeriods(c, monthlyCalendar(12))
	require.NoError(t, err)

	assert.Nil(t, maternity.ApplyMonthlyBreakdown(c, "payroll", time.Now().UTC()))
	assert.True(t, c.Periods[0].SMPAmount.IsZero())
}
