package calendar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maternity-engine/calendar"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func salariedPeriod(start, end, pay, name string) calendar.PayrollPeriod {
	return calendar.PayrollPeriod{
		StaffClass: calendar.StaffSalaried,
		Start:      calendar.MustDate(start),
		End:        calendar.MustDate(end),
		PayDate:    calendar.MustDate(pay),
		Name:       name,
	}
}

func hourlyPeriod(start, end, pay, cutoff, name string) calendar.PayrollPeriod {
	p := calendar.PayrollPeriod{
		StaffClass: calendar.StaffHourly,
		Start:      calendar.MustDate(start),
		End:        calendar.MustDate(end),
		PayDate:    calendar.MustDate(pay),
		Name:       name,
	}
	if cutoff != "" {
		c := calendar.MustDate(cutoff)
		p.CutoffDate = &c
	}
	return p
}

// =============================================================================
// SALARIED RESOLUTION - periodStart <= date <= periodEnd
// =============================================================================

func TestResolve_Salaried_DateInsidePeriod(t *testing.T) {
	// GIVEN: A salaried calendar with April and May periods
	// WHEN: Resolving a date in the middle of April
	// THEN: The April period is returned

	cal := calendar.New([]calendar.PayrollPeriod{
		salariedPeriod("2025-04-01", "2025-04-30", "2025-04-25", "April 2025"),
		salariedPeriod("2025-05-01", "2025-05-31", "2025-05-23", "May 2025"),
	}, nil)

	p, err := cal.Resolve(calendar.MustDate("2025-04-15"), calendar.StaffSalaried)
	require.NoError(t, err)
	assert.Equal(t, "April 2025", p.Name)
}

func TestResolve_Salaried_BoundariesInclusive(t *testing.T) {
	// GIVEN: A salaried period covering all of April
	// WHEN: Resolving the first and last day of the period
	// THEN: Both resolve to that period

	cal := calendar.New([]calendar.PayrollPeriod{
		salariedPeriod("2025-04-01", "2025-04-30", "2025-04-25", "April 2025"),
	}, nil)

	first, err := cal.Resolve(calendar.MustDate("2025-04-01"), calendar.StaffSalaried)
	require.NoError(t, err)
	assert.Equal(t, "April 2025", first.Name)

	last, err := cal.Resolve(calendar.MustDate("2025-04-30"), calendar.StaffSalaried)
	require.NoError(t, err)
	assert.Equal(t, "April 2025", last.Name)
}

func TestResolve_Salaried_NoMatch(t *testing.T) {
	// GIVEN: A calendar covering only April
	// WHEN: Resolving a date in June
	// THEN: ErrNoMatchingPeriod is returned

	cal := calendar.New([]calendar.PayrollPeriod{
		salariedPeriod("2025-04-01", "2025-04-30", "2025-04-25", "April 2025"),
	}, nil)

	_, err := cal.Resolve(calendar.MustDate("2025-06-15"), calendar.StaffSalaried)
	assert.ErrorIs(t, err, calendar.ErrNoMatchingPeriod)
}

// =============================================================================
// HOURLY RESOLUTION - cutoff < date <= periodEnd
// =============================================================================

func TestResolve_Hourly_CutoffWindow(t *testing.T) {
	// GIVEN: An hourly period ending 19 Apr with cutoff 20 Mar
	// WHEN: Resolving 24 Mar (after cutoff, before end)
	// THEN: The period matches

	cal := calendar.New([]calendar.PayrollPeriod{
		hourlyPeriod("2025-03-20", "2025-04-19", "2025-04-25", "2025-03-20", "April hourly"),
	}, nil)

	p, err := cal.Resolve(calendar.MustDate("2025-03-24"), calendar.StaffHourly)
	require.NoError(t, err)
	assert.Equal(t, "April hourly", p.Name)
}

func TestResolve_Hourly_CutoffDayExcluded(t *testing.T) {
	// GIVEN: An hourly period with cutoff 20 Mar
	// WHEN: Resolving exactly 20 Mar
	// THEN: The period does NOT match; that date already belongs to the
	//       previous pay run

	cal := calendar.New([]calendar.PayrollPeriod{
		hourlyPeriod("2025-03-20", "2025-04-19", "2025-04-25", "2025-03-20", "April hourly"),
	}, nil)

	_, err := cal.Resolve(calendar.MustDate("2025-03-20"), calendar.StaffHourly)
	assert.ErrorIs(t, err, calendar.ErrNoMatchingPeriod)
}

func TestResolve_Hourly_PeriodEndInclusive(t *testing.T) {
	// GIVEN: An hourly period ending 19 Apr
	// WHEN: Resolving exactly 19 Apr
	// THEN: The period matches (upper bound inclusive)

	cal := calendar.New([]calendar.PayrollPeriod{
		hourlyPeriod("2025-03-20", "2025-04-19", "2025-04-25", "2025-03-20", "April hourly"),
	}, nil)

	p, err := cal.Resolve(calendar.MustDate("2025-04-19"), calendar.StaffHourly)
	require.NoError(t, err)
	assert.Equal(t, "April hourly", p.Name)
}

func TestResolve_Hourly_MissingCutoffSkipped(t *testing.T) {
	// GIVEN: Two hourly periods, the first without a cutoff date
	// WHEN: Resolving a date that would fall in the first period
	// THEN: The cutoff-less period is skipped; the date resolves only
	//       if another period matches

	cal := calendar.New([]calendar.PayrollPeriod{
		hourlyPeriod("2025-03-20", "2025-04-19", "2025-04-25", "", "broken"),
		hourlyPeriod("2025-04-20", "2025-05-19", "2025-05-23", "2025-04-19", "May hourly"),
	}, nil)

	_, err := cal.Resolve(calendar.MustDate("2025-04-10"), calendar.StaffHourly)
	assert.ErrorIs(t, err, calendar.ErrNoMatchingPeriod, "cutoff-less period must never match")

	p, err := cal.Resolve(calendar.MustDate("2025-04-25"), calendar.StaffHourly)
	require.NoError(t, err)
	assert.Equal(t, "May hourly", p.Name)
}

func TestResolve_ClassesAreIndependent(t *testing.T) {
	// GIVEN: Overlapping salaried and hourly periods
	// WHEN: Resolving the same date under each class
	// THEN: Each class resolves only against its own periods

	cal := calendar.New([]calendar.PayrollPeriod{
		salariedPeriod("2025-04-01", "2025-04-30", "2025-04-25", "April salaried"),
		hourlyPeriod("2025-03-20", "2025-04-19", "2025-04-25", "2025-03-19", "April hourly"),
	}, nil)

	s, err := cal.Resolve(calendar.MustDate("2025-04-10"), calendar.StaffSalaried)
	require.NoError(t, err)
	assert.Equal(t, "April salaried", s.Name)

	h, err := cal.Resolve(calendar.MustDate("2025-04-10"), calendar.StaffHourly)
	require.NoError(t, err)
	assert.Equal(t, "April hourly", h.Name)
}

// =============================================================================
// FORWARD WALK
// =============================================================================

func TestFrom_WalksForwardInOrder(t *testing.T) {
	// GIVEN: Three salaried periods supplied out of order
	// WHEN: Walking forward from the middle period
	// THEN: The walk yields the middle and later periods, sorted

	cal := calendar.New([]calendar.PayrollPeriod{
		salariedPeriod("2025-06-01", "2025-06-30", "2025-06-27", "June 2025"),
		salariedPeriod("2025-04-01", "2025-04-30", "2025-04-25", "April 2025"),
		salariedPeriod("2025-05-01", "2025-05-31", "2025-05-23", "May 2025"),
	}, nil)

	resolved, err := cal.Resolve(calendar.MustDate("2025-05-10"), calendar.StaffSalaried)
	require.NoError(t, err)

	walk := cal.From(resolved)
	require.Len(t, walk, 2)
	assert.Equal(t, "May 2025", walk[0].Name)
	assert.Equal(t, "June 2025", walk[1].Name)
}

// =============================================================================
// STAFF CLASS PARSING
// =============================================================================

func TestParseStaffClass(t *testing.T) {
	for _, raw := range []string{"salaried", "Salaried", "salary", "Salary"} {
		c, err := calendar.ParseStaffClass(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, calendar.StaffSalaried, c)
	}
	for _, raw := range []string{"hourly", "Hourly"} {
		c, err := calendar.ParseStaffClass(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, calendar.StaffHourly, c)
	}

	_, err := calendar.ParseStaffClass("contractor")
	assert.Error(t, err)
}
