package maternity_test

import (
	"testing"

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

func dashboardCase(id, matStart, expectedReturn string) *maternity.Case {
	return &maternity.Case{
		ID:                 id,
		EmployeeID:         "E-" + id,
		Employee:           employee.Snapshot{FullName: "Employee " + id, Location: "Leeds"},
		MaternityStartDate: calendar.MustDate(matStart),
		SMPStartDate:       calendar.MustDate(matStart),
		ExpectedReturnDate: calendar.MustDate(expectedReturn),
		Status:             maternity.CaseActive,
	}
}

// =============================================================================
// STATUS BUCKETS
// =============================================================================

func TestBucketFor(t *testing.T) {
	asOf := calendar.MustDate("2025-06-01")

	t.Run("upcoming before leave starts", func(t *testing.T) {
		c := dashboardCase("c1", "2025-07-01", "2026-03-01")
		assert.Equal(t, maternity.BucketUpcoming, maternity.BucketFor(c, asOf))
	})

	t.Run("on-leave mid leave", func(t *testing.T) {
		c := dashboardCase("c2", "2025-04-01", "2026-01-15")
		assert.Equal(t, maternity.BucketOnLeave, maternity.BucketFor(c, asOf))
	})

	t.Run("returning within 30 days of expected return", func(t *testing.T) {
		c := dashboardCase("c3", "2024-10-01", "2025-06-20")
		assert.Equal(t, maternity.BucketReturning, maternity.BucketFor(c, asOf))
	})

	t.Run("overdue past expected return with no actual", func(t *testing.T) {
		c := dashboardCase("c4", "2024-08-01", "2025-05-01")
		assert.Equal(t, maternity.BucketOverdue, maternity.BucketFor(c, asOf))
	})

	t.Run("returned once actual return passes", func(t *testing.T) {
		c := dashboardCase("c5", "2024-08-01", "2025-05-01")
		actual := calendar.MustDate("2025-05-10")
		c.ActualReturnDate = &actual
		assert.Equal(t, maternity.BucketReturned, maternity.BucketFor(c, asOf))
	})

	t.Run("future actual return is not yet returned", func(t *testing.T) {
		c := dashboardCase("c6", "2025-04-01", "2025-09-01")
		actual := calendar.MustDate("2025-08-15")
		c.ActualReturnDate = &actual
		assert.NotEqual(t, maternity.BucketReturned, maternity.BucketFor(c, asOf))
	})
}

// =============================================================================
// REMAINING PAY
// =============================================================================

func TestRemainingPay_CountsFuturePayDates(t *testing.T) {
	// GIVEN: Two paid periods, one already paid and one upcoming
	// WHEN: Computing remaining pay as of a date between the pay dates
	// THEN: Only the upcoming period counts; the pay-date day itself
	//       still counts as unpaid

	c := dashboardCase("c1", "2025-04-01", "2025-09-01")
	c.Periods = []maternity.Period{
		{
			Number: 1, PayDate: calendar.MustDate("2025-04-25"),
			SMPAmount:     decimal.RequireFromString("1200.00"),
			CompanyAmount: decimal.RequireFromString("300.00"),
		},
		{
			Number: 2, PayDate: calendar.MustDate("2025-05-23"),
			SMPAmount:     decimal.RequireFromString("1200.00"),
			CompanyAmount: decimal.RequireFromString("300.00"),
		},
	}

	smp, cmp := maternity.RemainingPay(c, calendar.MustDate("2025-05-01"))
	assert.Equal(t, "1200.00", smp.StringFixed(2))
	assert.Equal(t, "300.00", cmp.StringFixed(2))

	smp, cmp = maternity.RemainingPay(c, calendar.MustDate("2025-05-23"))
	assert.Equal(t, "1200.00", smp.StringFixed(2), "pay date itself counts as remaining")

	smp, cmp = maternity.RemainingPay(c, calendar.MustDate("2025-06-01"))
	assert.True(t, smp.IsZero())
	assert.True(t, cmp.IsZero())
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestBuildDashboard(t *testing.T) {
	// GIVEN: Cases across buckets plus an archived one
	// WHEN: Building the dashboard
	// THEN: Counts and totals cover active cases only, sorted by start

	asOf := calendar.MustDate("2025-06-01")

	onLeave := dashboardCase("c1", "2025-04-01", "2026-01-15")
	onLeave.Periods = []maternity.Period{{
		Number: 1, PayDate: calendar.MustDate("2025-07-25"),
		SMPAmount:     decimal.RequireFromString("1200.00"),
		CompanyAmount: decimal.RequireFromString("450.00"),
	}}
	upcoming := dashboardCase("c2", "2025-08-01", "2026-05-01")
	archived := dashboardCase("c3", "2025-01-01", "2025-12-01")
	archived.Status = maternity.CaseArchived

	d := maternity.BuildDashboard([]*maternity.Case{upcoming, onLeave, archived}, asOf)

	require.Len(t, d.Cases, 2)
	assert.Equal(t, "c1", d.Cases[0].CaseID, "sorted by maternity start")
	assert.Equal(t, "c2", d.Cases[1].CaseID)
	assert.Equal(t, 1, d.Counts[maternity.BucketOnLeave])
	assert.Equal(t, 1, d.Counts[maternity.BucketUpcoming])
	assert.Equal(t, "1200.00", d.TotalRemainingSMP.StringFixed(2))
	assert.Equal(t, "450.00", d.TotalRemainingCMP.StringFixed(2))
}

// =============================================================================
// MONTH GROUPING
// =============================================================================

func TestGroupPeriodsByMonth(t *testing.T) {
	// GIVEN: Two periods starting in April and one in May
	// WHEN: Grouping by month
	// THEN: Groups preserve period order and subtotal per month

	c := dashboardCase("c1", "2025-04-01", "2025-09-01")
	c.Periods = []maternity.Period{
		{
			Number: 1, Start: calendar.MustDate("2025-04-01"), End: calendar.MustDate("2025-04-15"),
			SMPAmount: decimal.RequireFromString("600.00"), CompanyAmount: decimal.RequireFromString("100.00"),
		},
		{
			Number: 2, Start: calendar.MustDate("2025-04-16"), End: calendar.MustDate("2025-04-30"),
			SMPAmount: decimal.RequireFromString("600.00"), CompanyAmount: decimal.RequireFromString("150.00"),
		},
		{
			Number: 3, Start: calendar.MustDate("2025-05-01"), End: calendar.MustDate("2025-05-31"),
			SMPAmount: decimal.RequireFromString("1200.00"), CompanyAmount: decimal.RequireFromString("300.00"),
		},
	}

	groups := maternity.GroupPeriodsByMonth(c)
	require.Len(t, groups, 2)

	assert.Equal(t, "2025-04", groups[0].Month)
	assert.Len(t, groups[0].Periods, 2)
	assert.Equal(t, "1200.00", groups[0].SMPTotal.StringFixed(2))
	assert.Equal(t, "250.00", groups[0].CMPTotal.StringFixed(2))

	assert.Equal(t, "2025-05", groups[1].Month)
	assert.Equal(t, "300.00", groups[1].CMPTotal.StringFixed(2))
}
