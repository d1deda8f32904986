/*
validation.go - Input types and the validation layer

PURPOSE:
  All mutation inputs are validated here before any state changes.
  Struct-tag validation (go-playground/validator) covers presence of
  the string fields; the checks the tag language cannot express —
  date ordering, decimal bounds, breakdown reconciliation — are done
  by hand and collected into a single ValidationError so the caller
  sees every problem at once, not just the first.
*/
package maternity

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
)

// MaxCMPWeeks bounds the entitlement input. A year of company top-up
// is already far beyond any policy this engine has seen.
const MaxCMPWeeks = 52

var validate = validator.New()

// =============================================================================
// INPUTS
// =============================================================================

// CreateCaseInput carries everything needed to open a case.
type CreateCaseInput struct {
	EmployeeID string `validate:"required"`

	BabyDueDate        calendar.Date
	MaternityStartDate calendar.Date
	SMPStartDate       calendar.Date
	ExpectedReturnDate calendar.Date

	TotalSMP              decimal.Decimal
	MonthlySMPBreakdown   map[string]decimal.Decimal
	AverageWeeklyEarnings decimal.Decimal

	// 0 means "use the default" (8 weeks).
	CMPWeeksEntitlement int
}

// UpdateCaseInput is a partial update; nil fields are left unchanged.
// A non-nil MonthlySMPBreakdown replaces the existing breakdown.
type UpdateCaseInput struct {
	BabyDueDate        *calendar.Date
	MaternityStartDate *calendar.Date
	SMPStartDate       *calendar.Date
	ExpectedReturnDate *calendar.Date

	TotalSMP              *decimal.Decimal
	MonthlySMPBreakdown   map[string]decimal.Decimal
	AverageWeeklyEarnings *decimal.Decimal
	CMPWeeksEntitlement   *int
}

// UpdatePeriodAmountsInput is a per-field period edit; nil fields are
// left unchanged.
type UpdatePeriodAmountsInput struct {
	SMPAmount      *decimal.Decimal
	CompanyAmount  *decimal.Decimal
	HolidayAccrued *decimal.Decimal

	SMPNotes     *string
	CompanyNotes *string
	HolidayNotes *string
}

// =============================================================================
// VALIDATION
// =============================================================================

func validateCreate(in CreateCaseInput) error {
	var msgs []string

	if err := validate.Struct(in); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			msgs = append(msgs, "employee id is required")
		} else {
			return err
		}
	}

	for _, d := range []struct {
		name string
		date calendar.Date
	}{
		{"baby due date", in.BabyDueDate},
		{"maternity start date", in.MaternityStartDate},
		{"SMP start date", in.SMPStartDate},
		{"expected return date", in.ExpectedReturnDate},
	} {
		if d.date.IsZero() {
			msgs = append(msgs, d.name+" is required")
		}
	}

	if !in.MaternityStartDate.IsZero() && !in.ExpectedReturnDate.IsZero() &&
		!in.MaternityStartDate.Before(in.ExpectedReturnDate) {
		msgs = append(msgs, "maternity start date must be before expected return date")
	}

	if !in.TotalSMP.IsPositive() {
		msgs = append(msgs, "total SMP is required and must be positive")
	}
	if !in.AverageWeeklyEarnings.IsPositive() {
		msgs = append(msgs, "average weekly earnings is required and must be positive")
	}

	msgs = append(msgs, validateEntitlement(in.CMPWeeksEntitlement)...)
	msgs = append(msgs, validateBreakdown(in.MonthlySMPBreakdown, in.TotalSMP)...)

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// validateMergedCase re-checks invariants after a partial update has
// been merged onto the stored case.
func validateMergedCase(c *Case) error {
	var msgs []string

	if !c.MaternityStartDate.Before(c.ExpectedReturnDate) {
		msgs = append(msgs, "maternity start date must be before expected return date")
	}
	if c.TotalSMP.IsNegative() {
		msgs = append(msgs, "total SMP must not be negative")
	}
	if c.AverageWeeklyEarnings.IsNegative() {
		msgs = append(msgs, "average weekly earnings must not be negative")
	}

	msgs = append(msgs, validateEntitlement(c.CMPWeeksEntitlement)...)
	msgs = append(msgs, validateBreakdown(c.MonthlySMPBreakdown, c.TotalSMP)...)

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

func validateEntitlement(weeks int) []string {
	if weeks < 0 || weeks > MaxCMPWeeks {
		return []string{fmt.Sprintf("CMP weeks entitlement must be between 0 and %d", MaxCMPWeeks)}
	}
	return nil
}

// validateBreakdown checks the optional monthly breakdown: keys must
// be YYYY-MM, amounts non-negative, and the total must reconcile with
// the declared total SMP (after 2 dp rounding).
func validateBreakdown(breakdown map[string]decimal.Decimal, totalSMP decimal.Decimal) []string {
	if len(breakdown) == 0 {
		return nil
	}

	var msgs []string
	sum := decimal.Zero
	for month, amount := range breakdown {
		if _, err := calendar.ParseDate(month + "-01"); err != nil {
			msgs = append(msgs, fmt.Sprintf("monthly breakdown key %q is not a YYYY-MM month", month))
		}
		if amount.IsNegative() {
			msgs = append(msgs, fmt.Sprintf("monthly breakdown amount for %s must not be negative", month))
		}
		sum = sum.Add(amount)
	}

	if !sum.Round(2).Equal(totalSMP.Round(2)) {
		msgs = append(msgs, fmt.Sprintf(
			"monthly breakdown total %s does not match declared total SMP %s",
			sum.Round(2), totalSMP.Round(2)))
	}
	return msgs
}

func validatePeriodAmounts(in UpdatePeriodAmountsInput) error {
	var msgs []string
	for _, a := range []struct {
		name   string
		amount *decimal.Decimal
	}{
		{"SMP amount", in.SMPAmount},
		{"company amount", in.CompanyAmount},
		{"holiday accrued", in.HolidayAccrued},
	} {
		if a.amount != nil && a.amount.IsNegative() {
			msgs = append(msgs, a.name+" must not be negative")
		}
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
