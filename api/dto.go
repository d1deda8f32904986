/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND DATES:
  Money fields are decimal strings or numbers on the wire (shopspring
  decimal accepts both); dates are YYYY-MM-DD. Nothing in the API layer
  touches float64 for money.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/maternity"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateCaseRequest opens a maternity case.
type CreateCaseRequest struct {
	EmployeeID          string                     `json:"employee_id"`
	BabyDueDate         calendar.Date              `json:"baby_due_date"`
	MaternityStartDate  calendar.Date              `json:"maternity_start_date"`
	SMPStartDate        calendar.Date              `json:"smp_start_date"`
	ExpectedReturnDate  calendar.Date              `json:"expected_return_date"`
	TotalSMP            decimal.Decimal            `json:"total_smp"`
	MonthlySMPBreakdown map[string]decimal.Decimal `json:"monthly_smp_breakdown,omitempty"`
	AverageWeekly       decimal.Decimal            `json:"average_weekly_earnings"`
	CMPWeeksEntitlement int                        `json:"cmp_weeks_entitlement,omitempty"`
}

// UpdateCaseRequest carries a partial case update; absent fields are
// left unchanged.
type UpdateCaseRequest struct {
	BabyDueDate         *calendar.Date             `json:"baby_due_date,omitempty"`
	MaternityStartDate  *calendar.Date             `json:"maternity_start_date,omitempty"`
	SMPStartDate        *calendar.Date             `json:"smp_start_date,omitempty"`
	ExpectedReturnDate  *calendar.Date             `json:"expected_return_date,omitempty"`
	TotalSMP            *decimal.Decimal           `json:"total_smp,omitempty"`
	MonthlySMPBreakdown map[string]decimal.Decimal `json:"monthly_smp_breakdown,omitempty"`
	AverageWeekly       *decimal.Decimal           `json:"average_weekly_earnings,omitempty"`
	CMPWeeksEntitlement *int                       `json:"cmp_weeks_entitlement,omitempty"`
}

// SetReturnDateRequest records the actual return from leave.
type SetReturnDateRequest struct {
	ActualReturnDate calendar.Date `json:"actual_return_date"`
}

// UpdatePeriodRequest edits one period's entered amounts.
type UpdatePeriodRequest struct {
	SMPAmount      *decimal.Decimal `json:"smp_amount,omitempty"`
	CompanyAmount  *decimal.Decimal `json:"company_amount,omitempty"`
	HolidayAccrued *decimal.Decimal `json:"holiday_accrued,omitempty"`
	SMPNotes       *string          `json:"smp_notes,omitempty"`
	CompanyNotes   *string          `json:"company_notes,omitempty"`
	HolidayNotes   *string          `json:"holiday_notes,omitempty"`
}

// SetPeriodStatusRequest sets a period's workflow status.
type SetPeriodStatusRequest struct {
	Status string `json:"status"`
}

// ArchiveCaseRequest archives a case; reason is mandatory.
type ArchiveCaseRequest struct {
	Reason string `json:"reason"`
}

// CalendarPeriodRequest is one payroll period in a calendar upload.
type CalendarPeriodRequest struct {
	StaffClass  string         `json:"staff_class"`
	PeriodStart calendar.Date  `json:"period_start"`
	PeriodEnd   calendar.Date  `json:"period_end"`
	PayDate     calendar.Date  `json:"pay_date"`
	CutoffDate  *calendar.Date `json:"cutoff_date,omitempty"`
	Name        string         `json:"name"`
}

// UpsertEmployeeRequest seeds the employee directory.
type UpsertEmployeeRequest struct {
	EmployeeID      string          `json:"employee_id"`
	FullName        string          `json:"full_name"`
	Location        string          `json:"location"`
	PayType         string          `json:"pay_type"`
	AnnualSalary    decimal.Decimal `json:"annual_salary"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	ContractedHours decimal.Decimal `json:"contracted_hours"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type PeriodDTO struct {
	ID             string          `json:"id"`
	Number         int             `json:"number"`
	Start          calendar.Date   `json:"period_start"`
	End            calendar.Date   `json:"period_end"`
	PayDate        calendar.Date   `json:"pay_date"`
	Name           string          `json:"name"`
	SMPAmount      decimal.Decimal `json:"smp_amount"`
	CompanyAmount  decimal.Decimal `json:"company_amount"`
	HolidayAccrued decimal.Decimal `json:"holiday_accrued"`
	SMPNotes       string          `json:"smp_notes,omitempty"`
	CompanyNotes   string          `json:"company_notes,omitempty"`
	HolidayNotes   string          `json:"holiday_notes,omitempty"`
	CalcNote       string          `json:"calc_note,omitempty"`
	EnteredBy      string          `json:"entered_by,omitempty"`
	EnteredAt      string          `json:"entered_at,omitempty"`
	DataComplete   bool            `json:"data_complete"`
	Status         string          `json:"status"`
}

type CaseDTO struct {
	ID                       string                     `json:"id"`
	EmployeeID               string                     `json:"employee_id"`
	EmployeeName             string                     `json:"employee_name"`
	Location                 string                     `json:"location"`
	StaffClass               string                     `json:"staff_class"`
	BabyDueDate              calendar.Date              `json:"baby_due_date"`
	MaternityStartDate       calendar.Date              `json:"maternity_start_date"`
	SMPStartDate             calendar.Date              `json:"smp_start_date"`
	ExpectedReturnDate       calendar.Date              `json:"expected_return_date"`
	ActualReturnDate         *calendar.Date             `json:"actual_return_date,omitempty"`
	TotalSMP                 decimal.Decimal            `json:"total_smp"`
	MonthlySMPBreakdown      map[string]decimal.Decimal `json:"monthly_smp_breakdown,omitempty"`
	AverageWeeklyEarnings    decimal.Decimal            `json:"average_weekly_earnings"`
	ContractedWeeklyEarnings decimal.Decimal            `json:"contracted_weekly_earnings"`
	TargetWeeklyAmount       decimal.Decimal            `json:"target_weekly_amount"`
	CMPWeeksEntitlement      int                        `json:"cmp_weeks_entitlement"`
	TotalCMP                 decimal.Decimal            `json:"total_cmp"`
	Status                   string                     `json:"status"`
	CreatedBy                string                     `json:"created_by"`
	CreatedAt                string                     `json:"created_at"`
	LastUpdatedAt            string                     `json:"last_updated_at"`
	ArchivedBy               string                     `json:"archived_by,omitempty"`
	ArchivedAt               string                     `json:"archived_at,omitempty"`
	ArchiveReason            string                     `json:"archive_reason,omitempty"`
	Version                  int64                      `json:"version"`
	Periods                  []PeriodDTO                `json:"periods"`
}

// CreateCaseResponse wraps the created case with its warnings.
type CreateCaseResponse struct {
	Case     CaseDTO             `json:"case"`
	Warnings []maternity.Warning `json:"warnings,omitempty"`
}

// UpdateCaseResponse wraps an updated case with regeneration warnings.
type UpdateCaseResponse struct {
	Case     CaseDTO             `json:"case"`
	Warnings []maternity.Warning `json:"warnings,omitempty"`
}

// MonthGroupDTO is one calendar month of the case detail projection.
type MonthGroupDTO struct {
	Month    string          `json:"month"`
	Periods  []PeriodDTO     `json:"periods"`
	SMPTotal decimal.Decimal `json:"smp_total"`
	CMPTotal decimal.Decimal `json:"cmp_total"`
}

// CaseDetailDTO is the per-case projection: the case plus its periods
// grouped by calendar month.
type CaseDetailDTO struct {
	Case   CaseDTO         `json:"case"`
	Months []MonthGroupDTO `json:"months"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toPeriodDTO(p *maternity.Period) PeriodDTO {
	dto := PeriodDTO{
		ID:             p.ID,
		Number:         p.Number,
		Start:          p.Start,
		End:            p.End,
		PayDate:        p.PayDate,
		Name:           p.Name,
		SMPAmount:      p.SMPAmount,
		CompanyAmount:  p.CompanyAmount,
		HolidayAccrued: p.HolidayAccrued,
		SMPNotes:       p.SMPNotes,
		CompanyNotes:   p.CompanyNotes,
		HolidayNotes:   p.HolidayNotes,
		CalcNote:       p.CalcNote,
		EnteredBy:      p.EnteredBy,
		DataComplete:   p.DataComplete,
		Status:         string(p.Status),
	}
	if p.EnteredAt != nil {
		dto.EnteredAt = p.EnteredAt.Format(time.RFC3339)
	}
	return dto
}

func toCaseDTO(c *maternity.Case) CaseDTO {
	dto := CaseDTO{
		ID:                       c.ID,
		EmployeeID:               c.EmployeeID,
		EmployeeName:             c.Employee.FullName,
		Location:                 c.Employee.Location,
		StaffClass:               string(c.Employee.StaffClass),
		BabyDueDate:              c.BabyDueDate,
		MaternityStartDate:       c.MaternityStartDate,
		SMPStartDate:             c.SMPStartDate,
		ExpectedReturnDate:       c.ExpectedReturnDate,
		ActualReturnDate:         c.ActualReturnDate,
		TotalSMP:                 c.TotalSMP,
		MonthlySMPBreakdown:      c.MonthlySMPBreakdown,
		AverageWeeklyEarnings:    c.AverageWeeklyEarnings,
		ContractedWeeklyEarnings: c.ContractedWeeklyEarnings,
		TargetWeeklyAmount:       c.TargetWeeklyAmount,
		CMPWeeksEntitlement:      c.CMPWeeksEntitlement,
		TotalCMP:                 c.TotalCMP,
		Status:                   string(c.Status),
		CreatedBy:                c.CreatedBy,
		CreatedAt:                c.CreatedAt.Format(time.RFC3339),
		LastUpdatedAt:            c.LastUpdatedAt.Format(time.RFC3339),
		ArchivedBy:               c.ArchivedBy,
		ArchiveReason:            c.ArchiveReason,
		Version:                  c.Version,
		Periods:                  make([]PeriodDTO, 0, len(c.Periods)),
	}
	if c.ArchivedAt != nil {
		dto.ArchivedAt = c.ArchivedAt.Format(time.RFC3339)
	}
	for i := range c.Periods {
		dto.Periods = append(dto.Periods, toPeriodDTO(&c.Periods[i]))
	}
	return dto
}

func toCaseDetailDTO(c *maternity.Case) CaseDetailDTO {
	detail := CaseDetailDTO{Case: toCaseDTO(c)}
	for _, g := range maternity.GroupPeriodsByMonth(c) {
		mg := MonthGroupDTO{
			Month:    g.Month,
			SMPTotal: g.SMPTotal,
			CMPTotal: g.CMPTotal,
			Periods:  make([]PeriodDTO, 0, len(g.Periods)),
		}
		for i := range g.Periods {
			mg.Periods = append(mg.Periods, toPeriodDTO(&g.Periods[i]))
		}
		detail.Months = append(detail.Months, mg)
	}
	return detail
}
