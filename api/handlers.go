/*
handlers.go - HTTP API handlers for the maternity pay engine

PURPOSE:
  Exposes the maternity case engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the domain
  Manager.

ENDPOINTS:
  Cases:
    GET    /api/cases                         List cases (dashboard rows)
    POST   /api/cases                         Create case
    GET    /api/cases/{id}                    Case detail with month groups
    PUT    /api/cases/{id}                    Partial update
    POST   /api/cases/{id}/return             Record actual return date
    POST   /api/cases/{id}/archive            Archive case
    POST   /api/cases/{id}/recalculate        Force CMP recalculation
    PUT    /api/cases/{id}/periods/{periodID} Edit one period's amounts
    PUT    /api/cases/{id}/periods/{periodID}/status Set period status

  Projections:
    GET    /api/dashboard                     Bucketed overview

  Calendar:
    GET    /api/calendar/validate-start       Dry-run SMP start alignment

  Admin:
    POST   /api/admin/calendar                Replace the payroll calendar
    POST   /api/admin/employees               Upsert a directory employee
    GET    /api/admin/selfcheck               Calendar completeness report

ACTOR ATTRIBUTION:
  Mutating endpoints read the X-Actor header for audit fields and fall
  back to "payroll" when absent. No authentication beyond that.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, archived-case mutations
  - 404: Case, period or employee not found
  - 409: Concurrent modification (stale version)
  - 500: Persistence and calculation failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/employee"
	"github.com/warp/maternity-engine/maternity"
)

// defaultActor attributes edits when the client sends no X-Actor.
const defaultActor = "payroll"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Manager  *maternity.Manager
	Calendar CalendarAdmin
	Staff    StaffAdmin
	Log      *zap.Logger
}

// CalendarAdmin replaces the payroll calendar wholesale.
type CalendarAdmin interface {
	ReplaceCalendar(ctx context.Context, periods []calendar.PayrollPeriod) error
}

// StaffAdmin upserts employee directory records.
type StaffAdmin interface {
	SaveEmployee(ctx context.Context, rec employee.Record) error
}

// NewHandler creates a new handler. log may be nil.
func NewHandler(mgr *maternity.Manager, cal CalendarAdmin, staff StaffAdmin, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Manager: mgr, Calendar: cal, Staff: staff, Log: log}
}

func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return defaultActor
}

// =============================================================================
// CASE HANDLERS
// =============================================================================

// ListCases returns all cases, optionally including archived ones.
// GET /api/cases?include_archived=true
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	cases, err := h.Manager.ListCases(r.Context(), includeArchived)
	if err != nil {
		h.writeDomainError(w, "Failed to list cases", err)
		return
	}

	dtos := make([]CaseDTO, 0, len(cases))
	for _, c := range cases {
		dtos = append(dtos, toCaseDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCase opens a case. Partial successes (missing employee,
// failed calculation) still return 201 with warnings attached.
// POST /api/cases
func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := maternity.CreateCaseInput{
		EmployeeID:            req.EmployeeID,
		BabyDueDate:           req.BabyDueDate,
		MaternityStartDate:    req.MaternityStartDate,
		SMPStartDate:          req.SMPStartDate,
		ExpectedReturnDate:    req.ExpectedReturnDate,
		TotalSMP:              req.TotalSMP,
		MonthlySMPBreakdown:   req.MonthlySMPBreakdown,
		AverageWeeklyEarnings: req.AverageWeekly,
		CMPWeeksEntitlement:   req.CMPWeeksEntitlement,
	}

	result, err := h.Manager.CreateCase(r.Context(), in, actor(r))
	if err != nil {
		h.writeDomainError(w, "Failed to create case", err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateCaseResponse{
		Case:     toCaseDTO(result.Case),
		Warnings: result.Warnings,
	})
}

// GetCase returns a single case with its month-grouped periods.
// GET /api/cases/{id}
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Manager.GetCase(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get case", err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDetailDTO(c))
}

// UpdateCase applies a partial update.
// PUT /api/cases/{id}
func (h *Handler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := maternity.UpdateCaseInput{
		BabyDueDate:           req.BabyDueDate,
		MaternityStartDate:    req.MaternityStartDate,
		SMPStartDate:          req.SMPStartDate,
		ExpectedReturnDate:    req.ExpectedReturnDate,
		TotalSMP:              req.TotalSMP,
		MonthlySMPBreakdown:   req.MonthlySMPBreakdown,
		AverageWeeklyEarnings: req.AverageWeekly,
		CMPWeeksEntitlement:   req.CMPWeeksEntitlement,
	}

	c, warnings, err := h.Manager.UpdateCase(r.Context(), id, in, actor(r))
	if err != nil {
		h.writeDomainError(w, "Failed to update case", err)
		return
	}
	writeJSON(w, http.StatusOK, UpdateCaseResponse{Case: toCaseDTO(c), Warnings: warnings})
}

// SetReturnDate records the actual return from leave.
// POST /api/cases/{id}/return
func (h *Handler) SetReturnDate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SetReturnDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, warnings, err := h.Manager.SetActualReturnDate(r.Context(), id, req.ActualReturnDate, actor(r))
	if err != nil {
		h.writeDomainError(w, "Failed to set return date", err)
		return
	}
	writeJSON(w, http.StatusOK, UpdateCaseResponse{Case: toCaseDTO(c), Warnings: warnings})
}

// ArchiveCase soft-deletes a case.
// POST /api/cases/{id}/archive
func (h *Handler) ArchiveCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ArchiveCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := h.Manager.ArchiveCase(r.Context(), id, req.Reason, actor(r))
	if err != nil {
		h.writeDomainError(w, "Failed to archive case", err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// RecalculateCase forces a CMP recalculation.
// POST /api/cases/{id}/recalculate
func (h *Handler) RecalculateCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Manager.RecalculateCase(r.Context(), id, actor(r))
	if err != nil {
		h.writeDomainError(w, "Failed to recalculate case", err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// UpdatePeriod edits one period's entered amounts and notes.
// PUT /api/cases/{id}/periods/{periodID}
func (h *Handler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")

	var req UpdatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := maternity.UpdatePeriodAmountsInput{
		SMPAmount:      req.SMPAmount,
		CompanyAmount:  req.CompanyAmount,
		HolidayAccrued: req.HolidayAccrued,
		SMPNotes:       req.SMPNotes,
		CompanyNotes:   req.CompanyNotes,
		HolidayNotes:   req.HolidayNotes,
	}

	c, err := h.Manager.UpdatePeriodAmounts(r.Context(), caseID, periodID, in, actor(r))
	if err != nil {
		h.writeDomainError(w, "Failed to update period", err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// SetPeriodStatus sets a period's workflow status.
// PUT /api/cases/{id}/periods/{periodID}/status
func (h *Handler) SetPeriodStatus(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")

	var req SetPeriodStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := h.Manager.SetPeriodStatus(r.Context(), caseID, periodID, maternity.PeriodStatus(req.Status), actor(r))
	if err != nil {
		h.writeDomainError(w, "Failed to set period status", err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseDTO(c))
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// GetDashboard returns the bucketed overview of active cases.
// GET /api/dashboard?as_of=2025-06-01
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	asOf := calendar.Today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
			return
		}
		asOf = d
	}

	cases, err := h.Manager.ListCases(r.Context(), false)
	if err != nil {
		h.writeDomainError(w, "Failed to list cases", err)
		return
	}
	writeJSON(w, http.StatusOK, maternity.BuildDashboard(cases, asOf))
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ValidateStartDate dry-runs a proposed SMP start date against the
// payroll calendar.
// GET /api/calendar/validate-start?date=2025-04-01&staff_class=salaried
func (h *Handler) ValidateStartDate(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	class, err := calendar.ParseStaffClass(r.URL.Query().Get("staff_class"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid staff class", err)
		return
	}

	check, err := h.Manager.ValidateStartDate(r.Context(), date, class)
	if err != nil {
		h.writeDomainError(w, "Failed to validate start date", err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ReplaceCalendar swaps the payroll calendar wholesale.
// POST /api/admin/calendar
func (h *Handler) ReplaceCalendar(w http.ResponseWriter, r *http.Request) {
	var reqs []CalendarPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "Calendar must contain at least one period", nil)
		return
	}

	periods := make([]calendar.PayrollPeriod, 0, len(reqs))
	for i, pr := range reqs {
		class, err := calendar.ParseStaffClass(pr.StaffClass)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Period %d: invalid staff class", i+1), err)
			return
		}
		if pr.PeriodEnd.Before(pr.PeriodStart) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Period %d: end before start", i+1), nil)
			return
		}
		periods = append(periods, calendar.PayrollPeriod{
			StaffClass: class,
			Start:      pr.PeriodStart,
			End:        pr.PeriodEnd,
			PayDate:    pr.PayDate,
			CutoffDate: pr.CutoffDate,
			Name:       pr.Name,
		})
	}

	if err := h.Calendar.ReplaceCalendar(r.Context(), periods); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to replace calendar", err)
		return
	}

	h.Log.Info("payroll calendar replaced", zap.Int("periods", len(periods)))
	writeJSON(w, http.StatusOK, map[string]int{"periods": len(periods)})
}

// UpsertEmployee seeds or updates a directory record.
// POST /api/admin/employees
func (h *Handler) UpsertEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return
	}

	var payType employee.PayType
	switch employee.PayType(req.PayType) {
	case employee.PaySalary, employee.PayHourly:
		payType = employee.PayType(req.PayType)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown pay type %q", req.PayType), nil)
		return
	}

	rec := employee.Record{
		EmployeeID:      req.EmployeeID,
		FullName:        req.FullName,
		Location:        req.Location,
		PayType:         payType,
		AnnualSalary:    req.AnnualSalary,
		HourlyRate:      req.HourlyRate,
		ContractedHours: req.ContractedHours,
	}
	if err := h.Staff.SaveEmployee(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SelfCheck reports payroll calendar completeness.
// GET /api/admin/selfcheck
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	report, err := h.Manager.SelfCheck(r.Context())
	if err != nil {
		h.writeDomainError(w, "Self-check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to HTTP statuses. Validation
// errors additionally expose their per-field messages.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var vErr *maternity.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:    message,
			Details:  vErr.Error(),
			Messages: vErr.Messages,
		})
		return
	}

	switch {
	case maternity.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case maternity.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case maternity.IsRetryable(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		h.Log.Error("request failed", zap.String("message", message), zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
