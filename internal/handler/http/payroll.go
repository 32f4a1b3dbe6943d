package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Runs
	ProcessPeriod(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)

	// Payroll Records
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	FinalizePayroll(w http.ResponseWriter, r *http.Request)
	SupersedePayrollRecord(w http.ResponseWriter, r *http.Request)
	DeletePayrollRecord(w http.ResponseWriter, r *http.Request)

	// Summary
	GetPayrollSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== RUNS ==========

func (h *payrollHandlerImpl) ProcessPeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.ProcessPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ProcessPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll processed", result)
}

func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}
	month, year, msg := queryPeriod(r)
	if msg != "" {
		response.BadRequest(w, msg, nil)
		return
	}

	result, err := h.payrollService.ComputePreview(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPayrollRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	page, limit := queryPage(r)
	filter := payroll.PayrollFilter{
		Page:        page,
		Limit:       limit,
		SortBy:      "created_at",
		SortOrder:   "desc",
		PeriodMonth: queryInt(r, "period_month"),
		PeriodYear:  queryInt(r, "period_year"),
		Status:      queryString(r, "status"),
		EmployeeID:  queryString(r, "employee_id"),
		FlaggedOnly: r.URL.Query().Get("flagged_only") == "true",
	}
	if sortBy := r.URL.Query().Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := r.URL.Query().Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	result, err := h.payrollService.ListPayrollRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

func (h *payrollHandlerImpl) FinalizePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.FinalizePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.payrollService.FinalizePayroll(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll finalized", nil)
}

func (h *payrollHandlerImpl) SupersedePayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	var req payroll.SupersedePayrollRecordRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}
	req.ID = id

	result, err := h.payrollService.SupersedePayrollRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record superseded", result)
}

func (h *payrollHandlerImpl) DeletePayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	if err := h.payrollService.DeletePayrollRecord(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record deleted successfully", nil)
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	month, year, msg := queryPeriod(r)
	if msg != "" {
		response.BadRequest(w, msg, nil)
		return
	}

	result, err := h.payrollService.GetPayrollSummary(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
