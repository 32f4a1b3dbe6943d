package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/deduction"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DeductionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type deductionHandlerImpl struct {
	deductionService deduction.DeductionService
}

func NewDeductionHandler(deductionService deduction.DeductionService) DeductionHandler {
	return &deductionHandlerImpl{deductionService: deductionService}
}

func (h *deductionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req deduction.CreateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.deductionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deduction created", result)
}

func (h *deductionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := deduction.DeductionFilter{
		EmployeeID:  queryString(r, "employee_id"),
		PeriodMonth: queryInt(r, "period_month"),
		PeriodYear:  queryInt(r, "period_year"),
	}

	result, err := h.deductionService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *deductionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Deduction ID is required", nil)
		return
	}

	if err := h.deductionService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Deduction deleted", nil)
}
