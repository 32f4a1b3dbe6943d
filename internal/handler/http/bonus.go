package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BonusHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type bonusHandlerImpl struct {
	bonusService bonus.BonusService
}

func NewBonusHandler(bonusService bonus.BonusService) BonusHandler {
	return &bonusHandlerImpl{bonusService: bonusService}
}

func (h *bonusHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req bonus.CreateBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.bonusService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bonus created", result)
}

func (h *bonusHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Bonus ID is required", nil)
		return
	}

	result, err := h.bonusService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bonusHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, limit := queryPage(r)
	filter := bonus.BonusFilter{
		EmployeeID:  queryString(r, "employee_id"),
		Status:      queryString(r, "status"),
		PeriodMonth: queryInt(r, "period_month"),
		PeriodYear:  queryInt(r, "period_year"),
		Page:        page,
		Limit:       limit,
	}

	result, err := h.bonusService.List(r.Context(), filter)
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

func (h *bonusHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.bonusService.Approve, "Bonus approved")
}

func (h *bonusHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.bonusService.Reject, "Bonus rejected")
}

type reviewFunc func(ctx context.Context, req bonus.ReviewBonusRequest) (bonus.BonusResponse, error)

func (h *bonusHandlerImpl) review(w http.ResponseWriter, r *http.Request, fn reviewFunc, message string) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Bonus ID is required", nil)
		return
	}

	var req bonus.ReviewBonusRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}
	req.ID = id

	result, err := fn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}
