package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TaxConfigHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetActiveSchedule(w http.ResponseWriter, r *http.Request)
}

type taxConfigHandlerImpl struct {
	taxConfigService taxconfig.TaxConfigService
	now              func() time.Time
}

func NewTaxConfigHandler(taxConfigService taxconfig.TaxConfigService) TaxConfigHandler {
	return &taxConfigHandlerImpl{taxConfigService: taxConfigService, now: time.Now}
}

func (h *taxConfigHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req taxconfig.CreateTaxBracketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxConfigService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tax bracket created", result)
}

func (h *taxConfigHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tax bracket ID is required", nil)
		return
	}

	var req taxconfig.UpdateTaxBracketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.taxConfigService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxConfigHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tax bracket ID is required", nil)
		return
	}

	if err := h.taxConfigService.Deactivate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tax bracket deactivated", nil)
}

func (h *taxConfigHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Tax bracket ID is required", nil)
		return
	}

	result, err := h.taxConfigService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxConfigHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := taxconfig.TaxBracketFilter{
		ConfigType:      queryString(r, "config_type"),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
	}

	result, err := h.taxConfigService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetActiveSchedule returns the validated schedule in force on ?date
// (YYYY-MM-DD, default today).
func (h *taxConfigHandlerImpl) GetActiveSchedule(w http.ResponseWriter, r *http.Request) {
	date := h.now()
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	result, err := h.taxConfigService.GetActiveSchedule(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
