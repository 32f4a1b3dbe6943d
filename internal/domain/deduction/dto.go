package deduction

import (
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateDeductionRequest struct {
	EmployeeID  string          `json:"employee_id"`
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (r *CreateDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidMonth(r.PeriodMonth) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	} else if !validator.HasMaxDecimals(r.Amount, validator.MoneyPlaces) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must have at most two decimal places"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeductionFilter struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
}

type DeductionResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedBy   *string         `json:"created_by,omitempty"`
	CreatedAt   string          `json:"created_at"`
}
