package bonus

import (
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateBonusRequest struct {
	EmployeeID  string          `json:"employee_id"`
	BonusType   string          `json:"bonus_type"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	Reason      *string         `json:"reason,omitempty"`
}

func (r *CreateBonusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !BonusType(r.BonusType).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "bonus_type", Message: "must be one of performance, team, fixed_monthly"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	} else if !validator.HasMaxDecimals(r.Amount, validator.MoneyPlaces) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must have at most two decimal places"})
	}
	if !validator.IsValidMonth(r.PeriodMonth) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewBonusRequest struct {
	ID    string  `json:"-"`
	Notes *string `json:"notes,omitempty"`
}

type BonusFilter struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

type BonusResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	BonusType    string          `json:"bonus_type"`
	Amount       decimal.Decimal `json:"amount"`
	PeriodMonth  int             `json:"period_month"`
	PeriodYear   int             `json:"period_year"`
	Status       string          `json:"status"`
	Reason       *string         `json:"reason,omitempty"`
	ReviewedBy   *string         `json:"reviewed_by,omitempty"`
	ReviewedAt   *string         `json:"reviewed_at,omitempty"`
	ReviewNotes  *string         `json:"review_notes,omitempty"`
}

type ListBonusResponse struct {
	Data       []BonusResponse `json:"data"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
