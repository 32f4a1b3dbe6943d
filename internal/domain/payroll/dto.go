package payroll

import (
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type ProcessPeriodRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all eligible employees
}

func (r *ProcessPeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.PeriodMonth) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not contain empty IDs"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunFailureResponse struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
	Message    string `json:"message"`
}

type RunResultResponse struct {
	RunID          string                  `json:"run_id"`
	PeriodMonth    int                     `json:"period_month"`
	PeriodYear     int                     `json:"period_year"`
	Records        []PayrollRecordResponse `json:"records"`
	Failures       []RunFailureResponse    `json:"failures"`
	ProcessedCount int                     `json:"processed_count"`
	FailedCount    int                     `json:"failed_count"`
	FlaggedCount   int                     `json:"flagged_count"`
	StartedAt      string                  `json:"started_at"`
	FinishedAt     string                  `json:"finished_at"`
}

// ========== PAYROLL RECORD DTOs ==========

type FinalizePayrollRequest struct {
	RecordIDs []string `json:"record_ids"`
}

func (r *FinalizePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RecordIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "record_ids", Message: "at least one record is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SupersedePayrollRecordRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

type PayrollRecordResponse struct {
	ID                 string          `json:"id,omitempty"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name,omitempty"`
	EmployeeCode       string          `json:"employee_code,omitempty"`
	PeriodMonth        int             `json:"period_month"`
	PeriodYear         int             `json:"period_year"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	Bonuses            decimal.Decimal `json:"bonuses"`
	Deductions         decimal.Decimal `json:"deductions"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	SocialSecurity     decimal.Decimal `json:"social_security"`
	HealthInsurance    decimal.Decimal `json:"health_insurance"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	NegativeNetSalary  bool            `json:"negative_net_salary"`
	UnclampedNetSalary decimal.Decimal `json:"unclamped_net_salary"`
	TaxBreakdown       []TaxLine       `json:"tax_breakdown,omitempty"`
	Status             string          `json:"status"`
	ProcessedDate      *string         `json:"processed_date,omitempty"`
	PaidAt             *string         `json:"paid_at,omitempty"`
	SupersededAt       *string         `json:"superseded_at,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	FlaggedOnly bool    `json:"flagged_only"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !PayrollStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of pending, processed, paid, superseded"})
	}
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"created_at", "net_salary", "gross_salary", "employee_code"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "is not a sortable column"})
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "must be asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodMonth          int             `json:"period_month"`
	PeriodYear           int             `json:"period_year"`
	TotalEmployees       int             `json:"total_employees"`
	TotalBaseSalary      decimal.Decimal `json:"total_base_salary"`
	TotalBonuses         decimal.Decimal `json:"total_bonuses"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
	TotalGrossSalary     decimal.Decimal `json:"total_gross_salary"`
	TotalTax             decimal.Decimal `json:"total_tax"`
	TotalSocialSecurity  decimal.Decimal `json:"total_social_security"`
	TotalHealthInsurance decimal.Decimal `json:"total_health_insurance"`
	TotalNetSalary       decimal.Decimal `json:"total_net_salary"`
	PendingCount         int             `json:"pending_count"`
	ProcessedCount       int             `json:"processed_count"`
	PaidCount            int             `json:"paid_count"`
	FlaggedCount         int             `json:"flagged_count"`
}
