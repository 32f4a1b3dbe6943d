package taxconfig

import (
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateTaxBracketRequest struct {
	ConfigName     string           `json:"config_name"`
	ConfigType     string           `json:"config_type"`
	RatePercentage decimal.Decimal  `json:"rate_percentage"`
	FixedAmount    *decimal.Decimal `json:"fixed_amount,omitempty"`
	ThresholdMin   decimal.Decimal  `json:"threshold_min"`
	ThresholdMax   *decimal.Decimal `json:"threshold_max,omitempty"`
	EffectiveDate  string           `json:"effective_date"`
	EndDate        *string          `json:"end_date,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

func (r *CreateTaxBracketRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ConfigName) {
		errs = append(errs, validator.ValidationError{Field: "config_name", Message: "is required"})
	}
	if !ConfigType(r.ConfigType).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "config_type", Message: "must be one of health_insurance, social_insurance, personal_income_tax"})
	}
	errs = append(errs, validateAmounts(r.RatePercentage, r.FixedAmount, r.ThresholdMin, r.ThresholdMax)...)
	errs = append(errs, validateDates(r.EffectiveDate, r.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTaxBracketRequest struct {
	ID             string           `json:"-"`
	ConfigName     *string          `json:"config_name,omitempty"`
	RatePercentage *decimal.Decimal `json:"rate_percentage,omitempty"`
	FixedAmount    *decimal.Decimal `json:"fixed_amount,omitempty"`
	ThresholdMin   *decimal.Decimal `json:"threshold_min,omitempty"`
	ThresholdMax   *decimal.Decimal `json:"threshold_max,omitempty"`
	ClearMax       bool             `json:"clear_threshold_max,omitempty"`
	EffectiveDate  *string          `json:"effective_date,omitempty"`
	EndDate        *string          `json:"end_date,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

// Apply merges the request into b and validates the result.
func (r *UpdateTaxBracketRequest) Apply(b TaxBracket) (TaxBracket, error) {
	var errs validator.ValidationErrors

	if r.ConfigName != nil {
		if validator.IsEmpty(*r.ConfigName) {
			errs = append(errs, validator.ValidationError{Field: "config_name", Message: "must not be empty"})
		}
		b.ConfigName = *r.ConfigName
	}
	if r.RatePercentage != nil {
		b.RatePercentage = *r.RatePercentage
	}
	if r.FixedAmount != nil {
		b.FixedAmount = r.FixedAmount
	}
	if r.ThresholdMin != nil {
		b.ThresholdMin = *r.ThresholdMin
	}
	if r.ClearMax {
		b.ThresholdMax = nil
	} else if r.ThresholdMax != nil {
		b.ThresholdMax = r.ThresholdMax
	}
	if r.EffectiveDate != nil {
		if d, ok := validator.IsValidDate(*r.EffectiveDate); ok {
			b.EffectiveDate = d
		} else {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.EndDate != nil {
		if d, ok := validator.IsValidDate(*r.EndDate); ok {
			b.EndDate = &d
		} else {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.Notes != nil {
		b.Notes = r.Notes
	}

	errs = append(errs, validateAmounts(b.RatePercentage, b.FixedAmount, b.ThresholdMin, b.ThresholdMax)...)
	if b.EndDate != nil && b.EndDate.Before(b.EffectiveDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before effective_date"})
	}

	if len(errs) > 0 {
		return TaxBracket{}, errs
	}
	return b, nil
}

func validateAmounts(rate decimal.Decimal, fixed *decimal.Decimal, min decimal.Decimal, max *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsPercentage(rate) {
		errs = append(errs, validator.ValidationError{Field: "rate_percentage", Message: "must be between 0 and 100"})
	} else if !validator.HasMaxDecimals(rate, 1) {
		errs = append(errs, validator.ValidationError{Field: "rate_percentage", Message: "must have at most one decimal place"})
	}
	if fixed != nil && fixed.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "fixed_amount", Message: "must be non-negative"})
	} else if fixed != nil && !validator.HasMaxDecimals(*fixed, validator.MoneyPlaces) {
		errs = append(errs, validator.ValidationError{Field: "fixed_amount", Message: "must have at most two decimal places"})
	}
	if min.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "threshold_min", Message: "must be non-negative"})
	} else if !validator.HasMaxDecimals(min, validator.MoneyPlaces) {
		errs = append(errs, validator.ValidationError{Field: "threshold_min", Message: "must have at most two decimal places"})
	}
	if max != nil && max.LessThan(min) {
		errs = append(errs, validator.ValidationError{Field: "threshold_max", Message: "must not be less than threshold_min"})
	}
	return errs
}

func validateDates(effective string, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	effectiveDate, ok := validator.IsValidDate(effective)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be in YYYY-MM-DD format"})
	}
	if end != nil {
		endDate, ok := validator.IsValidDate(*end)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		} else if !effectiveDate.IsZero() && endDate.Before(effectiveDate) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before effective_date"})
		}
	}
	return errs
}

type TaxBracketFilter struct {
	ConfigType      *string `json:"config_type,omitempty"`
	IncludeInactive bool    `json:"include_inactive"`
}

type TaxBracketResponse struct {
	ID             string           `json:"id"`
	ConfigName     string           `json:"config_name"`
	ConfigType     string           `json:"config_type"`
	RatePercentage decimal.Decimal  `json:"rate_percentage"`
	FixedAmount    *decimal.Decimal `json:"fixed_amount,omitempty"`
	ThresholdMin   decimal.Decimal  `json:"threshold_min"`
	ThresholdMax   *decimal.Decimal `json:"threshold_max,omitempty"`
	EffectiveDate  string           `json:"effective_date"`
	EndDate        *string          `json:"end_date,omitempty"`
	IsActive       bool             `json:"is_active"`
	Notes          *string          `json:"notes,omitempty"`
}

type ScheduleResponse struct {
	Date              string               `json:"date"`
	PersonalIncomeTax []TaxBracketResponse `json:"personal_income_tax"`
	SocialInsurance   TaxBracketResponse   `json:"social_insurance"`
	HealthInsurance   TaxBracketResponse   `json:"health_insurance"`
}
