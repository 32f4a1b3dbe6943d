package taxconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfigType enum
type ConfigType string

const (
	ConfigTypeHealthInsurance   ConfigType = "health_insurance"
	ConfigTypeSocialInsurance   ConfigType = "social_insurance"
	ConfigTypePersonalIncomeTax ConfigType = "personal_income_tax"
)

func (t ConfigType) IsValid() bool {
	switch t {
	case ConfigTypeHealthInsurance, ConfigTypeSocialInsurance, ConfigTypePersonalIncomeTax:
		return true
	}
	return false
}

// IsFlat reports whether the type is a single-rate contribution.
func (t ConfigType) IsFlat() bool {
	return t == ConfigTypeHealthInsurance || t == ConfigTypeSocialInsurance
}

// TaxBracket - Dated tax or contribution rate row
type TaxBracket struct {
	ID             string
	ConfigName     string
	ConfigType     ConfigType
	RatePercentage decimal.Decimal
	FixedAmount    *decimal.Decimal
	ThresholdMin   decimal.Decimal
	ThresholdMax   *decimal.Decimal // nil = unbounded
	EffectiveDate  time.Time
	EndDate        *time.Time
	IsActive       bool
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ActiveOn compares at day granularity; EndDate is inclusive.
func (b TaxBracket) ActiveOn(date time.Time) bool {
	if !b.IsActive {
		return false
	}
	day := DateOf(date)
	if DateOf(b.EffectiveDate).After(day) {
		return false
	}
	if b.EndDate != nil && DateOf(*b.EndDate).Before(day) {
		return false
	}
	return true
}

// Covers reports whether income falls inside [ThresholdMin, ThresholdMax].
func (b TaxBracket) Covers(income decimal.Decimal) bool {
	if income.LessThan(b.ThresholdMin) {
		return false
	}
	return b.ThresholdMax == nil || income.LessThanOrEqual(*b.ThresholdMax)
}

// Schedule is the validated set of brackets in force on Date.
type Schedule struct {
	Date              time.Time
	PersonalIncomeTax []TaxBracket // ascending by ThresholdMin
	SocialInsurance   TaxBracket
	HealthInsurance   TaxBracket
}

// DateOf strips the clock so comparisons happen on calendar days.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
