package bonus

import (
	"time"

	"github.com/shopspring/decimal"
)

// BonusType enum
type BonusType string

const (
	BonusTypePerformance  BonusType = "performance"
	BonusTypeTeam         BonusType = "team"
	BonusTypeFixedMonthly BonusType = "fixed_monthly"
)

func (t BonusType) IsValid() bool {
	switch t {
	case BonusTypePerformance, BonusTypeTeam, BonusTypeFixedMonthly:
		return true
	}
	return false
}

// BonusStatus enum
type BonusStatus string

const (
	BonusStatusPending  BonusStatus = "pending"
	BonusStatusApproved BonusStatus = "approved"
	BonusStatusRejected BonusStatus = "rejected"
)

// BonusRecord - Bonus awarded to an employee for a payroll period
type BonusRecord struct {
	ID          string
	EmployeeID  string
	BonusType   BonusType
	Amount      decimal.Decimal
	PeriodMonth int
	PeriodYear  int
	Status      BonusStatus
	Reason      *string
	CreatedBy   *string
	ReviewedBy  *string
	ReviewedAt  *time.Time
	ReviewNotes *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}
