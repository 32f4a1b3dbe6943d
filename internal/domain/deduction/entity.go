package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deduction - Non-tax deduction (loan repayment, advance, penalty) for a period
type Deduction struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	Amount      decimal.Decimal
	Description string
	CreatedBy   *string
	CreatedAt   time.Time
}
