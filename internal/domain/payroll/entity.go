package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending    PayrollStatus = "pending"
	PayrollStatusProcessed  PayrollStatus = "processed"
	PayrollStatusPaid       PayrollStatus = "paid"
	PayrollStatusSuperseded PayrollStatus = "superseded"
)

func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusPending, PayrollStatusProcessed, PayrollStatusPaid, PayrollStatusSuperseded:
		return true
	}
	return false
}

// CanReprocess reports whether a run may overwrite a record in this status.
func (s PayrollStatus) CanReprocess() bool {
	return s == PayrollStatusPending || s == PayrollStatusProcessed
}

// Period is a payroll month.
type Period struct {
	Month int
	Year  int
}

func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 || year < 2020 || year > 9999 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Month: month, Year: year}, nil
}

// ReferenceDate is the last calendar day of the period. Tax schedules and
// employee eligibility are evaluated on this date.
func (p Period) ReferenceDate() time.Time {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// LockKey names the lock shared by payroll runs and input changes for one
// employee-period.
func LockKey(employeeID string, p Period) string {
	return fmt.Sprintf("payroll:%s:%s", employeeID, p)
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// TaxLine is one bracket's share of a computed amount, kept for audit.
type TaxLine struct {
	BracketID      string          `json:"bracket_id"`
	ConfigName     string          `json:"config_name"`
	ConfigType     string          `json:"config_type"`
	RatePercentage decimal.Decimal `json:"rate_percentage"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	Amount         decimal.Decimal `json:"amount"`
}

// PayrollRecord - Computed pay for one employee and period
type PayrollRecord struct {
	ID                 string
	EmployeeID         string
	PeriodMonth        int
	PeriodYear         int
	BaseSalary         decimal.Decimal
	Bonuses            decimal.Decimal
	Deductions         decimal.Decimal
	GrossSalary        decimal.Decimal
	TaxAmount          decimal.Decimal
	SocialSecurity     decimal.Decimal
	HealthInsurance    decimal.Decimal
	NetSalary          decimal.Decimal
	UnclampedNetSalary decimal.Decimal
	NegativeNetSalary  bool
	TaxBreakdown       []TaxLine
	Status             PayrollStatus
	ProcessedDate      *time.Time
	PaidAt             *time.Time
	PaidBy             *string
	SupersededAt       *time.Time
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

func (r PayrollRecord) Period() Period {
	return Period{Month: r.PeriodMonth, Year: r.PeriodYear}
}

// FailureReason enum
type FailureReason string

const (
	FailureInvalidIncome FailureReason = "INVALID_INCOME"
	FailureAlreadyPaid   FailureReason = "ALREADY_PAID"
	FailureIncomplete    FailureReason = "INCOMPLETE"
	FailureLocked        FailureReason = "LOCKED"
	FailureNotEligible   FailureReason = "NOT_ELIGIBLE"
	FailureFailed        FailureReason = "FAILED"
)

// RunFailure - Employee that a run could not (re)compute
type RunFailure struct {
	EmployeeID string
	Reason     FailureReason
	Message    string
}

// RunResult - Outcome of processing one period
type RunResult struct {
	RunID      string
	Period     Period
	Records    []PayrollRecord
	Failures   []RunFailure
	StartedAt  time.Time
	FinishedAt time.Time
}

// FlaggedCount counts records whose net pay was clamped at zero.
func (r RunResult) FlaggedCount() int {
	n := 0
	for _, rec := range r.Records {
		if rec.NegativeNetSalary {
			n++
		}
	}
	return n
}
