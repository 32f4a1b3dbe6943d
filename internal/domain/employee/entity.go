package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is read by payroll; the record itself is owned by the HR module.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	Email            *string
	Department       *string
	HireDate         time.Time
	TerminationDate  *time.Time
	EmploymentStatus EmploymentStatus
	BaseSalary       *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusOnLeave    EmploymentStatus = "on_leave"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// EligibleOn reports whether the employee takes part in a payroll run whose
// reference date is date: active, hired on or before it and not terminated
// on or before it.
func (e Employee) EligibleOn(date time.Time) bool {
	if e.EmploymentStatus != EmploymentStatusActive {
		return false
	}
	day := dateOf(date)
	if dateOf(e.HireDate).After(day) {
		return false
	}
	if e.TerminationDate != nil && !dateOf(*e.TerminationDate).After(day) {
		return false
	}
	return true
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
