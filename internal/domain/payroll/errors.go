package payroll

import "errors"

var (
	ErrPayrollRecordNotFound     = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyPaid  = errors.New("payroll record already paid, cannot modify")
	ErrPayrollRecordNotProcessed = errors.New("payroll record is not processed")
	ErrPayrollRecordNotPaid      = errors.New("only paid payroll records can be superseded")
	ErrCannotDeletePaidRecord    = errors.New("cannot delete paid payroll record")
	ErrInvalidPeriod             = errors.New("invalid payroll period")
	ErrInvalidIncome             = errors.New("gross income is negative or missing")
	ErrEmployeeNotEligible       = errors.New("employee is not eligible for payroll in this period")
	ErrEmployeeLocked            = errors.New("employee period is being processed by another run")
	ErrRunIncomplete             = errors.New("payroll run deadline reached before employee was processed")
)
