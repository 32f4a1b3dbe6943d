package payroll

import "context"

// PayrollRepository stores payroll records. At most one record per
// employee-period is not superseded.
type PayrollRepository interface {
	// Upsert inserts the record or replaces the existing pending/processed
	// record for the same employee-period in one atomic write. A paid record
	// is never replaced: ErrPayrollRecordAlreadyPaid.
	Upsert(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	// GetByEmployeePeriod returns the non-superseded record.
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
	// MarkPaid moves processed records to paid. All or nothing.
	MarkPaid(ctx context.Context, ids []string, paidBy string) error
	// MarkPending flags a processed record for recomputation. No-op when no
	// processed record exists.
	MarkPending(ctx context.Context, employeeID string, month, year int) error
	Supersede(ctx context.Context, id string, notes *string) (PayrollRecord, error)
	Delete(ctx context.Context, id string) error
	GetSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}

// PeriodGuard serialises changes to an employee's payroll inputs (bonuses,
// deductions) with payroll runs for the same period. fn runs under the
// employee-period lock inside one transaction.
type PeriodGuard interface {
	Change(ctx context.Context, employeeID string, period Period, fn func(ctx context.Context) error) error
}
