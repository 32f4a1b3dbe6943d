package payroll

import "context"

type PayrollService interface {
	// ProcessPeriod computes and persists payroll for every eligible employee.
	ProcessPeriod(ctx context.Context, req ProcessPeriodRequest) (RunResultResponse, error)
	// ComputePreview runs the computation for one employee without persisting.
	ComputePreview(ctx context.Context, employeeID string, month, year int) (PayrollRecordResponse, error)

	GetPayrollRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	FinalizePayroll(ctx context.Context, req FinalizePayrollRequest) error
	SupersedePayrollRecord(ctx context.Context, req SupersedePayrollRecordRequest) (PayrollRecordResponse, error)
	DeletePayrollRecord(ctx context.Context, id string) error
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
