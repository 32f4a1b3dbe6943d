package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	schedules    ScheduleSource
	engine       *Engine
	coordinator  *Coordinator
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	schedules ScheduleSource,
	engine *Engine,
	coordinator *Coordinator,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		schedules:    schedules,
		engine:       engine,
		coordinator:  coordinator,
	}
}

// ========== RUNS ==========

func (s *PayrollServiceImpl) ProcessPeriod(ctx context.Context, req payroll.ProcessPeriodRequest) (payroll.RunResultResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResultResponse{}, err
	}

	period, err := payroll.NewPeriod(req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.RunResultResponse{}, err
	}

	result, err := s.coordinator.ProcessPeriod(ctx, period, req.EmployeeIDs)
	if err != nil {
		return payroll.RunResultResponse{}, err
	}

	return mapToRunResultResponse(result), nil
}

func (s *PayrollServiceImpl) ComputePreview(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecordResponse, error) {
	period, err := payroll.NewPeriod(month, year)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	refDate := period.ReferenceDate()
	if !emp.EligibleOn(refDate) {
		return payroll.PayrollRecordResponse{}, payroll.ErrEmployeeNotEligible
	}

	schedule, err := s.schedules.Schedule(ctx, refDate)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to load tax schedule for %s: %w", period, err)
	}

	record, err := s.engine.Compute(ctx, emp, period, schedule)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(record), nil
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, totalCount, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	return payroll.ListPayrollRecordResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) FinalizePayroll(ctx context.Context, req payroll.FinalizePayrollRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.payrollRepo.MarkPaid(ctx, req.RecordIDs, claims.UserID)
}

func (s *PayrollServiceImpl) SupersedePayrollRecord(ctx context.Context, req payroll.SupersedePayrollRecordRequest) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if record.Status != payroll.PayrollStatusPaid {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotPaid
	}

	superseded, err := s.payrollRepo.Supersede(ctx, req.ID, req.Reason)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(superseded), nil
}

func (s *PayrollServiceImpl) DeletePayrollRecord(ctx context.Context, id string) error {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !record.Status.CanReprocess() {
		return payroll.ErrCannotDeletePaidRecord
	}

	return s.payrollRepo.Delete(ctx, id)
}

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	if _, err := payroll.NewPeriod(month, year); err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	return s.payrollRepo.GetSummary(ctx, month, year)
}

// ========== HELPERS ==========

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	employeeName := ""
	employeeCode := ""
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		employeeCode = *r.EmployeeCode
	}

	return payroll.PayrollRecordResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       employeeName,
		EmployeeCode:       employeeCode,
		PeriodMonth:        r.PeriodMonth,
		PeriodYear:         r.PeriodYear,
		BaseSalary:         r.BaseSalary,
		Bonuses:            r.Bonuses,
		Deductions:         r.Deductions,
		GrossSalary:        r.GrossSalary,
		TaxAmount:          r.TaxAmount,
		SocialSecurity:     r.SocialSecurity,
		HealthInsurance:    r.HealthInsurance,
		NetSalary:          r.NetSalary,
		NegativeNetSalary:  r.NegativeNetSalary,
		UnclampedNetSalary: r.UnclampedNetSalary,
		TaxBreakdown:       r.TaxBreakdown,
		Status:             string(r.Status),
		ProcessedDate:      formatTime(r.ProcessedDate),
		PaidAt:             formatTime(r.PaidAt),
		SupersededAt:       formatTime(r.SupersededAt),
		Notes:              r.Notes,
	}
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}

func mapToRunResultResponse(r payroll.RunResult) payroll.RunResultResponse {
	failures := make([]payroll.RunFailureResponse, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, payroll.RunFailureResponse{
			EmployeeID: f.EmployeeID,
			Reason:     string(f.Reason),
			Message:    f.Message,
		})
	}

	return payroll.RunResultResponse{
		RunID:          r.RunID,
		PeriodMonth:    r.Period.Month,
		PeriodYear:     r.Period.Year,
		Records:        mapToRecordResponses(r.Records),
		Failures:       failures,
		ProcessedCount: len(r.Records),
		FailedCount:    len(r.Failures),
		FlaggedCount:   r.FlaggedCount(),
		StartedAt:      r.StartedAt.Format(time.RFC3339),
		FinishedAt:     r.FinishedAt.Format(time.RFC3339),
	}
}
