package deduction

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/deduction"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
)

type DeductionServiceImpl struct {
	deductionRepo deduction.DeductionRepository
	employeeRepo  employee.EmployeeRepository
	payrollRepo   payroll.PayrollRepository
	guard         payroll.PeriodGuard
}

func NewDeductionService(
	deductionRepo deduction.DeductionRepository,
	employeeRepo employee.EmployeeRepository,
	payrollRepo payroll.PayrollRepository,
	guard payroll.PeriodGuard,
) deduction.DeductionService {
	return &DeductionServiceImpl{
		deductionRepo: deductionRepo,
		employeeRepo:  employeeRepo,
		payrollRepo:   payrollRepo,
		guard:         guard,
	}
}

func (s *DeductionServiceImpl) Create(ctx context.Context, req deduction.CreateDeductionRequest) (deduction.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.DeductionResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return deduction.DeductionResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return deduction.DeductionResponse{}, err
	}

	var created deduction.Deduction
	period := payroll.Period{Month: req.PeriodMonth, Year: req.PeriodYear}
	err = s.guard.Change(ctx, req.EmployeeID, period, func(ctx context.Context) error {
		created, err = s.deductionRepo.Create(ctx, deduction.Deduction{
			EmployeeID:  req.EmployeeID,
			PeriodMonth: req.PeriodMonth,
			PeriodYear:  req.PeriodYear,
			Amount:      req.Amount,
			Description: req.Description,
			CreatedBy:   &claims.UserID,
		})
		if err != nil {
			return err
		}

		if err := s.payrollRepo.MarkPending(ctx, created.EmployeeID, created.PeriodMonth, created.PeriodYear); err != nil {
			return fmt.Errorf("failed to mark payroll pending: %w", err)
		}
		return nil
	})
	if err != nil {
		return deduction.DeductionResponse{}, err
	}

	return mapToDeductionResponse(created), nil
}

func (s *DeductionServiceImpl) List(ctx context.Context, filter deduction.DeductionFilter) ([]deduction.DeductionResponse, error) {
	deductions, err := s.deductionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]deduction.DeductionResponse, 0, len(deductions))
	for _, d := range deductions {
		result = append(result, mapToDeductionResponse(d))
	}
	return result, nil
}

func (s *DeductionServiceImpl) Delete(ctx context.Context, id string) error {
	existing, err := s.deductionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	period := payroll.Period{Month: existing.PeriodMonth, Year: existing.PeriodYear}
	return s.guard.Change(ctx, existing.EmployeeID, period, func(ctx context.Context) error {
		if err := s.deductionRepo.Delete(ctx, id); err != nil {
			return err
		}

		if err := s.payrollRepo.MarkPending(ctx, existing.EmployeeID, existing.PeriodMonth, existing.PeriodYear); err != nil {
			return fmt.Errorf("failed to mark payroll pending: %w", err)
		}
		return nil
	})
}

func mapToDeductionResponse(d deduction.Deduction) deduction.DeductionResponse {
	return deduction.DeductionResponse{
		ID:          d.ID,
		EmployeeID:  d.EmployeeID,
		PeriodMonth: d.PeriodMonth,
		PeriodYear:  d.PeriodYear,
		Amount:      d.Amount,
		Description: d.Description,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}
