package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/deduction"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
)

// Engine turns an employee, a period and a tax schedule into a payroll
// record. It reads bonuses and deductions but never writes.
type Engine struct {
	bonusRepo     bonus.BonusRepository
	deductionRepo deduction.DeductionRepository
	now           func() time.Time
}

func NewEngine(bonusRepo bonus.BonusRepository, deductionRepo deduction.DeductionRepository) *Engine {
	return &Engine{
		bonusRepo:     bonusRepo,
		deductionRepo: deductionRepo,
		now:           time.Now,
	}
}

func (e *Engine) Compute(ctx context.Context, emp employee.Employee, period payroll.Period, schedule taxconfig.Schedule) (payroll.PayrollRecord, error) {
	if emp.BaseSalary == nil {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: employee %s has no base salary", payroll.ErrInvalidIncome, emp.EmployeeCode)
	}
	if emp.BaseSalary.IsNegative() {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: employee %s has a negative base salary", payroll.ErrInvalidIncome, emp.EmployeeCode)
	}
	base := *emp.BaseSalary

	bonuses, err := e.bonusRepo.SumApproved(ctx, emp.ID, period.Month, period.Year)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to sum approved bonuses: %w", err)
	}
	deductions, err := e.deductionRepo.SumForPeriod(ctx, emp.ID, period.Month, period.Year)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to sum deductions: %w", err)
	}

	gross := base.Add(bonuses)

	tax, breakdown, err := ComputePIT(gross, schedule.PersonalIncomeTax)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	social, err := ComputeFlatContribution(gross, schedule.SocialInsurance)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	health, err := ComputeFlatContribution(gross, schedule.HealthInsurance)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	breakdown = append(breakdown,
		flatLine(gross, social, schedule.SocialInsurance),
		flatLine(gross, health, schedule.HealthInsurance),
	)

	unclamped := gross.Sub(deductions).Sub(tax).Sub(social).Sub(health)
	net := unclamped
	negative := unclamped.IsNegative()
	if negative {
		net = decimal.Zero
	}

	processed := e.now()
	return payroll.PayrollRecord{
		EmployeeID:         emp.ID,
		PeriodMonth:        period.Month,
		PeriodYear:         period.Year,
		BaseSalary:         base,
		Bonuses:            bonuses,
		Deductions:         deductions,
		GrossSalary:        gross,
		TaxAmount:          tax,
		SocialSecurity:     social,
		HealthInsurance:    health,
		NetSalary:          net,
		UnclampedNetSalary: unclamped,
		NegativeNetSalary:  negative,
		TaxBreakdown:       breakdown,
		Status:             payroll.PayrollStatusProcessed,
		ProcessedDate:      &processed,
		EmployeeName:       &emp.FullName,
		EmployeeCode:       &emp.EmployeeCode,
	}, nil
}
