package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/deduction"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/repository/memory"
	taxconfigservice "github.com/cmlabs-hris/hrm-payroll-go/internal/service/taxconfig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	march2024  = payroll.Period{Month: 3, Year: 2024}
	fixedClock = time.Date(2024, 4, 1, 2, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func pitBrackets() []taxconfig.TaxBracket {
	effective := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []taxconfig.TaxBracket{
		{ID: "pit-1", ConfigName: "PIT 0%", ConfigType: taxconfig.ConfigTypePersonalIncomeTax, RatePercentage: dec("0"), ThresholdMin: dec("0"), ThresholdMax: decPtr("40000"), EffectiveDate: effective, IsActive: true},
		{ID: "pit-2", ConfigName: "PIT 13%", ConfigType: taxconfig.ConfigTypePersonalIncomeTax, RatePercentage: dec("13"), ThresholdMin: dec("40001"), ThresholdMax: decPtr("200000"), EffectiveDate: effective, IsActive: true},
		{ID: "pit-3", ConfigName: "PIT 23%", ConfigType: taxconfig.ConfigTypePersonalIncomeTax, RatePercentage: dec("23"), ThresholdMin: dec("200001"), EffectiveDate: effective, IsActive: true},
	}
}

func flatBracket(id string, configType taxconfig.ConfigType, rate string) taxconfig.TaxBracket {
	return taxconfig.TaxBracket{
		ID:             id,
		ConfigName:     string(configType),
		ConfigType:     configType,
		RatePercentage: dec(rate),
		ThresholdMin:   dec("0"),
		EffectiveDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
}

func testSchedule() taxconfig.Schedule {
	return taxconfig.Schedule{
		Date:              march2024.ReferenceDate(),
		PersonalIncomeTax: pitBrackets(),
		SocialInsurance:   flatBracket("social", taxconfig.ConfigTypeSocialInsurance, "9.5"),
		HealthInsurance:   flatBracket("health", taxconfig.ConfigTypeHealthInsurance, "1.7"),
	}
}

type fixture struct {
	employees   *memory.EmployeeRepository
	bonuses     *memory.BonusRepository
	deductions  *memory.DeductionRepository
	records     *memory.PayrollRepository
	brackets    *memory.TaxBracketRepository
	taxConfig   taxconfig.TaxConfigService
	engine      *Engine
	locker      *lock.LocalLocker
	coordinator *Coordinator
	service     payroll.PayrollService
}

func newFixture(t *testing.T, cfg CoordinatorConfig) *fixture {
	t.Helper()

	f := &fixture{
		employees:  memory.NewEmployeeRepository(),
		bonuses:    memory.NewBonusRepository(),
		deductions: memory.NewDeductionRepository(),
		brackets:   memory.NewTaxBracketRepository(),
		locker:     lock.NewLocalLocker(2 * time.Second),
	}
	f.records = memory.NewPayrollRepository(f.employees)
	f.taxConfig = taxconfigservice.NewTaxConfigService(f.brackets, decimal.NewFromInt(1))
	f.engine = NewEngine(f.bonuses, f.deductions)
	f.engine.now = func() time.Time { return fixedClock }
	f.coordinator = NewCoordinator(f.taxConfig, f.employees, f.records, f.engine, f.locker, cfg)
	f.service = NewPayrollService(f.records, f.employees, f.taxConfig, f.engine, f.coordinator)
	return f
}

func (f *fixture) seedSchedule(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	brackets := append(pitBrackets(),
		flatBracket("", taxconfig.ConfigTypeSocialInsurance, "9.5"),
		flatBracket("", taxconfig.ConfigTypeHealthInsurance, "1.7"),
	)
	for _, b := range brackets {
		_, err := f.brackets.Create(ctx, b)
		require.NoError(t, err)
	}
}

func (f *fixture) addEmployee(code, salary string) employee.Employee {
	emp := employee.Employee{
		EmployeeCode:     code,
		FullName:         "Employee " + code,
		HireDate:         time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC),
		EmploymentStatus: employee.EmploymentStatusActive,
	}
	if salary != "" {
		emp.BaseSalary = decPtr(salary)
	}
	return f.employees.Put(emp)
}

func (f *fixture) addBonus(t *testing.T, employeeID, amount string, status bonus.BonusStatus) {
	t.Helper()
	_, err := f.bonuses.Create(context.Background(), bonus.BonusRecord{
		EmployeeID:  employeeID,
		BonusType:   bonus.BonusTypePerformance,
		Amount:      dec(amount),
		PeriodMonth: march2024.Month,
		PeriodYear:  march2024.Year,
		Status:      status,
	})
	require.NoError(t, err)
}

func (f *fixture) addDeduction(t *testing.T, employeeID, amount string) {
	t.Helper()
	_, err := f.deductions.Create(context.Background(), deduction.Deduction{
		EmployeeID:  employeeID,
		PeriodMonth: march2024.Month,
		PeriodYear:  march2024.Year,
		Amount:      dec(amount),
		Description: "salary advance",
	})
	require.NoError(t, err)
}

func failureFor(result payroll.RunResult, employeeID string) *payroll.RunFailure {
	for i := range result.Failures {
		if result.Failures[i].EmployeeID == employeeID {
			return &result.Failures[i]
		}
	}
	return nil
}
