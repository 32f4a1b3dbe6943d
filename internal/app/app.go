// Package app wires repositories and services for the API and the CLI.
package app

import (
	"github.com/cmlabs-hris/hrm-payroll-go/internal/config"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/deduction"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/repository/memory"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/repository/postgresql"
	bonusService "github.com/cmlabs-hris/hrm-payroll-go/internal/service/bonus"
	deductionService "github.com/cmlabs-hris/hrm-payroll-go/internal/service/deduction"
	payrollService "github.com/cmlabs-hris/hrm-payroll-go/internal/service/payroll"
	taxConfigService "github.com/cmlabs-hris/hrm-payroll-go/internal/service/taxconfig"
)

type Repositories struct {
	Employees      employee.EmployeeRepository
	EmployeeSeeder employee.EmployeeSeeder
	TaxBrackets    taxconfig.TaxBracketRepository
	Bonuses        bonus.BonusRepository
	Deductions     deduction.DeductionRepository
	Payroll        payroll.PayrollRepository
	Transactor     database.Transactor
}

func PostgresRepositories(db *database.DB) Repositories {
	return Repositories{
		Employees:      postgresql.NewEmployeeRepository(db),
		EmployeeSeeder: postgresql.NewEmployeeSeeder(db),
		TaxBrackets:    postgresql.NewTaxBracketRepository(db),
		Bonuses:        postgresql.NewBonusRepository(db),
		Deductions:     postgresql.NewDeductionRepository(db),
		Payroll:        postgresql.NewPayrollRepository(db),
		Transactor:     postgresql.NewTransactor(db),
	}
}

// MemoryRepositories backs demo mode and tests. Data lives until the
// process exits.
func MemoryRepositories() Repositories {
	employees := memory.NewEmployeeRepository()
	return Repositories{
		Employees:      employees,
		EmployeeSeeder: employees,
		TaxBrackets:    memory.NewTaxBracketRepository(),
		Bonuses:        memory.NewBonusRepository(),
		Deductions:     memory.NewDeductionRepository(),
		Payroll:        memory.NewPayrollRepository(employees),
		Transactor:     memory.NewTransactor(),
	}
}

type Services struct {
	TaxConfig taxconfig.TaxConfigService
	Payroll   payroll.PayrollService
	Bonus     bonus.BonusService
	Deduction deduction.DeductionService
}

func NewServices(repos Repositories, locker lock.Locker, cfg config.PayrollConfig) Services {
	taxConfigSvc := taxConfigService.NewTaxConfigService(repos.TaxBrackets, cfg.CurrencyUnit)
	engine := payrollService.NewEngine(repos.Bonuses, repos.Deductions)
	coordinator := payrollService.NewCoordinator(
		taxConfigSvc,
		repos.Employees,
		repos.Payroll,
		engine,
		locker,
		payrollService.CoordinatorConfig{
			Workers:    cfg.Workers,
			RunTimeout: cfg.RunTimeout,
			LockTTL:    cfg.LockTTL,
		},
	)

	guard := payrollService.NewInputGuard(locker, repos.Transactor, cfg.LockTTL)

	return Services{
		TaxConfig: taxConfigSvc,
		Payroll:   payrollService.NewPayrollService(repos.Payroll, repos.Employees, taxConfigSvc, engine, coordinator),
		Bonus:     bonusService.NewBonusService(repos.Bonuses, repos.Employees, repos.Payroll, guard),
		Deduction: deductionService.NewDeductionService(repos.Deductions, repos.Employees, repos.Payroll, guard),
	}
}
