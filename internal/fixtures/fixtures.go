// Package fixtures loads tax schedules and demo employees from YAML.
package fixtures

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const supportedVersion = 1

//go:embed tax_schedule_2024.yaml
var DefaultTaxSchedule []byte

//go:embed employees.yaml
var DemoEmployees []byte

var ErrUnsupportedVersion = errors.New("unsupported fixture version")

// ==========================================
// FILE FORMAT
// ==========================================

type taxScheduleFile struct {
	Version     int             `yaml:"version"`
	TaxBrackets []bracketRecord `yaml:"tax_brackets"`
}

type bracketRecord struct {
	ConfigName     string  `yaml:"config_name"`
	ConfigType     string  `yaml:"config_type"`
	RatePercentage string  `yaml:"rate_percentage"`
	FixedAmount    *string `yaml:"fixed_amount"`
	ThresholdMin   string  `yaml:"threshold_min"`
	ThresholdMax   *string `yaml:"threshold_max"`
	EffectiveDate  string  `yaml:"effective_date"`
	EndDate        *string `yaml:"end_date"`
	Notes          *string `yaml:"notes"`
}

type employeeFile struct {
	Version   int              `yaml:"version"`
	Employees []employeeRecord `yaml:"employees"`
}

type employeeRecord struct {
	EmployeeCode     string  `yaml:"employee_code"`
	FullName         string  `yaml:"full_name"`
	Email            *string `yaml:"email"`
	Department       *string `yaml:"department"`
	HireDate         string  `yaml:"hire_date"`
	TerminationDate  *string `yaml:"termination_date"`
	EmploymentStatus string  `yaml:"employment_status"`
	BaseSalary       *string `yaml:"base_salary"`
}

// ==========================================
// PARSING
// ==========================================

// ParseTaxSchedule decodes a tax schedule file into brackets. Row rules are
// checked by the tax config validation when the brackets are stored.
func ParseTaxSchedule(data []byte) ([]taxconfig.TaxBracket, error) {
	var file taxScheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode tax schedule: %w", err)
	}
	if file.Version != supportedVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}

	brackets := make([]taxconfig.TaxBracket, 0, len(file.TaxBrackets))
	for i, rec := range file.TaxBrackets {
		b, err := rec.toBracket()
		if err != nil {
			return nil, fmt.Errorf("tax_brackets[%d] %q: %w", i, rec.ConfigName, err)
		}
		brackets = append(brackets, b)
	}
	return brackets, nil
}

func (r bracketRecord) toBracket() (taxconfig.TaxBracket, error) {
	configType := taxconfig.ConfigType(r.ConfigType)
	if !configType.IsValid() {
		return taxconfig.TaxBracket{}, taxconfig.ErrInvalidConfigType
	}
	rate, err := decimal.NewFromString(r.RatePercentage)
	if err != nil {
		return taxconfig.TaxBracket{}, fmt.Errorf("rate_percentage: %w", err)
	}
	lower := decimal.Zero
	if r.ThresholdMin != "" {
		if lower, err = decimal.NewFromString(r.ThresholdMin); err != nil {
			return taxconfig.TaxBracket{}, fmt.Errorf("threshold_min: %w", err)
		}
	}
	max, err := optionalDecimal(r.ThresholdMax)
	if err != nil {
		return taxconfig.TaxBracket{}, fmt.Errorf("threshold_max: %w", err)
	}
	fixed, err := optionalDecimal(r.FixedAmount)
	if err != nil {
		return taxconfig.TaxBracket{}, fmt.Errorf("fixed_amount: %w", err)
	}
	effective, err := parseDate(r.EffectiveDate)
	if err != nil {
		return taxconfig.TaxBracket{}, fmt.Errorf("effective_date: %w", err)
	}
	end, err := optionalDate(r.EndDate)
	if err != nil {
		return taxconfig.TaxBracket{}, fmt.Errorf("end_date: %w", err)
	}

	return taxconfig.TaxBracket{
		ConfigName:     r.ConfigName,
		ConfigType:     configType,
		RatePercentage: rate,
		FixedAmount:    fixed,
		ThresholdMin:   lower,
		ThresholdMax:   max,
		EffectiveDate:  effective,
		EndDate:        end,
		IsActive:       true,
		Notes:          r.Notes,
	}, nil
}

// ParseEmployees decodes an employee fixture file.
func ParseEmployees(data []byte) ([]employee.Employee, error) {
	var file employeeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	if file.Version != supportedVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}

	employees := make([]employee.Employee, 0, len(file.Employees))
	for i, rec := range file.Employees {
		emp, err := rec.toEmployee()
		if err != nil {
			return nil, fmt.Errorf("employees[%d] %q: %w", i, rec.EmployeeCode, err)
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func (r employeeRecord) toEmployee() (employee.Employee, error) {
	if r.EmployeeCode == "" || r.FullName == "" {
		return employee.Employee{}, errors.New("employee_code and full_name are required")
	}
	hired, err := parseDate(r.HireDate)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("hire_date: %w", err)
	}
	terminated, err := optionalDate(r.TerminationDate)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("termination_date: %w", err)
	}
	salary, err := optionalDecimal(r.BaseSalary)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("base_salary: %w", err)
	}
	status := employee.EmploymentStatusActive
	if r.EmploymentStatus != "" {
		status = employee.EmploymentStatus(r.EmploymentStatus)
	}

	return employee.Employee{
		EmployeeCode:     r.EmployeeCode,
		FullName:         r.FullName,
		Email:            r.Email,
		Department:       r.Department,
		HireDate:         hired,
		TerminationDate:  terminated,
		EmploymentStatus: status,
		BaseSalary:       salary,
	}, nil
}

// ==========================================
// SEEDING
// ==========================================

// SeedTaxSchedule stores every bracket through the tax config service.
// Brackets already present (same name and effective date) are skipped, so
// seeding twice is harmless.
func SeedTaxSchedule(ctx context.Context, svc taxconfig.TaxConfigService, data []byte) (int, error) {
	brackets, err := ParseTaxSchedule(data)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, b := range brackets {
		_, err := svc.Create(ctx, toCreateRequest(b))
		if errors.Is(err, taxconfig.ErrTaxBracketNameExists) {
			slog.Debug("tax bracket already seeded", "config_name", b.ConfigName)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to seed tax bracket %q: %w", b.ConfigName, err)
		}
		created++
	}

	slog.Info("tax schedule seeded", "brackets", len(brackets), "created", created)
	return created, nil
}

// SeedEmployees upserts every employee by code.
func SeedEmployees(ctx context.Context, seeder employee.EmployeeSeeder, data []byte) ([]employee.Employee, error) {
	employees, err := ParseEmployees(data)
	if err != nil {
		return nil, err
	}

	seeded := make([]employee.Employee, 0, len(employees))
	for _, emp := range employees {
		saved, err := seeder.Seed(ctx, emp)
		if err != nil {
			return nil, fmt.Errorf("failed to seed employee %s: %w", emp.EmployeeCode, err)
		}
		seeded = append(seeded, saved)
	}

	slog.Info("employees seeded", "count", len(seeded))
	return seeded, nil
}

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func toCreateRequest(b taxconfig.TaxBracket) taxconfig.CreateTaxBracketRequest {
	req := taxconfig.CreateTaxBracketRequest{
		ConfigName:     b.ConfigName,
		ConfigType:     string(b.ConfigType),
		RatePercentage: b.RatePercentage,
		FixedAmount:    b.FixedAmount,
		ThresholdMin:   b.ThresholdMin,
		ThresholdMax:   b.ThresholdMax,
		EffectiveDate:  b.EffectiveDate.Format(dateLayout),
		Notes:          b.Notes,
	}
	if b.EndDate != nil {
		end := b.EndDate.Format(dateLayout)
		req.EndDate = &end
	}
	return req
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func optionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
