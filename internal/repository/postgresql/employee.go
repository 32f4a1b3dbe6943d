package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func NewEmployeeSeeder(db *database.DB) employee.EmployeeSeeder {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, employee_code, full_name, email, department, hire_date, termination_date,
	employment_status, base_salary, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.Department, &emp.HireDate, &emp.TerminationDate,
		&emp.EmploymentStatus, &emp.BaseSalary, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}

	return emp, nil
}

// ListEligible implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListEligible(ctx context.Context, referenceDate time.Time) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE employment_status = $1
			AND hire_date <= $2::date
			AND (termination_date IS NULL OR termination_date > $2::date)
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive, referenceDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// Seed implements employee.EmployeeSeeder.
func (e *employeeRepositoryImpl) Seed(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if emp.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		emp.ID = id.String()
	}

	query := `
		INSERT INTO employees (id, employee_code, full_name, email, department, hire_date, termination_date,
			employment_status, base_salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_code) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			department = EXCLUDED.department,
			hire_date = EXCLUDED.hire_date,
			termination_date = EXCLUDED.termination_date,
			employment_status = EXCLUDED.employment_status,
			base_salary = EXCLUDED.base_salary,
			updated_at = NOW()
		RETURNING ` + employeeColumns

	seeded, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.EmployeeCode, emp.FullName, emp.Email, emp.Department, emp.HireDate, emp.TerminationDate,
		emp.EmploymentStatus, emp.BaseSalary,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to seed employee %s: %w", emp.EmployeeCode, err)
	}

	return seeded, nil
}
