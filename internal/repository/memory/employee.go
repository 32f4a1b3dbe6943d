package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
)

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

// Put inserts or replaces an employee. Employees are owned by the HR module,
// so this is only used for seeding.
func (r *EmployeeRepository) Put(emp employee.Employee) employee.Employee {
	r.mu.Lock()
	defer r.mu.Unlock()

	if emp.ID == "" {
		emp.ID = newID()
	}
	now := time.Now()
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	emp.UpdatedAt = now
	r.employees[emp.ID] = emp
	return emp
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *EmployeeRepository) ListEligible(ctx context.Context, referenceDate time.Time) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []employee.Employee
	for _, emp := range r.employees {
		if emp.EligibleOn(referenceDate) {
			result = append(result, emp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeCode < result[j].EmployeeCode
	})
	return result, nil
}

// Seed inserts emp or replaces the employee with the same code.
func (r *EmployeeRepository) Seed(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.RLock()
	for _, existing := range r.employees {
		if existing.EmployeeCode == emp.EmployeeCode {
			emp.ID = existing.ID
			emp.CreatedAt = existing.CreatedAt
			break
		}
	}
	r.mu.RUnlock()

	return r.Put(emp), nil
}
