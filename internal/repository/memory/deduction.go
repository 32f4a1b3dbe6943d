package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/deduction"
	"github.com/shopspring/decimal"
)

type DeductionRepository struct {
	mu         sync.RWMutex
	deductions map[string]deduction.Deduction
}

func NewDeductionRepository() *DeductionRepository {
	return &DeductionRepository{deductions: make(map[string]deduction.Deduction)}
}

func (r *DeductionRepository) Create(ctx context.Context, d deduction.Deduction) (deduction.Deduction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = newID()
	d.CreatedAt = time.Now()
	r.deductions[d.ID] = d
	return d, nil
}

func (r *DeductionRepository) GetByID(ctx context.Context, id string) (deduction.Deduction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.deductions[id]
	if !ok {
		return deduction.Deduction{}, deduction.ErrDeductionNotFound
	}
	return d, nil
}

func (r *DeductionRepository) List(ctx context.Context, filter deduction.DeductionFilter) ([]deduction.Deduction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []deduction.Deduction
	for _, d := range r.deductions {
		if filter.EmployeeID != nil && d.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.PeriodMonth != nil && d.PeriodMonth != *filter.PeriodMonth {
			continue
		}
		if filter.PeriodYear != nil && d.PeriodYear != *filter.PeriodYear {
			continue
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *DeductionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.deductions[id]; !ok {
		return deduction.ErrDeductionNotFound
	}
	delete(r.deductions, id)
	return nil
}

func (r *DeductionRepository) SumForPeriod(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, d := range r.deductions {
		if d.EmployeeID == employeeID && d.PeriodMonth == month && d.PeriodYear == year {
			total = total.Add(d.Amount)
		}
	}
	return total, nil
}
