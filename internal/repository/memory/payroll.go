package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type PayrollRepository struct {
	mu        sync.RWMutex
	records   map[string]payroll.PayrollRecord
	employees *EmployeeRepository
}

// NewPayrollRepository joins employee name and code from employees when it
// is not nil.
func NewPayrollRepository(employees *EmployeeRepository) *PayrollRepository {
	return &PayrollRepository{
		records:   make(map[string]payroll.PayrollRecord),
		employees: employees,
	}
}

func (r *PayrollRepository) Upsert(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if err := ctx.Err(); err != nil {
		return payroll.PayrollRecord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.current(record.EmployeeID, record.PeriodMonth, record.PeriodYear); ok {
		if !existing.Status.CanReprocess() {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyPaid
		}
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.ID = newID()
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	r.records[record.ID] = record
	return r.join(record), nil
}

func (r *PayrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r.join(rec), nil
}

func (r *PayrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	if err := ctx.Err(); err != nil {
		return payroll.PayrollRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.current(employeeID, month, year)
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r.join(rec), nil
}

func (r *PayrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []payroll.PayrollRecord
	for _, rec := range r.records {
		if filter.PeriodMonth != nil && rec.PeriodMonth != *filter.PeriodMonth {
			continue
		}
		if filter.PeriodYear != nil && rec.PeriodYear != *filter.PeriodYear {
			continue
		}
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.FlaggedOnly && !rec.NegativeNetSalary {
			continue
		}
		result = append(result, r.join(rec))
	}

	less := func(i, j int) bool { return result[i].ID < result[j].ID }
	switch filter.SortBy {
	case "net_salary":
		less = func(i, j int) bool { return result[i].NetSalary.LessThan(result[j].NetSalary) }
	case "gross_salary":
		less = func(i, j int) bool { return result[i].GrossSalary.LessThan(result[j].GrossSalary) }
	case "employee_code":
		less = func(i, j int) bool { return deref(result[i].EmployeeCode) < deref(result[j].EmployeeCode) }
	}
	if filter.SortOrder == "desc" {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(result, less)

	return paginate(result, filter.Page, filter.Limit), int64(len(result)), nil
}

func (r *PayrollRepository) MarkPaid(ctx context.Context, ids []string, paidBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		rec, ok := r.records[id]
		if !ok {
			return payroll.ErrPayrollRecordNotFound
		}
		if rec.Status == payroll.PayrollStatusPaid {
			return payroll.ErrPayrollRecordAlreadyPaid
		}
		if rec.Status != payroll.PayrollStatusProcessed {
			return payroll.ErrPayrollRecordNotProcessed
		}
	}

	now := time.Now()
	for _, id := range ids {
		rec := r.records[id]
		rec.Status = payroll.PayrollStatusPaid
		rec.PaidAt = &now
		rec.PaidBy = &paidBy
		rec.UpdatedAt = now
		r.records[id] = rec
	}
	return nil
}

func (r *PayrollRepository) MarkPending(ctx context.Context, employeeID string, month, year int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.current(employeeID, month, year)
	if !ok || rec.Status != payroll.PayrollStatusProcessed {
		return nil
	}
	rec.Status = payroll.PayrollStatusPending
	rec.UpdatedAt = time.Now()
	r.records[rec.ID] = rec
	return nil
}

func (r *PayrollRepository) Supersede(ctx context.Context, id string, notes *string) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	if rec.Status != payroll.PayrollStatusPaid {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotPaid
	}

	now := time.Now()
	rec.Status = payroll.PayrollStatusSuperseded
	rec.SupersededAt = &now
	if notes != nil {
		rec.Notes = notes
	}
	rec.UpdatedAt = now
	r.records[id] = rec
	return r.join(rec), nil
}

func (r *PayrollRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	if !rec.Status.CanReprocess() {
		return payroll.ErrCannotDeletePaidRecord
	}
	delete(r.records, id)
	return nil
}

func (r *PayrollRepository) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := payroll.PayrollSummaryResponse{
		PeriodMonth:          month,
		PeriodYear:           year,
		TotalBaseSalary:      decimal.Zero,
		TotalBonuses:         decimal.Zero,
		TotalDeductions:      decimal.Zero,
		TotalGrossSalary:     decimal.Zero,
		TotalTax:             decimal.Zero,
		TotalSocialSecurity:  decimal.Zero,
		TotalHealthInsurance: decimal.Zero,
		TotalNetSalary:       decimal.Zero,
	}
	for _, rec := range r.records {
		if rec.PeriodMonth != month || rec.PeriodYear != year || rec.Status == payroll.PayrollStatusSuperseded {
			continue
		}
		s.TotalEmployees++
		s.TotalBaseSalary = s.TotalBaseSalary.Add(rec.BaseSalary)
		s.TotalBonuses = s.TotalBonuses.Add(rec.Bonuses)
		s.TotalDeductions = s.TotalDeductions.Add(rec.Deductions)
		s.TotalGrossSalary = s.TotalGrossSalary.Add(rec.GrossSalary)
		s.TotalTax = s.TotalTax.Add(rec.TaxAmount)
		s.TotalSocialSecurity = s.TotalSocialSecurity.Add(rec.SocialSecurity)
		s.TotalHealthInsurance = s.TotalHealthInsurance.Add(rec.HealthInsurance)
		s.TotalNetSalary = s.TotalNetSalary.Add(rec.NetSalary)
		switch rec.Status {
		case payroll.PayrollStatusPending:
			s.PendingCount++
		case payroll.PayrollStatusProcessed:
			s.ProcessedCount++
		case payroll.PayrollStatusPaid:
			s.PaidCount++
		}
		if rec.NegativeNetSalary {
			s.FlaggedCount++
		}
	}
	return s, nil
}

// current returns the non-superseded record. Caller holds r.mu.
func (r *PayrollRepository) current(employeeID string, month, year int) (payroll.PayrollRecord, bool) {
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && rec.PeriodMonth == month && rec.PeriodYear == year &&
			rec.Status != payroll.PayrollStatusSuperseded {
			return rec, true
		}
	}
	return payroll.PayrollRecord{}, false
}

func (r *PayrollRepository) join(rec payroll.PayrollRecord) payroll.PayrollRecord {
	if r.employees == nil {
		return rec
	}
	if emp, err := r.employees.GetByID(context.Background(), rec.EmployeeID); err == nil {
		rec.EmployeeName = &emp.FullName
		rec.EmployeeCode = &emp.EmployeeCode
	}
	return rec
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
