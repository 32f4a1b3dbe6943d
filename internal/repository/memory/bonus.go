package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/shopspring/decimal"
)

type BonusRepository struct {
	mu      sync.RWMutex
	bonuses map[string]bonus.BonusRecord
}

func NewBonusRepository() *BonusRepository {
	return &BonusRepository{bonuses: make(map[string]bonus.BonusRecord)}
}

func (r *BonusRepository) Create(ctx context.Context, record bonus.BonusRecord) (bonus.BonusRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	record.ID = newID()
	record.CreatedAt = now
	record.UpdatedAt = now
	r.bonuses[record.ID] = record
	return record, nil
}

func (r *BonusRepository) GetByID(ctx context.Context, id string) (bonus.BonusRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bonuses[id]
	if !ok {
		return bonus.BonusRecord{}, bonus.ErrBonusNotFound
	}
	return b, nil
}

func (r *BonusRepository) List(ctx context.Context, filter bonus.BonusFilter) ([]bonus.BonusRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []bonus.BonusRecord
	for _, b := range r.bonuses {
		if filter.EmployeeID != nil && b.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(b.Status) != *filter.Status {
			continue
		}
		if filter.PeriodMonth != nil && b.PeriodMonth != *filter.PeriodMonth {
			continue
		}
		if filter.PeriodYear != nil && b.PeriodYear != *filter.PeriodYear {
			continue
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return paginate(result, filter.Page, filter.Limit), int64(len(result)), nil
}

func (r *BonusRepository) Review(ctx context.Context, id string, status bonus.BonusStatus, reviewedBy string, notes *string) (bonus.BonusRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bonuses[id]
	if !ok {
		return bonus.BonusRecord{}, bonus.ErrBonusNotFound
	}
	if b.Status != bonus.BonusStatusPending {
		return bonus.BonusRecord{}, bonus.ErrBonusAlreadyReviewed
	}

	now := time.Now()
	b.Status = status
	b.ReviewedBy = &reviewedBy
	b.ReviewedAt = &now
	b.ReviewNotes = notes
	b.UpdatedAt = now
	r.bonuses[id] = b
	return b, nil
}

func (r *BonusRepository) SumApproved(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, b := range r.bonuses {
		if b.EmployeeID == employeeID && b.PeriodMonth == month && b.PeriodYear == year && b.Status == bonus.BonusStatusApproved {
			total = total.Add(b.Amount)
		}
	}
	return total, nil
}
