package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
)

type TaxBracketRepository struct {
	mu       sync.RWMutex
	brackets map[string]taxconfig.TaxBracket
}

func NewTaxBracketRepository() *TaxBracketRepository {
	return &TaxBracketRepository{brackets: make(map[string]taxconfig.TaxBracket)}
}

func (r *TaxBracketRepository) Create(ctx context.Context, bracket taxconfig.TaxBracket) (taxconfig.TaxBracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.brackets {
		if b.ConfigName == bracket.ConfigName && b.EffectiveDate.Equal(bracket.EffectiveDate) {
			return taxconfig.TaxBracket{}, taxconfig.ErrTaxBracketNameExists
		}
	}

	now := time.Now()
	bracket.ID = newID()
	bracket.CreatedAt = now
	bracket.UpdatedAt = now
	r.brackets[bracket.ID] = bracket
	return bracket, nil
}

func (r *TaxBracketRepository) GetByID(ctx context.Context, id string) (taxconfig.TaxBracket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.brackets[id]
	if !ok {
		return taxconfig.TaxBracket{}, taxconfig.ErrTaxBracketNotFound
	}
	return b, nil
}

func (r *TaxBracketRepository) List(ctx context.Context, filter taxconfig.TaxBracketFilter) ([]taxconfig.TaxBracket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]taxconfig.TaxBracket, 0, len(r.brackets))
	for _, b := range r.brackets {
		if filter.ConfigType != nil && string(b.ConfigType) != *filter.ConfigType {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive {
			continue
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ConfigType != result[j].ConfigType {
			return result[i].ConfigType < result[j].ConfigType
		}
		if !result[i].EffectiveDate.Equal(result[j].EffectiveDate) {
			return result[i].EffectiveDate.After(result[j].EffectiveDate)
		}
		return result[i].ThresholdMin.LessThan(result[j].ThresholdMin)
	})
	return result, nil
}

func (r *TaxBracketRepository) ListActiveOn(ctx context.Context, date time.Time, configType taxconfig.ConfigType) ([]taxconfig.TaxBracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []taxconfig.TaxBracket
	for _, b := range r.brackets {
		if b.ConfigType == configType && b.ActiveOn(date) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ThresholdMin.LessThan(result[j].ThresholdMin)
	})
	return result, nil
}

func (r *TaxBracketRepository) Update(ctx context.Context, bracket taxconfig.TaxBracket) (taxconfig.TaxBracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.brackets[bracket.ID]; !ok {
		return taxconfig.TaxBracket{}, taxconfig.ErrTaxBracketNotFound
	}
	bracket.UpdatedAt = time.Now()
	r.brackets[bracket.ID] = bracket
	return bracket, nil
}

func (r *TaxBracketRepository) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.brackets[id]
	if !ok {
		return taxconfig.ErrTaxBracketNotFound
	}
	b.IsActive = false
	b.UpdatedAt = time.Now()
	r.brackets[id] = b
	return nil
}
