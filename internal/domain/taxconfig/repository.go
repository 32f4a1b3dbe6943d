package taxconfig

import (
	"context"
	"time"
)

type TaxBracketRepository interface {
	Create(ctx context.Context, bracket TaxBracket) (TaxBracket, error)
	GetByID(ctx context.Context, id string) (TaxBracket, error)
	List(ctx context.Context, filter TaxBracketFilter) ([]TaxBracket, error)
	// ListActiveOn returns brackets of configType active on date, ascending by threshold_min.
	ListActiveOn(ctx context.Context, date time.Time, configType ConfigType) ([]TaxBracket, error)
	Update(ctx context.Context, bracket TaxBracket) (TaxBracket, error)
	Deactivate(ctx context.Context, id string) error
}
