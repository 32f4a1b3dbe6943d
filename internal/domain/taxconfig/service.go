package taxconfig

import (
	"context"
	"time"
)

type TaxConfigService interface {
	Create(ctx context.Context, req CreateTaxBracketRequest) (TaxBracketResponse, error)
	Update(ctx context.Context, req UpdateTaxBracketRequest) (TaxBracketResponse, error)
	Deactivate(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (TaxBracketResponse, error)
	List(ctx context.Context, filter TaxBracketFilter) ([]TaxBracketResponse, error)

	// Lookup returns brackets of configType active on date, ascending by ThresholdMin.
	Lookup(ctx context.Context, date time.Time, configType ConfigType) ([]TaxBracket, error)
	// Schedule loads and validates every bracket type in force on date.
	Schedule(ctx context.Context, date time.Time) (Schedule, error)
	GetActiveSchedule(ctx context.Context, date time.Time) (ScheduleResponse, error)
}
