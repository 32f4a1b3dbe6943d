package bonus

import (
	"context"

	"github.com/shopspring/decimal"
)

type BonusRepository interface {
	Create(ctx context.Context, record BonusRecord) (BonusRecord, error)
	GetByID(ctx context.Context, id string) (BonusRecord, error)
	List(ctx context.Context, filter BonusFilter) ([]BonusRecord, int64, error)
	// Review moves a pending bonus to status. Returns ErrBonusAlreadyReviewed
	// when the bonus is no longer pending.
	Review(ctx context.Context, id string, status BonusStatus, reviewedBy string, notes *string) (BonusRecord, error)
	// SumApproved totals approved bonuses for the employee-period.
	SumApproved(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error)
}
