package deduction

import (
	"context"

	"github.com/shopspring/decimal"
)

type DeductionRepository interface {
	Create(ctx context.Context, d Deduction) (Deduction, error)
	GetByID(ctx context.Context, id string) (Deduction, error)
	List(ctx context.Context, filter DeductionFilter) ([]Deduction, error)
	Delete(ctx context.Context, id string) error
	SumForPeriod(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error)
}
