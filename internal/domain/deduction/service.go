package deduction

import "context"

type DeductionService interface {
	Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	List(ctx context.Context, filter DeductionFilter) ([]DeductionResponse, error)
	Delete(ctx context.Context, id string) error
}
