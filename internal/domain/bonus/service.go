package bonus

import "context"

type BonusService interface {
	Create(ctx context.Context, req CreateBonusRequest) (BonusResponse, error)
	Get(ctx context.Context, id string) (BonusResponse, error)
	List(ctx context.Context, filter BonusFilter) (ListBonusResponse, error)
	Approve(ctx context.Context, req ReviewBonusRequest) (BonusResponse, error)
	Reject(ctx context.Context, req ReviewBonusRequest) (BonusResponse, error)
}
