package bonus

import "errors"

var (
	ErrBonusNotFound        = errors.New("bonus not found")
	ErrBonusAlreadyReviewed = errors.New("bonus already approved or rejected")
	ErrInvalidBonusType     = errors.New("invalid bonus type")
)
