package deduction

import "errors"

var (
	ErrDeductionNotFound = errors.New("deduction not found")
)
