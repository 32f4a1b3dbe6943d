package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListEligible returns employees eligible for a run whose reference date
	// is referenceDate, ordered by employee code.
	ListEligible(ctx context.Context, referenceDate time.Time) ([]Employee, error)
}

// EmployeeSeeder loads fixture employees, matching on EmployeeCode.
type EmployeeSeeder interface {
	Seed(ctx context.Context, emp Employee) (Employee, error)
}
