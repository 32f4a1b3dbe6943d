// Package memory holds in-process repositories. They back the demo driver
// and the service tests.
package memory

import (
	"context"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Transactor runs fn directly. Each memory repository call is atomic on its
// own; there is no rollback.
type Transactor struct{}

func NewTransactor() Transactor {
	return Transactor{}
}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
