package payroll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/lock"
)

// InputGuard wraps input changes in the coordinator's employee-period lock.
type InputGuard struct {
	locker     lock.Locker
	transactor database.Transactor
	ttl        time.Duration
}

func NewInputGuard(locker lock.Locker, transactor database.Transactor, ttl time.Duration) *InputGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &InputGuard{locker: locker, transactor: transactor, ttl: ttl}
}

// Change runs fn under the lock inside one transaction. A lock held past the
// locker's wait budget surfaces as payroll.ErrEmployeeLocked.
func (g *InputGuard) Change(ctx context.Context, employeeID string, period payroll.Period, fn func(ctx context.Context) error) error {
	key := payroll.LockKey(employeeID, period)
	l, err := g.locker.Obtain(ctx, key, g.ttl)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return payroll.ErrEmployeeLocked
		}
		return err
	}
	defer func() {
		if err := l.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release payroll lock", "key", key, "error", err)
		}
	}()

	return g.transactor.WithinTransaction(ctx, fn)
}
