package app

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/config"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/lock"
)

// OpenLocker returns a Redis-backed locker when REDIS_ADDR is set and a
// process-local one otherwise. closeFn releases the Redis client.
func OpenLocker(ctx context.Context, cfg *config.Config) (locker lock.Locker, closeFn func(), err error) {
	if !cfg.Redis.Enabled() {
		slog.Info("redis not configured, using in-process payroll lock")
		return lock.NewLocalLocker(cfg.Payroll.LockWait), func() {}, nil
	}

	client, err := database.NewRedisClient(ctx, database.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}

	closeFn = func() {
		if err := client.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}
	return lock.NewRedisLocker(client, cfg.Redis.KeyPrefix, cfg.Payroll.LockWait), closeFn, nil
}
