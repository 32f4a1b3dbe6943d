package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 4, cfg.Payroll.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Payroll.RunTimeout)
	assert.Equal(t, "0 2 1 * *", cfg.Payroll.Cron)
	assert.Equal(t, "1", cfg.Payroll.CurrencyUnit.String())
	assert.Equal(t, "enforce", cfg.Authz.Mode)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"DB_DRIVER": "memory"}},
		{"postgres without password", map[string]string{"JWT_SECRET_KEY": "s"}},
		{"unknown driver", map[string]string{"JWT_SECRET_KEY": "s", "DB_DRIVER": "sqlite"}},
		{"bad workers", map[string]string{"JWT_SECRET_KEY": "s", "DB_DRIVER": "memory", "PAYROLL_WORKERS": "x"}},
		{"zero workers", map[string]string{"JWT_SECRET_KEY": "s", "DB_DRIVER": "memory", "PAYROLL_WORKERS": "0"}},
		{"bad timeout", map[string]string{"JWT_SECRET_KEY": "s", "DB_DRIVER": "memory", "PAYROLL_RUN_TIMEOUT": "soon"}},
		{"bad cron", map[string]string{"JWT_SECRET_KEY": "s", "DB_DRIVER": "memory", "PAYROLL_CRON": "every day"}},
		{"bad unit", map[string]string{"JWT_SECRET_KEY": "s", "DB_DRIVER": "memory", "PAYROLL_CURRENCY_UNIT": "0"}},
		{"bad authz mode", map[string]string{"JWT_SECRET_KEY": "s", "DB_DRIVER": "memory", "AUTHZ_MODE": "audit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DB_DRIVER", "DB_PASSWORD", "JWT_SECRET_KEY"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
