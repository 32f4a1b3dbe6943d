package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/repository/memory"
	taxConfigService "github.com/cmlabs-hris/hrm-payroll-go/internal/service/taxconfig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaxSchedule_Default(t *testing.T) {
	brackets, err := ParseTaxSchedule(DefaultTaxSchedule)
	require.NoError(t, err)
	require.Len(t, brackets, 5)

	var pit []taxconfig.TaxBracket
	for _, b := range brackets {
		if b.ConfigType == taxconfig.ConfigTypePersonalIncomeTax {
			pit = append(pit, b)
		}
	}
	require.Len(t, pit, 3)
	assert.Nil(t, pit[2].ThresholdMax)
	assert.True(t, pit[1].ThresholdMin.Equal(decimal.NewFromInt(40001)))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), pit[0].EffectiveDate)
}

func TestParseTaxSchedule_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "version: [1"},
		{"wrong version", "version: 2\ntax_brackets: []"},
		{"bad type", "version: 1\ntax_brackets:\n  - config_name: x\n    config_type: vat\n    rate_percentage: \"1\"\n    effective_date: \"2024-01-01\""},
		{"bad rate", "version: 1\ntax_brackets:\n  - config_name: x\n    config_type: social_insurance\n    rate_percentage: abc\n    effective_date: \"2024-01-01\""},
		{"bad date", "version: 1\ntax_brackets:\n  - config_name: x\n    config_type: social_insurance\n    rate_percentage: \"1\"\n    effective_date: \"01/01/2024\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaxSchedule([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	_, err := ParseTaxSchedule([]byte("version: 3"))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestSeedTaxSchedule_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := taxConfigService.NewTaxConfigService(memory.NewTaxBracketRepository(), decimal.NewFromInt(1))

	created, err := SeedTaxSchedule(ctx, svc, DefaultTaxSchedule)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	created, err = SeedTaxSchedule(ctx, svc, DefaultTaxSchedule)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	schedule, err := svc.Schedule(ctx, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, schedule.PersonalIncomeTax, 3)
	assert.True(t, schedule.SocialInsurance.RatePercentage.Equal(decimal.RequireFromString("9.5")))
	assert.True(t, schedule.HealthInsurance.RatePercentage.Equal(decimal.RequireFromString("1.7")))
}

func TestSeedEmployees(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewEmployeeRepository()

	seeded, err := SeedEmployees(ctx, repo, DemoEmployees)
	require.NoError(t, err)
	require.Len(t, seeded, 3)
	assert.Equal(t, employee.EmploymentStatusActive, seeded[0].EmploymentStatus)

	again, err := SeedEmployees(ctx, repo, DemoEmployees)
	require.NoError(t, err)
	assert.Equal(t, seeded[1].ID, again[1].ID)

	eligible, err := repo.ListEligible(ctx, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, eligible, 3)

	// EMP-001 was hired in 2024.
	eligible, err = repo.ListEligible(ctx, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, eligible, 2)
}
