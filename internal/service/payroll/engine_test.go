package payroll

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Compute(t *testing.T) {
	f := newFixture(t, CoordinatorConfig{Workers: 1})
	emp := f.addEmployee("E001", "200000")

	record, err := f.engine.Compute(context.Background(), emp, march2024, testSchedule())
	require.NoError(t, err)

	assert.Equal(t, emp.ID, record.EmployeeID)
	assert.Equal(t, 3, record.PeriodMonth)
	assert.Equal(t, 2024, record.PeriodYear)
	assert.True(t, dec("200000").Equal(record.GrossSalary))
	assert.True(t, dec("20800").Equal(record.TaxAmount))
	assert.True(t, dec("19000").Equal(record.SocialSecurity))
	assert.True(t, dec("3400").Equal(record.HealthInsurance))
	assert.True(t, dec("156800").Equal(record.NetSalary))
	assert.True(t, record.NetSalary.Equal(record.UnclampedNetSalary))
	assert.False(t, record.NegativeNetSalary)
	assert.Equal(t, payroll.PayrollStatusProcessed, record.Status)
	require.NotNil(t, record.ProcessedDate)
	assert.Equal(t, fixedClock, *record.ProcessedDate)
	assert.Empty(t, record.ID)

	// Three PIT lines plus social and health.
	assert.Len(t, record.TaxBreakdown, 4)
}

func TestEngine_OnlyApprovedBonuses(t *testing.T) {
	f := newFixture(t, CoordinatorConfig{Workers: 1})
	emp := f.addEmployee("E001", "100000")
	f.addBonus(t, emp.ID, "10000", bonus.BonusStatusApproved)
	f.addBonus(t, emp.ID, "5000", bonus.BonusStatusPending)
	f.addBonus(t, emp.ID, "7000", bonus.BonusStatusRejected)

	record, err := f.engine.Compute(context.Background(), emp, march2024, testSchedule())
	require.NoError(t, err)

	assert.True(t, dec("10000").Equal(record.Bonuses))
	assert.True(t, dec("110000").Equal(record.GrossSalary))
}

func TestEngine_DeductionsReduceNetNotGross(t *testing.T) {
	f := newFixture(t, CoordinatorConfig{Workers: 1})
	emp := f.addEmployee("E001", "100000")
	f.addDeduction(t, emp.ID, "2500")

	record, err := f.engine.Compute(context.Background(), emp, march2024, testSchedule())
	require.NoError(t, err)

	// 100000 - 2500 - 7800 - 9500 - 1700
	assert.True(t, dec("100000").Equal(record.GrossSalary))
	assert.True(t, dec("2500").Equal(record.Deductions))
	assert.True(t, dec("78500").Equal(record.NetSalary))
}

func TestEngine_NegativeNetIsClamped(t *testing.T) {
	f := newFixture(t, CoordinatorConfig{Workers: 1})
	emp := f.addEmployee("E001", "30000")
	f.addDeduction(t, emp.ID, "40000")

	record, err := f.engine.Compute(context.Background(), emp, march2024, testSchedule())
	require.NoError(t, err)

	// 30000 - 40000 - 0 - 2850 - 510
	assert.True(t, record.NetSalary.IsZero())
	assert.True(t, record.NegativeNetSalary)
	assert.True(t, dec("-13360").Equal(record.UnclampedNetSalary))
}

func TestEngine_InvalidIncome(t *testing.T) {
	f := newFixture(t, CoordinatorConfig{Workers: 1})

	t.Run("missing base salary", func(t *testing.T) {
		emp := f.addEmployee("E001", "")
		_, err := f.engine.Compute(context.Background(), emp, march2024, testSchedule())
		assert.ErrorIs(t, err, payroll.ErrInvalidIncome)
	})

	t.Run("negative base salary", func(t *testing.T) {
		emp := f.addEmployee("E002", "-100")
		_, err := f.engine.Compute(context.Background(), emp, march2024, testSchedule())
		assert.ErrorIs(t, err, payroll.ErrInvalidIncome)
	})
}

func TestEngine_ZeroSalary(t *testing.T) {
	f := newFixture(t, CoordinatorConfig{Workers: 1})
	emp := f.addEmployee("E001", "0")

	record, err := f.engine.Compute(context.Background(), emp, march2024, testSchedule())
	require.NoError(t, err)

	assert.True(t, record.GrossSalary.IsZero())
	assert.True(t, record.TaxAmount.IsZero())
	assert.True(t, record.NetSalary.IsZero())
	assert.False(t, record.NegativeNetSalary)
}
