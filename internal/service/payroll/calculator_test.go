package payroll

import (
	"testing"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePIT(t *testing.T) {
	tests := []struct {
		gross string
		want  string
	}{
		{"0", "0"},
		{"25000", "0"},
		{"40000", "0"},
		{"40001", "0.13"},
		{"100000", "7800"},
		{"200000", "20800"},
		{"200001", "20800.23"},
		{"250000", "32300"},
	}

	for _, tt := range tests {
		t.Run(tt.gross, func(t *testing.T) {
			got, _, err := ComputePIT(dec(tt.gross), pitBrackets())
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestComputePIT_Breakdown(t *testing.T) {
	total, lines, err := ComputePIT(dec("250000"), pitBrackets())
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "pit-1", lines[0].BracketID)
	assert.True(t, dec("40000").Equal(lines[0].TaxableAmount))
	assert.True(t, dec("160000").Equal(lines[1].TaxableAmount))
	assert.True(t, dec("50000").Equal(lines[2].TaxableAmount))

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount)
	}
	assert.True(t, total.Equal(sum))
}

func TestComputePIT_StopsAtIncome(t *testing.T) {
	_, lines, err := ComputePIT(dec("30000"), pitBrackets())
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestComputePIT_NegativeIncome(t *testing.T) {
	_, _, err := ComputePIT(dec("-1"), pitBrackets())
	assert.ErrorIs(t, err, payroll.ErrInvalidIncome)
}

func TestComputePIT_MonotonicAndContinuous(t *testing.T) {
	brackets := pitBrackets()
	maxStep := dec("0.3")

	prev := decimal.Zero
	for g := int64(0); g <= 400000; g += 997 {
		tax, _, err := ComputePIT(decimal.NewFromInt(g), brackets)
		require.NoError(t, err)
		assert.False(t, tax.IsNegative(), "tax negative at %d", g)
		assert.True(t, tax.GreaterThanOrEqual(prev), "tax decreased at %d", g)
		prev = tax

		next, _, err := ComputePIT(decimal.NewFromInt(g+1), brackets)
		require.NoError(t, err)
		assert.True(t, next.Sub(tax).LessThanOrEqual(maxStep), "jump at %d: %s -> %s", g, tax, next)
	}
}

func TestComputeFlatContribution(t *testing.T) {
	social := flatBracket("social", taxconfig.ConfigTypeSocialInsurance, "9.5")

	t.Run("rate", func(t *testing.T) {
		got, err := ComputeFlatContribution(dec("100000"), social)
		require.NoError(t, err)
		assert.True(t, dec("9500").Equal(got))
	})

	t.Run("rounded to cents", func(t *testing.T) {
		health := flatBracket("health", taxconfig.ConfigTypeHealthInsurance, "1.7")
		got, err := ComputeFlatContribution(dec("12345.67"), health)
		require.NoError(t, err)
		assert.Equal(t, "209.88", got.StringFixed(2))
	})

	t.Run("fixed amount overrides rate", func(t *testing.T) {
		fixed := social
		fixed.FixedAmount = decPtr("1500")
		got, err := ComputeFlatContribution(dec("100000"), fixed)
		require.NoError(t, err)
		assert.True(t, dec("1500").Equal(got))
	})

	t.Run("zero income", func(t *testing.T) {
		got, err := ComputeFlatContribution(decimal.Zero, social)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("negative income", func(t *testing.T) {
		_, err := ComputeFlatContribution(dec("-10"), social)
		assert.ErrorIs(t, err, payroll.ErrInvalidIncome)
	})
}
