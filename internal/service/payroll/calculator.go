package payroll

import (
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
)

// Amounts are rounded half away from zero to this many places.
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// ComputePIT applies progressive marginal rates. brackets must be sorted and
// form a valid partition; see taxconfig.ValidatePartition. The lower edge of
// every bracket after the first is the previous bracket's ThresholdMax, so
// the unit between 40000 and 40001 is taxed exactly once.
func ComputePIT(gross decimal.Decimal, brackets []taxconfig.TaxBracket) (decimal.Decimal, []payroll.TaxLine, error) {
	if gross.IsNegative() {
		return decimal.Zero, nil, payroll.ErrInvalidIncome
	}

	total := decimal.Zero
	var lines []payroll.TaxLine
	for i, b := range brackets {
		lower := b.ThresholdMin
		if i > 0 && brackets[i-1].ThresholdMax != nil {
			lower = *brackets[i-1].ThresholdMax
		}
		if gross.LessThanOrEqual(lower) {
			break
		}

		upper := gross
		if b.ThresholdMax != nil && b.ThresholdMax.LessThan(gross) {
			upper = *b.ThresholdMax
		}
		taxable := upper.Sub(lower)
		amount := taxable.Mul(b.RatePercentage).Div(hundred).Round(moneyPlaces)
		total = total.Add(amount)

		lines = append(lines, payroll.TaxLine{
			BracketID:      b.ID,
			ConfigName:     b.ConfigName,
			ConfigType:     string(b.ConfigType),
			RatePercentage: b.RatePercentage,
			TaxableAmount:  taxable,
			Amount:         amount,
		})
	}

	return total, lines, nil
}

// ComputeFlatContribution returns gross × rate / 100. A bracket with a
// FixedAmount charges that amount regardless of gross.
func ComputeFlatContribution(gross decimal.Decimal, bracket taxconfig.TaxBracket) (decimal.Decimal, error) {
	if gross.IsNegative() {
		return decimal.Zero, payroll.ErrInvalidIncome
	}
	if bracket.FixedAmount != nil {
		return bracket.FixedAmount.Round(moneyPlaces), nil
	}
	return gross.Mul(bracket.RatePercentage).Div(hundred).Round(moneyPlaces), nil
}

func flatLine(gross, amount decimal.Decimal, b taxconfig.TaxBracket) payroll.TaxLine {
	return payroll.TaxLine{
		BracketID:      b.ID,
		ConfigName:     b.ConfigName,
		ConfigType:     string(b.ConfigType),
		RatePercentage: b.RatePercentage,
		TaxableAmount:  gross,
		Amount:         amount,
	}
}
