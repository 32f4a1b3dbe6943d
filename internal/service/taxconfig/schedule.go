package taxconfig

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
)

// ValidatePartition checks that PIT brackets, sorted ascending, cover
// [0, ∞) exactly once. Consecutive brackets may be separated by at most
// one currency unit (40000 / 40001).
func ValidatePartition(brackets []taxconfig.TaxBracket, unit decimal.Decimal) error {
	if len(brackets) == 0 || !brackets[0].Covers(decimal.Zero) {
		return taxconfig.ErrNoScheduleFound
	}

	for i := 1; i < len(brackets); i++ {
		prev, cur := brackets[i-1], brackets[i]
		if prev.ThresholdMax == nil {
			return fmt.Errorf("%w: %q is unbounded but %q follows it", taxconfig.ErrScheduleOverlap, prev.ConfigName, cur.ConfigName)
		}
		step := cur.ThresholdMin.Sub(*prev.ThresholdMax)
		if !step.IsPositive() {
			return fmt.Errorf("%w: %q starts at %s, %q ends at %s", taxconfig.ErrScheduleOverlap, cur.ConfigName, cur.ThresholdMin, prev.ConfigName, prev.ThresholdMax)
		}
		if step.GreaterThan(unit) {
			return fmt.Errorf("%w: nothing covers (%s, %s)", taxconfig.ErrScheduleGap, prev.ThresholdMax, cur.ThresholdMin)
		}
	}

	last := brackets[len(brackets)-1]
	if last.ThresholdMax != nil {
		return fmt.Errorf("%w: nothing covers income above %s", taxconfig.ErrScheduleGap, last.ThresholdMax)
	}
	return nil
}

// buildSchedule validates the three bracket sets active on date.
func buildSchedule(date time.Time, pit, social, health []taxconfig.TaxBracket, unit decimal.Decimal) (taxconfig.Schedule, error) {
	sortBrackets(pit)
	if err := ValidatePartition(pit, unit); err != nil {
		return taxconfig.Schedule{}, err
	}

	socialBracket, err := singleFlat(taxconfig.ConfigTypeSocialInsurance, social)
	if err != nil {
		return taxconfig.Schedule{}, err
	}
	healthBracket, err := singleFlat(taxconfig.ConfigTypeHealthInsurance, health)
	if err != nil {
		return taxconfig.Schedule{}, err
	}

	return taxconfig.Schedule{
		Date:              taxconfig.DateOf(date),
		PersonalIncomeTax: pit,
		SocialInsurance:   socialBracket,
		HealthInsurance:   healthBracket,
	}, nil
}

func singleFlat(configType taxconfig.ConfigType, brackets []taxconfig.TaxBracket) (taxconfig.TaxBracket, error) {
	switch len(brackets) {
	case 0:
		return taxconfig.TaxBracket{}, fmt.Errorf("%w: no active %s bracket", taxconfig.ErrNoScheduleFound, configType)
	case 1:
		return brackets[0], nil
	default:
		return taxconfig.TaxBracket{}, fmt.Errorf("%w: %d active %s brackets", taxconfig.ErrAmbiguousBracket, len(brackets), configType)
	}
}

func sortBrackets(brackets []taxconfig.TaxBracket) {
	sort.SliceStable(brackets, func(i, j int) bool {
		return brackets[i].ThresholdMin.LessThan(brackets[j].ThresholdMin)
	})
}
