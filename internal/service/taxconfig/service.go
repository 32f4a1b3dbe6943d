package taxconfig

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
)

type TaxConfigServiceImpl struct {
	bracketRepo  taxconfig.TaxBracketRepository
	currencyUnit decimal.Decimal
}

func NewTaxConfigService(bracketRepo taxconfig.TaxBracketRepository, currencyUnit decimal.Decimal) taxconfig.TaxConfigService {
	return &TaxConfigServiceImpl{
		bracketRepo:  bracketRepo,
		currencyUnit: currencyUnit,
	}
}

// ========== SCHEDULE LOOKUP ==========

func (s *TaxConfigServiceImpl) Lookup(ctx context.Context, date time.Time, configType taxconfig.ConfigType) ([]taxconfig.TaxBracket, error) {
	if !configType.IsValid() {
		return nil, taxconfig.ErrInvalidConfigType
	}

	brackets, err := s.bracketRepo.ListActiveOn(ctx, date, configType)
	if err != nil {
		return nil, err
	}
	sortBrackets(brackets)

	if !configType.IsFlat() && !coversZero(brackets) {
		return nil, fmt.Errorf("%w: %s", taxconfig.ErrNoScheduleFound, date.Format("2006-01-02"))
	}
	return brackets, nil
}

func (s *TaxConfigServiceImpl) Schedule(ctx context.Context, date time.Time) (taxconfig.Schedule, error) {
	pit, err := s.Lookup(ctx, date, taxconfig.ConfigTypePersonalIncomeTax)
	if err != nil {
		return taxconfig.Schedule{}, err
	}
	social, err := s.Lookup(ctx, date, taxconfig.ConfigTypeSocialInsurance)
	if err != nil {
		return taxconfig.Schedule{}, err
	}
	health, err := s.Lookup(ctx, date, taxconfig.ConfigTypeHealthInsurance)
	if err != nil {
		return taxconfig.Schedule{}, err
	}

	return buildSchedule(date, pit, social, health, s.currencyUnit)
}

func (s *TaxConfigServiceImpl) GetActiveSchedule(ctx context.Context, date time.Time) (taxconfig.ScheduleResponse, error) {
	schedule, err := s.Schedule(ctx, date)
	if err != nil {
		return taxconfig.ScheduleResponse{}, err
	}

	return taxconfig.ScheduleResponse{
		Date:              schedule.Date.Format("2006-01-02"),
		PersonalIncomeTax: mapToBracketResponses(schedule.PersonalIncomeTax),
		SocialInsurance:   mapToBracketResponse(schedule.SocialInsurance),
		HealthInsurance:   mapToBracketResponse(schedule.HealthInsurance),
	}, nil
}

// ========== ADMINISTRATION ==========

func (s *TaxConfigServiceImpl) Create(ctx context.Context, req taxconfig.CreateTaxBracketRequest) (taxconfig.TaxBracketResponse, error) {
	if err := req.Validate(); err != nil {
		return taxconfig.TaxBracketResponse{}, err
	}

	effectiveDate, _ := time.Parse("2006-01-02", req.EffectiveDate)
	bracket := taxconfig.TaxBracket{
		ConfigName:     req.ConfigName,
		ConfigType:     taxconfig.ConfigType(req.ConfigType),
		RatePercentage: req.RatePercentage,
		FixedAmount:    req.FixedAmount,
		ThresholdMin:   req.ThresholdMin,
		ThresholdMax:   req.ThresholdMax,
		EffectiveDate:  effectiveDate,
		IsActive:       true,
		Notes:          req.Notes,
	}
	if req.EndDate != nil {
		endDate, _ := time.Parse("2006-01-02", *req.EndDate)
		bracket.EndDate = &endDate
	}

	created, err := s.bracketRepo.Create(ctx, bracket)
	if err != nil {
		return taxconfig.TaxBracketResponse{}, err
	}

	return mapToBracketResponse(created), nil
}

func (s *TaxConfigServiceImpl) Update(ctx context.Context, req taxconfig.UpdateTaxBracketRequest) (taxconfig.TaxBracketResponse, error) {
	existing, err := s.bracketRepo.GetByID(ctx, req.ID)
	if err != nil {
		return taxconfig.TaxBracketResponse{}, err
	}

	merged, err := req.Apply(existing)
	if err != nil {
		return taxconfig.TaxBracketResponse{}, err
	}

	updated, err := s.bracketRepo.Update(ctx, merged)
	if err != nil {
		return taxconfig.TaxBracketResponse{}, err
	}

	return mapToBracketResponse(updated), nil
}

func (s *TaxConfigServiceImpl) Deactivate(ctx context.Context, id string) error {
	existing, err := s.bracketRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.IsActive {
		return taxconfig.ErrTaxBracketAlreadyEnded
	}

	return s.bracketRepo.Deactivate(ctx, id)
}

func (s *TaxConfigServiceImpl) Get(ctx context.Context, id string) (taxconfig.TaxBracketResponse, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, id)
	if err != nil {
		return taxconfig.TaxBracketResponse{}, err
	}

	return mapToBracketResponse(bracket), nil
}

func (s *TaxConfigServiceImpl) List(ctx context.Context, filter taxconfig.TaxBracketFilter) ([]taxconfig.TaxBracketResponse, error) {
	if filter.ConfigType != nil && !taxconfig.ConfigType(*filter.ConfigType).IsValid() {
		return nil, taxconfig.ErrInvalidConfigType
	}

	brackets, err := s.bracketRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return mapToBracketResponses(brackets), nil
}

// ========== HELPERS ==========

func coversZero(brackets []taxconfig.TaxBracket) bool {
	for _, b := range brackets {
		if b.Covers(decimal.Zero) {
			return true
		}
	}
	return false
}

func mapToBracketResponse(b taxconfig.TaxBracket) taxconfig.TaxBracketResponse {
	var endDate *string
	if b.EndDate != nil {
		str := b.EndDate.Format("2006-01-02")
		endDate = &str
	}

	return taxconfig.TaxBracketResponse{
		ID:             b.ID,
		ConfigName:     b.ConfigName,
		ConfigType:     string(b.ConfigType),
		RatePercentage: b.RatePercentage,
		FixedAmount:    b.FixedAmount,
		ThresholdMin:   b.ThresholdMin,
		ThresholdMax:   b.ThresholdMax,
		EffectiveDate:  b.EffectiveDate.Format("2006-01-02"),
		EndDate:        endDate,
		IsActive:       b.IsActive,
		Notes:          b.Notes,
	}
}

func mapToBracketResponses(brackets []taxconfig.TaxBracket) []taxconfig.TaxBracketResponse {
	result := make([]taxconfig.TaxBracketResponse, 0, len(brackets))
	for _, b := range brackets {
		result = append(result, mapToBracketResponse(b))
	}
	return result
}
