package bonus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
)

type BonusServiceImpl struct {
	bonusRepo    bonus.BonusRepository
	employeeRepo employee.EmployeeRepository
	payrollRepo  payroll.PayrollRepository
	guard        payroll.PeriodGuard
}

func NewBonusService(
	bonusRepo bonus.BonusRepository,
	employeeRepo employee.EmployeeRepository,
	payrollRepo payroll.PayrollRepository,
	guard payroll.PeriodGuard,
) bonus.BonusService {
	return &BonusServiceImpl{
		bonusRepo:    bonusRepo,
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		guard:        guard,
	}
}

func (s *BonusServiceImpl) Create(ctx context.Context, req bonus.CreateBonusRequest) (bonus.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return bonus.BonusResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	created, err := s.bonusRepo.Create(ctx, bonus.BonusRecord{
		EmployeeID:  emp.ID,
		BonusType:   bonus.BonusType(req.BonusType),
		Amount:      req.Amount,
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Status:      bonus.BonusStatusPending,
		Reason:      req.Reason,
		CreatedBy:   &claims.UserID,
	})
	if err != nil {
		return bonus.BonusResponse{}, err
	}
	created.EmployeeName = &emp.FullName

	return mapToBonusResponse(created), nil
}

func (s *BonusServiceImpl) Get(ctx context.Context, id string) (bonus.BonusResponse, error) {
	b, err := s.bonusRepo.GetByID(ctx, id)
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	return mapToBonusResponse(b), nil
}

func (s *BonusServiceImpl) List(ctx context.Context, filter bonus.BonusFilter) (bonus.ListBonusResponse, error) {
	records, totalCount, err := s.bonusRepo.List(ctx, filter)
	if err != nil {
		return bonus.ListBonusResponse{}, err
	}

	data := make([]bonus.BonusResponse, 0, len(records))
	for _, b := range records {
		data = append(data, mapToBonusResponse(b))
	}

	return bonus.ListBonusResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *BonusServiceImpl) Approve(ctx context.Context, req bonus.ReviewBonusRequest) (bonus.BonusResponse, error) {
	return s.review(ctx, req, bonus.BonusStatusApproved)
}

func (s *BonusServiceImpl) Reject(ctx context.Context, req bonus.ReviewBonusRequest) (bonus.BonusResponse, error) {
	return s.review(ctx, req, bonus.BonusStatusRejected)
}

func (s *BonusServiceImpl) review(ctx context.Context, req bonus.ReviewBonusRequest, status bonus.BonusStatus) (bonus.BonusResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	existing, err := s.bonusRepo.GetByID(ctx, req.ID)
	if err != nil {
		return bonus.BonusResponse{}, err
	}
	period := payroll.Period{Month: existing.PeriodMonth, Year: existing.PeriodYear}

	var reviewed bonus.BonusRecord
	err = s.guard.Change(ctx, existing.EmployeeID, period, func(ctx context.Context) error {
		reviewed, err = s.bonusRepo.Review(ctx, req.ID, status, claims.UserID, req.Notes)
		if err != nil {
			return err
		}

		// A processed payroll that no longer matches its inputs must be recomputed.
		if err := s.payrollRepo.MarkPending(ctx, reviewed.EmployeeID, reviewed.PeriodMonth, reviewed.PeriodYear); err != nil {
			return fmt.Errorf("failed to mark payroll pending: %w", err)
		}
		return nil
	})
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	slog.Info("bonus reviewed",
		"bonus_id", reviewed.ID,
		"status", string(status),
		"reviewed_by", claims.UserID,
	)
	return mapToBonusResponse(reviewed), nil
}

func mapToBonusResponse(b bonus.BonusRecord) bonus.BonusResponse {
	employeeName := ""
	if b.EmployeeName != nil {
		employeeName = *b.EmployeeName
	}

	var reviewedAt *string
	if b.ReviewedAt != nil {
		str := b.ReviewedAt.Format(time.RFC3339)
		reviewedAt = &str
	}

	return bonus.BonusResponse{
		ID:           b.ID,
		EmployeeID:   b.EmployeeID,
		EmployeeName: employeeName,
		BonusType:    string(b.BonusType),
		Amount:       b.Amount,
		PeriodMonth:  b.PeriodMonth,
		PeriodYear:   b.PeriodYear,
		Status:       string(b.Status),
		Reason:       b.Reason,
		ReviewedBy:   b.ReviewedBy,
		ReviewedAt:   reviewedAt,
		ReviewNotes:  b.ReviewNotes,
	}
}
