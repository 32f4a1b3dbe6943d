package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
)

const payrollActor = "payroll-cron"

// PayrollJobs contains payroll-related cron jobs
type PayrollJobs struct {
	payrollService payroll.PayrollService
	now            func() time.Time
}

// NewPayrollJobs creates payroll cron jobs
func NewPayrollJobs(payrollService payroll.PayrollService) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		now:            time.Now,
	}
}

// RegisterJobs registers the monthly run. An empty spec disables it.
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	if spec == "" {
		slog.Info("Payroll cron disabled")
		return nil
	}
	return scheduler.AddJob("process_previous_month", spec, j.ProcessPreviousMonth)
}

// ProcessPreviousMonth runs payroll for the month before now as the system
// actor. Employees already paid are reported, not overwritten.
func (j *PayrollJobs) ProcessPreviousMonth(ctx context.Context) error {
	period := payroll.PeriodOf(j.now()).Previous()
	ctx = jwt.WithSystemActor(ctx, payrollActor)

	result, err := j.payrollService.ProcessPeriod(ctx, payroll.ProcessPeriodRequest{
		PeriodMonth: period.Month,
		PeriodYear:  period.Year,
	})
	if err != nil {
		return fmt.Errorf("process payroll %s: %w", period, err)
	}

	slog.Info("Scheduled payroll run finished",
		"period", period.String(),
		"run_id", result.RunID,
		"processed", result.ProcessedCount,
		"failed", result.FailedCount,
		"flagged", result.FlaggedCount,
	)
	return nil
}
