package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/lock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ScheduleSource loads the validated tax schedule for a date.
type ScheduleSource interface {
	Schedule(ctx context.Context, date time.Time) (taxconfig.Schedule, error)
}

type CoordinatorConfig struct {
	Workers    int
	RunTimeout time.Duration
	LockTTL    time.Duration
}

// Coordinator runs the engine over every eligible employee of a period and
// persists the results.
type Coordinator struct {
	schedules ScheduleSource
	employees employee.EmployeeRepository
	records   payroll.PayrollRepository
	engine    *Engine
	locker    lock.Locker
	cfg       CoordinatorConfig
	now       func() time.Time
}

func NewCoordinator(
	schedules ScheduleSource,
	employees employee.EmployeeRepository,
	records payroll.PayrollRepository,
	engine *Engine,
	locker lock.Locker,
	cfg CoordinatorConfig,
) *Coordinator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	return &Coordinator{
		schedules: schedules,
		employees: employees,
		records:   records,
		engine:    engine,
		locker:    locker,
		cfg:       cfg,
		now:       time.Now,
	}
}

type outcome struct {
	record  *payroll.PayrollRecord
	failure *payroll.RunFailure
}

// ProcessPeriod computes and upserts payroll for the period. employeeIDs
// restricts the run; nil means every eligible employee. Per-employee problems
// end up in RunResult.Failures. Only configuration errors and failures to
// list employees are returned as errors, and in that case nothing is written.
func (c *Coordinator) ProcessPeriod(ctx context.Context, period payroll.Period, employeeIDs []string) (payroll.RunResult, error) {
	runID, err := uuid.NewV7()
	if err != nil {
		return payroll.RunResult{}, fmt.Errorf("failed to generate run id: %w", err)
	}
	result := payroll.RunResult{
		RunID:     runID.String(),
		Period:    period,
		StartedAt: c.now(),
	}

	runCtx := ctx
	if c.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.cfg.RunTimeout)
		defer cancel()
	}

	refDate := period.ReferenceDate()
	schedule, err := c.schedules.Schedule(runCtx, refDate)
	if err != nil {
		return payroll.RunResult{}, fmt.Errorf("failed to load tax schedule for %s: %w", period, err)
	}

	eligible, err := c.employees.ListEligible(runCtx, refDate)
	if err != nil {
		return payroll.RunResult{}, fmt.Errorf("failed to list eligible employees: %w", err)
	}
	targets, notEligible := selectEmployees(eligible, employeeIDs)
	result.Failures = append(result.Failures, notEligible...)

	outcomes := make([]outcome, len(targets))
	g := new(errgroup.Group)
	g.SetLimit(c.cfg.Workers)
	for i, emp := range targets {
		i, emp := i, emp
		g.Go(func() error {
			outcomes[i] = c.processEmployee(runCtx, emp, period, schedule)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.record != nil {
			result.Records = append(result.Records, *o.record)
		}
		if o.failure != nil {
			result.Failures = append(result.Failures, *o.failure)
		}
	}
	result.FinishedAt = c.now()

	slog.Info("payroll run finished",
		"run_id", result.RunID,
		"period", period.String(),
		"processed", len(result.Records),
		"failed", len(result.Failures),
		"flagged", result.FlaggedCount(),
		"duration", result.FinishedAt.Sub(result.StartedAt).String(),
	)
	return result, nil
}

func (c *Coordinator) processEmployee(ctx context.Context, emp employee.Employee, period payroll.Period, schedule taxconfig.Schedule) outcome {
	if err := ctx.Err(); err != nil {
		return failed(emp.ID, payroll.FailureIncomplete, fmt.Errorf("%w: %v", payroll.ErrRunIncomplete, err))
	}

	key := payroll.LockKey(emp.ID, period)
	l, err := c.locker.Obtain(ctx, key, c.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return failed(emp.ID, payroll.FailureLocked, payroll.ErrEmployeeLocked)
		}
		return classify(emp.ID, err)
	}
	defer func() {
		if err := l.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release payroll lock", "key", key, "error", err)
		}
	}()

	existing, err := c.records.GetByEmployeePeriod(ctx, emp.ID, period.Month, period.Year)
	switch {
	case err == nil && !existing.Status.CanReprocess():
		return failed(emp.ID, payroll.FailureAlreadyPaid, payroll.ErrPayrollRecordAlreadyPaid)
	case err != nil && !errors.Is(err, payroll.ErrPayrollRecordNotFound):
		return classify(emp.ID, err)
	}

	record, err := c.engine.Compute(ctx, emp, period, schedule)
	if err != nil {
		return classify(emp.ID, err)
	}

	saved, err := c.records.Upsert(ctx, record)
	if err != nil {
		return classify(emp.ID, err)
	}
	if saved.EmployeeName == nil {
		saved.EmployeeName = record.EmployeeName
		saved.EmployeeCode = record.EmployeeCode
	}
	return outcome{record: &saved}
}

// selectEmployees restricts eligible to ids, keeping eligible's order.
// Requested ids that are not eligible become NOT_ELIGIBLE failures.
func selectEmployees(eligible []employee.Employee, ids []string) ([]employee.Employee, []payroll.RunFailure) {
	if len(ids) == 0 {
		return eligible, nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var targets []employee.Employee
	found := make(map[string]bool, len(ids))
	for _, emp := range eligible {
		if wanted[emp.ID] {
			targets = append(targets, emp)
			found[emp.ID] = true
		}
	}

	var failures []payroll.RunFailure
	for _, id := range ids {
		if !found[id] {
			failures = append(failures, payroll.RunFailure{
				EmployeeID: id,
				Reason:     payroll.FailureNotEligible,
				Message:    payroll.ErrEmployeeNotEligible.Error(),
			})
			found[id] = true
		}
	}
	return targets, failures
}

func classify(employeeID string, err error) outcome {
	switch {
	case errors.Is(err, payroll.ErrInvalidIncome):
		return failed(employeeID, payroll.FailureInvalidIncome, err)
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid):
		return failed(employeeID, payroll.FailureAlreadyPaid, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return failed(employeeID, payroll.FailureIncomplete, fmt.Errorf("%w: %v", payroll.ErrRunIncomplete, err))
	default:
		slog.Error("payroll computation failed", "employee_id", employeeID, "error", err)
		return failed(employeeID, payroll.FailureFailed, err)
	}
}

func failed(employeeID string, reason payroll.FailureReason, err error) outcome {
	return outcome{failure: &payroll.RunFailure{
		EmployeeID: employeeID,
		Reason:     reason,
		Message:    err.Error(),
	}}
}
