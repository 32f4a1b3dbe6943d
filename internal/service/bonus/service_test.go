package bonus

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/repository/memory"
	payrollService "github.com/cmlabs-hris/hrm-payroll-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard() payroll.PeriodGuard {
	return payrollService.NewInputGuard(lock.NewLocalLocker(time.Second), memory.NewTransactor(), time.Second)
}

type fixture struct {
	employees *memory.EmployeeRepository
	records   *memory.PayrollRepository
	bonuses   *memory.BonusRepository
	service   bonus.BonusService
	emp       employee.Employee
	ctx       context.Context
}

func newFixture() *fixture {
	employees := memory.NewEmployeeRepository()
	records := memory.NewPayrollRepository(employees)
	salary := decimal.NewFromInt(100000)
	emp := employees.Put(employee.Employee{
		EmployeeCode:     "E001",
		FullName:         "Arta Hoxha",
		HireDate:         time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		EmploymentStatus: employee.EmploymentStatusActive,
		BaseSalary:       &salary,
	})

	bonuses := memory.NewBonusRepository()
	return &fixture{
		employees: employees,
		records:   records,
		bonuses:   bonuses,
		service:   NewBonusService(bonuses, employees, records, newGuard()),
		emp:       emp,
		ctx:       jwt.WithSystemActor(context.Background(), "hr-1"),
	}
}

func (f *fixture) create(t *testing.T) bonus.BonusResponse {
	t.Helper()
	resp, err := f.service.Create(f.ctx, bonus.CreateBonusRequest{
		EmployeeID:  f.emp.ID,
		BonusType:   "performance",
		Amount:      decimal.NewFromInt(15000),
		PeriodMonth: 3,
		PeriodYear:  2024,
	})
	require.NoError(t, err)
	return resp
}

func TestCreate(t *testing.T) {
	f := newFixture()

	resp := f.create(t)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Arta Hoxha", resp.EmployeeName)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(f.ctx, bonus.CreateBonusRequest{EmployeeID: f.emp.ID, BonusType: "signing", PeriodMonth: 3, PeriodYear: 2024})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "bonus_type")
	assert.Contains(t, verrs.ToMap(), "amount")
}

func TestCreate_AmountPrecision(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(f.ctx, bonus.CreateBonusRequest{
		EmployeeID: f.emp.ID, BonusType: "team", Amount: decimal.RequireFromString("99.999"), PeriodMonth: 3, PeriodYear: 2024,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "must have at most two decimal places", verrs.ToMap()["amount"])
}

func TestCreate_UnknownEmployee(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(f.ctx, bonus.CreateBonusRequest{
		EmployeeID: "missing", BonusType: "team", Amount: decimal.NewFromInt(1), PeriodMonth: 3, PeriodYear: 2024,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestApprove(t *testing.T) {
	f := newFixture()
	created := f.create(t)

	approved, err := f.service.Approve(f.ctx, bonus.ReviewBonusRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "hr-1", *approved.ReviewedBy)

	_, err = f.service.Reject(f.ctx, bonus.ReviewBonusRequest{ID: created.ID})
	assert.ErrorIs(t, err, bonus.ErrBonusAlreadyReviewed)
}

func TestApprove_MarksProcessedPayrollPending(t *testing.T) {
	f := newFixture()
	processed := time.Now()
	record, err := f.records.Upsert(context.Background(), payroll.PayrollRecord{
		EmployeeID:    f.emp.ID,
		PeriodMonth:   3,
		PeriodYear:    2024,
		Status:        payroll.PayrollStatusProcessed,
		ProcessedDate: &processed,
	})
	require.NoError(t, err)
	created := f.create(t)

	_, err = f.service.Approve(f.ctx, bonus.ReviewBonusRequest{ID: created.ID})
	require.NoError(t, err)

	stored, err := f.records.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPending, stored.Status)
}

func TestApprove_PeriodLocked(t *testing.T) {
	f := newFixture()
	created := f.create(t)

	locker := lock.NewLocalLocker(20 * time.Millisecond)
	guard := payrollService.NewInputGuard(locker, memory.NewTransactor(), time.Second)
	svc := NewBonusService(f.bonuses, f.employees, f.records, guard)

	held, err := locker.Obtain(context.Background(), payroll.LockKey(f.emp.ID, payroll.Period{Month: 3, Year: 2024}), time.Second)
	require.NoError(t, err)

	_, err = svc.Approve(f.ctx, bonus.ReviewBonusRequest{ID: created.ID})
	assert.ErrorIs(t, err, payroll.ErrEmployeeLocked)

	stored, err := f.bonuses.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, bonus.BonusStatusPending, stored.Status)

	require.NoError(t, held.Release(context.Background()))
	approved, err := svc.Approve(f.ctx, bonus.ReviewBonusRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
}

func TestReview_RequiresClaims(t *testing.T) {
	f := newFixture()
	created := f.create(t)

	_, err := f.service.Approve(context.Background(), bonus.ReviewBonusRequest{ID: created.ID})
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	f := newFixture()
	first := f.create(t)
	f.create(t)
	_, err := f.service.Reject(f.ctx, bonus.ReviewBonusRequest{ID: first.ID})
	require.NoError(t, err)

	status := "pending"
	resp, err := f.service.List(f.ctx, bonus.BonusFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.Data, 1)
	assert.NotEqual(t, first.ID, resp.Data[0].ID)
}
