package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processedRecord(employeeID string, net int64) payroll.PayrollRecord {
	return payroll.PayrollRecord{
		EmployeeID:  employeeID,
		PeriodMonth: 3,
		PeriodYear:  2024,
		GrossSalary: decimal.NewFromInt(net),
		NetSalary:   decimal.NewFromInt(net),
		Status:      payroll.PayrollStatusProcessed,
	}
}

func TestPayrollRepository_UpsertKeepsIdentity(t *testing.T) {
	repo := NewPayrollRepository(nil)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, processedRecord("emp-1", 100))
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, processedRecord("emp-1", 200))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, decimal.NewFromInt(200).Equal(second.NetSalary))

	_, total, err := repo.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPayrollRepository_UpsertNeverOverwritesPaid(t *testing.T) {
	repo := NewPayrollRepository(nil)
	ctx := context.Background()

	rec, err := repo.Upsert(ctx, processedRecord("emp-1", 100))
	require.NoError(t, err)
	require.NoError(t, repo.MarkPaid(ctx, []string{rec.ID}, "hr-1"))

	_, err = repo.Upsert(ctx, processedRecord("emp-1", 999))
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)

	stored, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(stored.NetSalary))
	require.NotNil(t, stored.PaidBy)
	assert.Equal(t, "hr-1", *stored.PaidBy)
}

func TestPayrollRepository_MarkPaidIsAllOrNothing(t *testing.T) {
	repo := NewPayrollRepository(nil)
	ctx := context.Background()

	a, err := repo.Upsert(ctx, processedRecord("emp-1", 100))
	require.NoError(t, err)
	pending := processedRecord("emp-2", 100)
	pending.Status = payroll.PayrollStatusPending
	b, err := repo.Upsert(ctx, pending)
	require.NoError(t, err)

	err = repo.MarkPaid(ctx, []string{a.ID, b.ID}, "hr-1")
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotProcessed)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusProcessed, stored.Status)
}

func TestPayrollRepository_MarkPending(t *testing.T) {
	repo := NewPayrollRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.MarkPending(ctx, "nobody", 3, 2024))

	rec, err := repo.Upsert(ctx, processedRecord("emp-1", 100))
	require.NoError(t, err)
	require.NoError(t, repo.MarkPending(ctx, "emp-1", 3, 2024))
	stored, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPending, stored.Status)

	// Paid records stay paid.
	other, err := repo.Upsert(ctx, processedRecord("emp-2", 100))
	require.NoError(t, err)
	require.NoError(t, repo.MarkPaid(ctx, []string{other.ID}, "hr-1"))
	require.NoError(t, repo.MarkPending(ctx, "emp-2", 3, 2024))
	stored, err = repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPaid, stored.Status)
}

func TestPayrollRepository_SupersedeFreesEmployeePeriod(t *testing.T) {
	repo := NewPayrollRepository(nil)
	ctx := context.Background()

	rec, err := repo.Upsert(ctx, processedRecord("emp-1", 100))
	require.NoError(t, err)

	_, err = repo.Supersede(ctx, rec.ID, nil)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotPaid)

	require.NoError(t, repo.MarkPaid(ctx, []string{rec.ID}, "hr-1"))
	superseded, err := repo.Supersede(ctx, rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusSuperseded, superseded.Status)

	_, err = repo.GetByEmployeePeriod(ctx, "emp-1", 3, 2024)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)

	replacement, err := repo.Upsert(ctx, processedRecord("emp-1", 150))
	require.NoError(t, err)
	assert.NotEqual(t, rec.ID, replacement.ID)
}

func TestPayrollRepository_ListJoinsEmployees(t *testing.T) {
	employees := NewEmployeeRepository()
	emp := employees.Put(employee.Employee{
		EmployeeCode:     "E042",
		FullName:         "Drita Berisha",
		HireDate:         time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EmploymentStatus: employee.EmploymentStatusActive,
	})
	repo := NewPayrollRepository(employees)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, processedRecord(emp.ID, 100))
	require.NoError(t, err)

	records, _, err := repo.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].EmployeeCode)
	assert.Equal(t, "E042", *records[0].EmployeeCode)
	assert.Equal(t, "Drita Berisha", *records[0].EmployeeName)
}

func TestPayrollRepository_ListPaginates(t *testing.T) {
	repo := NewPayrollRepository(nil)
	ctx := context.Background()
	for i, id := range []string{"emp-1", "emp-2", "emp-3"} {
		_, err := repo.Upsert(ctx, processedRecord(id, int64(100*(i+1))))
		require.NoError(t, err)
	}

	page, total, err := repo.List(ctx, payroll.PayrollFilter{SortBy: "net_salary", SortOrder: "asc", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "emp-3", page[0].EmployeeID)
}

func TestPayrollRepository_Summary(t *testing.T) {
	repo := NewPayrollRepository(nil)
	ctx := context.Background()

	a, err := repo.Upsert(ctx, processedRecord("emp-1", 100))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, processedRecord("emp-2", 250))
	require.NoError(t, err)
	require.NoError(t, repo.MarkPaid(ctx, []string{a.ID}, "hr-1"))

	summary, err := repo.GetSummary(ctx, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalEmployees)
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, 1, summary.ProcessedCount)
	assert.True(t, decimal.NewFromInt(350).Equal(summary.TotalNetSalary))
}
