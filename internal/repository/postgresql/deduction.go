package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/deduction"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type deductionRepository struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) deduction.DeductionRepository {
	return &deductionRepository{db: db}
}

const deductionColumns = `id, employee_id, period_month, period_year, amount, description, created_by, created_at`

func scanDeduction(row pgx.Row) (deduction.Deduction, error) {
	var d deduction.Deduction
	err := row.Scan(&d.ID, &d.EmployeeID, &d.PeriodMonth, &d.PeriodYear, &d.Amount, &d.Description, &d.CreatedBy, &d.CreatedAt)
	return d, err
}

func (r *deductionRepository) Create(ctx context.Context, d deduction.Deduction) (deduction.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return deduction.Deduction{}, fmt.Errorf("failed to generate deduction id: %w", err)
	}

	query := `
		INSERT INTO deductions (id, employee_id, period_month, period_year, amount, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + deductionColumns

	created, err := scanDeduction(q.QueryRow(ctx, query,
		id.String(), d.EmployeeID, d.PeriodMonth, d.PeriodYear, d.Amount, d.Description, d.CreatedBy,
	))
	if err != nil {
		return deduction.Deduction{}, fmt.Errorf("failed to create deduction: %w", err)
	}

	return created, nil
}

func (r *deductionRepository) GetByID(ctx context.Context, id string) (deduction.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDeduction(q.QueryRow(ctx, `SELECT `+deductionColumns+` FROM deductions WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return deduction.Deduction{}, deduction.ErrDeductionNotFound
		}
		return deduction.Deduction{}, fmt.Errorf("failed to get deduction: %w", err)
	}

	return d, nil
}

func (r *deductionRepository) List(ctx context.Context, filter deduction.DeductionFilter) ([]deduction.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + deductionColumns + ` FROM deductions WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.PeriodMonth != nil {
		query += fmt.Sprintf(" AND period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		query += fmt.Sprintf(" AND period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
	}
	query += " ORDER BY created_at"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	var deductions []deduction.Deduction
	for rows.Next() {
		d, err := scanDeduction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deductions: %w", err)
	}

	return deductions, nil
}

func (r *deductionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx, `DELETE FROM deductions WHERE id = $1 RETURNING id`, id).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return deduction.ErrDeductionNotFound
		}
		return fmt.Errorf("failed to delete deduction: %w", err)
	}

	return nil
}

func (r *deductionRepository) SumForPeriod(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM deductions
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, month, year).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum deductions: %w", err)
	}

	return total, nil
}
