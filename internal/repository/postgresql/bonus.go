package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/bonus"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type bonusRepository struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) bonus.BonusRepository {
	return &bonusRepository{db: db}
}

const bonusColumns = `b.id, b.employee_id, b.bonus_type, b.amount, b.period_month, b.period_year, b.status, b.reason,
	b.created_by, b.reviewed_by, b.reviewed_at, b.review_notes, b.created_at, b.updated_at, e.full_name`

func scanBonus(row pgx.Row) (bonus.BonusRecord, error) {
	var b bonus.BonusRecord
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.BonusType, &b.Amount, &b.PeriodMonth, &b.PeriodYear, &b.Status, &b.Reason,
		&b.CreatedBy, &b.ReviewedBy, &b.ReviewedAt, &b.ReviewNotes, &b.CreatedAt, &b.UpdatedAt, &b.EmployeeName,
	)
	return b, err
}

func (r *bonusRepository) Create(ctx context.Context, record bonus.BonusRecord) (bonus.BonusRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return bonus.BonusRecord{}, fmt.Errorf("failed to generate bonus id: %w", err)
	}

	query := `
		INSERT INTO bonuses (id, employee_id, bonus_type, amount, period_month, period_year, status, reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var createdID string
	err = q.QueryRow(ctx, query,
		id.String(), record.EmployeeID, record.BonusType, record.Amount, record.PeriodMonth, record.PeriodYear,
		record.Status, record.Reason, record.CreatedBy,
	).Scan(&createdID)
	if err != nil {
		return bonus.BonusRecord{}, fmt.Errorf("failed to create bonus: %w", err)
	}

	return r.GetByID(ctx, createdID)
}

func (r *bonusRepository) GetByID(ctx context.Context, id string) (bonus.BonusRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bonusColumns + `
		FROM bonuses b
		JOIN employees e ON b.employee_id = e.id
		WHERE b.id = $1
	`

	b, err := scanBonus(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return bonus.BonusRecord{}, bonus.ErrBonusNotFound
		}
		return bonus.BonusRecord{}, fmt.Errorf("failed to get bonus: %w", err)
	}

	return b, nil
}

func (r *bonusRepository) List(ctx context.Context, filter bonus.BonusFilter) ([]bonus.BonusRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM bonuses b
		JOIN employees e ON b.employee_id = e.id
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND b.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND b.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND b.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND b.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count bonuses: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s
		%s
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d
	`, bonusColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bonuses: %w", err)
	}
	defer rows.Close()

	var records []bonus.BonusRecord
	for rows.Next() {
		b, err := scanBonus(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan bonus: %w", err)
		}
		records = append(records, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate bonuses: %w", err)
	}

	return records, totalCount, nil
}

func (r *bonusRepository) Review(ctx context.Context, id string, status bonus.BonusStatus, reviewedBy string, notes *string) (bonus.BonusRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bonuses
		SET status = $2, reviewed_by = $3, reviewed_at = NOW(), review_notes = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id
	`

	var reviewedID string
	err := q.QueryRow(ctx, query, id, status, reviewedBy, notes).Scan(&reviewedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Either missing or already reviewed.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return bonus.BonusRecord{}, getErr
			}
			return bonus.BonusRecord{}, bonus.ErrBonusAlreadyReviewed
		}
		return bonus.BonusRecord{}, fmt.Errorf("failed to review bonus: %w", err)
	}

	return r.GetByID(ctx, reviewedID)
}

func (r *bonusRepository) SumApproved(ctx context.Context, employeeID string, month, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM bonuses
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 AND status = 'approved'
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, month, year).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum approved bonuses: %w", err)
	}

	return total, nil
}
