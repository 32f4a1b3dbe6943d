package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `pr.id, pr.employee_id, pr.period_month, pr.period_year, pr.base_salary, pr.bonuses, pr.deductions,
	pr.gross_salary, pr.tax_amount, pr.social_security, pr.health_insurance, pr.net_salary, pr.unclamped_net_salary,
	pr.negative_net_salary, pr.tax_breakdown, pr.status, pr.processed_date, pr.paid_at, pr.paid_by, pr.superseded_at,
	pr.notes, pr.created_at, pr.updated_at, e.full_name, e.employee_code`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	var breakdown []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear, &rec.BaseSalary, &rec.Bonuses, &rec.Deductions,
		&rec.GrossSalary, &rec.TaxAmount, &rec.SocialSecurity, &rec.HealthInsurance, &rec.NetSalary, &rec.UnclampedNetSalary,
		&rec.NegativeNetSalary, &breakdown, &rec.Status, &rec.ProcessedDate, &rec.PaidAt, &rec.PaidBy, &rec.SupersededAt,
		&rec.Notes, &rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeName, &rec.EmployeeCode,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &rec.TaxBreakdown); err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("failed to decode tax breakdown: %w", err)
		}
	}
	return rec, nil
}

// ========== WRITE ==========

func (r *payrollRepository) Upsert(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to generate payroll record id: %w", err)
	}

	breakdown := record.TaxBreakdown
	if breakdown == nil {
		breakdown = []payroll.TaxLine{}
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to encode tax breakdown: %w", err)
	}

	// The conflict target is the partial unique index on live records. The
	// update guard keeps a paid record untouched, which surfaces as no row.
	query := `
		INSERT INTO payroll_records (
			id, employee_id, period_month, period_year, base_salary, bonuses, deductions, gross_salary,
			tax_amount, social_security, health_insurance, net_salary, unclamped_net_salary,
			negative_net_salary, tax_breakdown, status, processed_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (employee_id, period_month, period_year) WHERE status <> 'superseded'
		DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			bonuses = EXCLUDED.bonuses,
			deductions = EXCLUDED.deductions,
			gross_salary = EXCLUDED.gross_salary,
			tax_amount = EXCLUDED.tax_amount,
			social_security = EXCLUDED.social_security,
			health_insurance = EXCLUDED.health_insurance,
			net_salary = EXCLUDED.net_salary,
			unclamped_net_salary = EXCLUDED.unclamped_net_salary,
			negative_net_salary = EXCLUDED.negative_net_salary,
			tax_breakdown = EXCLUDED.tax_breakdown,
			status = EXCLUDED.status,
			processed_date = EXCLUDED.processed_date,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		WHERE payroll_records.status IN ('pending', 'processed')
		RETURNING id
	`

	var savedID string
	err = q.QueryRow(ctx, query,
		id.String(), record.EmployeeID, record.PeriodMonth, record.PeriodYear,
		record.BaseSalary, record.Bonuses, record.Deductions, record.GrossSalary,
		record.TaxAmount, record.SocialSecurity, record.HealthInsurance, record.NetSalary, record.UnclampedNetSalary,
		record.NegativeNetSalary, breakdownJSON, record.Status, record.ProcessedDate, record.Notes,
	).Scan(&savedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyPaid
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return r.GetByID(ctx, savedID)
}

func (r *payrollRepository) MarkPaid(ctx context.Context, ids []string, paidBy string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id, status FROM payroll_records WHERE id = ANY($1) FOR UPDATE`, ids)
		if err != nil {
			return fmt.Errorf("failed to lock payroll records: %w", err)
		}
		statuses := make(map[string]payroll.PayrollStatus, len(ids))
		for rows.Next() {
			var id string
			var status payroll.PayrollStatus
			if err := rows.Scan(&id, &status); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan payroll status: %w", err)
			}
			statuses[id] = status
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate payroll statuses: %w", err)
		}

		for _, id := range ids {
			status, ok := statuses[id]
			switch {
			case !ok:
				return payroll.ErrPayrollRecordNotFound
			case status == payroll.PayrollStatusPaid:
				return payroll.ErrPayrollRecordAlreadyPaid
			case status != payroll.PayrollStatusProcessed:
				return payroll.ErrPayrollRecordNotProcessed
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE payroll_records
			SET status = 'paid', paid_at = NOW(), paid_by = $2, updated_at = NOW()
			WHERE id = ANY($1)
		`, ids, paidBy)
		if err != nil {
			return fmt.Errorf("failed to mark payroll records paid: %w", err)
		}
		return nil
	})
}

func (r *payrollRepository) MarkPending(ctx context.Context, employeeID string, month, year int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'pending', updated_at = NOW()
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 AND status = 'processed'
	`

	if _, err := q.Exec(ctx, query, employeeID, month, year); err != nil {
		return fmt.Errorf("failed to mark payroll record pending: %w", err)
	}
	return nil
}

func (r *payrollRepository) Supersede(ctx context.Context, id string, notes *string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'superseded', superseded_at = NOW(), notes = COALESCE($2, notes), updated_at = NOW()
		WHERE id = $1 AND status = 'paid'
		RETURNING id
	`

	var supersededID string
	if err := q.QueryRow(ctx, query, id, notes).Scan(&supersededID); err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return payroll.PayrollRecord{}, getErr
			}
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotPaid
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to supersede payroll record: %w", err)
	}

	return r.GetByID(ctx, supersededID)
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx, `
		DELETE FROM payroll_records
		WHERE id = $1 AND status IN ('pending', 'processed')
		RETURNING id
	`, id).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return getErr
			}
			return payroll.ErrCannotDeletePaidRecord
		}
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}

	return nil
}

// ========== READ ==========

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.employee_id = $1 AND pr.period_month = $2 AND pr.period_year = $3 AND pr.status <> 'superseded'
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.FlaggedOnly {
		baseQuery += " AND pr.negative_net_salary"
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	// Sorting
	sortBy := "pr.created_at"
	allowedSorts := map[string]string{
		"created_at":    "pr.created_at",
		"net_salary":    "pr.net_salary",
		"gross_salary":  "pr.gross_salary",
		"employee_code": "e.employee_code",
	}
	if col, ok := allowedSorts[filter.SortBy]; ok {
		sortBy = col
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
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
		ORDER BY %s %s, pr.id
		LIMIT $%d OFFSET $%d
	`, payrollColumns, baseQuery, sortBy, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(base_salary), 0),
			COALESCE(SUM(bonuses), 0),
			COALESCE(SUM(deductions), 0),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(tax_amount), 0),
			COALESCE(SUM(social_security), 0),
			COALESCE(SUM(health_insurance), 0),
			COALESCE(SUM(net_salary), 0),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processed'),
			COUNT(*) FILTER (WHERE status = 'paid'),
			COUNT(*) FILTER (WHERE negative_net_salary)
		FROM payroll_records
		WHERE period_month = $1 AND period_year = $2 AND status <> 'superseded'
	`

	summary := payroll.PayrollSummaryResponse{PeriodMonth: month, PeriodYear: year}
	err := q.QueryRow(ctx, query, month, year).Scan(
		&summary.TotalEmployees,
		&summary.TotalBaseSalary,
		&summary.TotalBonuses,
		&summary.TotalDeductions,
		&summary.TotalGrossSalary,
		&summary.TotalTax,
		&summary.TotalSocialSecurity,
		&summary.TotalHealthInsurance,
		&summary.TotalNetSalary,
		&summary.PendingCount,
		&summary.ProcessedCount,
		&summary.PaidCount,
		&summary.FlaggedCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return summary, nil
}
