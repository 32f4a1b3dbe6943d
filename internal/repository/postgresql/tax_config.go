package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/taxconfig"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type taxBracketRepository struct {
	db *database.DB
}

func NewTaxBracketRepository(db *database.DB) taxconfig.TaxBracketRepository {
	return &taxBracketRepository{db: db}
}

const taxBracketColumns = `id, config_name, config_type, rate_percentage, fixed_amount, threshold_min, threshold_max,
	effective_date, end_date, is_active, notes, created_at, updated_at`

func scanTaxBracket(row pgx.Row) (taxconfig.TaxBracket, error) {
	var b taxconfig.TaxBracket
	err := row.Scan(
		&b.ID, &b.ConfigName, &b.ConfigType, &b.RatePercentage, &b.FixedAmount, &b.ThresholdMin, &b.ThresholdMax,
		&b.EffectiveDate, &b.EndDate, &b.IsActive, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *taxBracketRepository) Create(ctx context.Context, bracket taxconfig.TaxBracket) (taxconfig.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return taxconfig.TaxBracket{}, fmt.Errorf("failed to generate tax bracket id: %w", err)
	}

	query := `
		INSERT INTO tax_brackets (
			id, config_name, config_type, rate_percentage, fixed_amount, threshold_min, threshold_max,
			effective_date, end_date, is_active, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + taxBracketColumns

	created, err := scanTaxBracket(q.QueryRow(ctx, query,
		id.String(), bracket.ConfigName, bracket.ConfigType, bracket.RatePercentage, bracket.FixedAmount,
		bracket.ThresholdMin, bracket.ThresholdMax, bracket.EffectiveDate, bracket.EndDate, bracket.IsActive, bracket.Notes,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_tax_brackets_name_effective") {
			return taxconfig.TaxBracket{}, taxconfig.ErrTaxBracketNameExists
		}
		return taxconfig.TaxBracket{}, fmt.Errorf("failed to create tax bracket: %w", err)
	}

	return created, nil
}

func (r *taxBracketRepository) GetByID(ctx context.Context, id string) (taxconfig.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + taxBracketColumns + ` FROM tax_brackets WHERE id = $1`

	b, err := scanTaxBracket(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return taxconfig.TaxBracket{}, taxconfig.ErrTaxBracketNotFound
		}
		return taxconfig.TaxBracket{}, fmt.Errorf("failed to get tax bracket: %w", err)
	}

	return b, nil
}

func (r *taxBracketRepository) List(ctx context.Context, filter taxconfig.TaxBracketFilter) ([]taxconfig.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + taxBracketColumns + ` FROM tax_brackets WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.ConfigType != nil {
		query += fmt.Sprintf(" AND config_type = $%d", argIdx)
		args = append(args, *filter.ConfigType)
		argIdx++
	}
	if !filter.IncludeInactive {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY config_type, effective_date DESC, threshold_min"

	return r.queryBrackets(ctx, q, query, args...)
}

func (r *taxBracketRepository) ListActiveOn(ctx context.Context, date time.Time, configType taxconfig.ConfigType) ([]taxconfig.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taxBracketColumns + `
		FROM tax_brackets
		WHERE config_type = $1
			AND is_active = TRUE
			AND effective_date <= $2::date
			AND (end_date IS NULL OR end_date >= $2::date)
		ORDER BY threshold_min
	`

	return r.queryBrackets(ctx, q, query, configType, date)
}

func (r *taxBracketRepository) Update(ctx context.Context, bracket taxconfig.TaxBracket) (taxconfig.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tax_brackets
		SET config_name = $2, rate_percentage = $3, fixed_amount = $4, threshold_min = $5, threshold_max = $6,
			effective_date = $7, end_date = $8, notes = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taxBracketColumns

	updated, err := scanTaxBracket(q.QueryRow(ctx, query,
		bracket.ID, bracket.ConfigName, bracket.RatePercentage, bracket.FixedAmount, bracket.ThresholdMin,
		bracket.ThresholdMax, bracket.EffectiveDate, bracket.EndDate, bracket.Notes,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return taxconfig.TaxBracket{}, taxconfig.ErrTaxBracketNotFound
		}
		if strings.Contains(err.Error(), "uk_tax_brackets_name_effective") {
			return taxconfig.TaxBracket{}, taxconfig.ErrTaxBracketNameExists
		}
		return taxconfig.TaxBracket{}, fmt.Errorf("failed to update tax bracket: %w", err)
	}

	return updated, nil
}

func (r *taxBracketRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE tax_brackets SET is_active = FALSE, updated_at = NOW() WHERE id = $1 RETURNING id`

	var updatedID string
	if err := q.QueryRow(ctx, query, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return taxconfig.ErrTaxBracketNotFound
		}
		return fmt.Errorf("failed to deactivate tax bracket: %w", err)
	}

	return nil
}

func (r *taxBracketRepository) queryBrackets(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]taxconfig.TaxBracket, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax brackets: %w", err)
	}
	defer rows.Close()

	var brackets []taxconfig.TaxBracket
	for rows.Next() {
		b, err := scanTaxBracket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tax brackets: %w", err)
	}

	return brackets, nil
}
