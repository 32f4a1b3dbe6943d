package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/config"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/fixtures"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/database"
)

// OpenRepositories selects the storage driver. The postgres driver runs
// pending migrations before returning.
func OpenRepositories(ctx context.Context, cfg *config.Config) (Repositories, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		slog.Warn("using in-memory storage, data is lost on exit")
		return MemoryRepositories(), func() {}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return Repositories{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return Repositories{}, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return PostgresRepositories(db), db.Close, nil
}

// SeedDemoData loads the bundled tax schedule and demo employees. Existing
// brackets are skipped.
func SeedDemoData(ctx context.Context, repos Repositories, services Services) error {
	created, err := fixtures.SeedTaxSchedule(ctx, services.TaxConfig, fixtures.DefaultTaxSchedule)
	if err != nil {
		return fmt.Errorf("failed to seed tax schedule: %w", err)
	}

	employees, err := fixtures.SeedEmployees(ctx, repos.EmployeeSeeder, fixtures.DemoEmployees)
	if err != nil {
		return fmt.Errorf("failed to seed employees: %w", err)
	}

	slog.Info("demo data seeded", "tax_brackets", created, "employees", len(employees))
	return nil
}
