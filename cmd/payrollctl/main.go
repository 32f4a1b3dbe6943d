// Command payrollctl runs payroll operations against the configured store
// without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/app"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/config"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/fixtures"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

const cliActor = "payrollctl"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Payroll and tax engine administration",
		SilenceUsage: true,
	}

	root.AddCommand(
		newProcessCommand(),
		newPreviewCommand(),
		newSeedTaxCommand(),
		newSeedDemoCommand(),
		newTokenCommand(),
	)
	return root
}

// env is the wiring every data command needs.
type env struct {
	cfg      *config.Config
	repos    app.Repositories
	services app.Services
	close    func()
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	// stdout is reserved for command output.
	slog.SetDefault(app.NewLogger(cfg, "payrollctl", os.Stderr))

	repos, closeDB, err := app.OpenRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	locker, closeRedis, err := app.OpenLocker(ctx, cfg)
	if err != nil {
		closeDB()
		return nil, err
	}

	services := app.NewServices(repos, locker, cfg.Payroll)
	if cfg.Database.Driver == config.DriverMemory {
		if err := app.SeedDemoData(ctx, repos, services); err != nil {
			closeRedis()
			closeDB()
			return nil, err
		}
	}

	return &env{
		cfg:      cfg,
		repos:    repos,
		services: services,
		close: func() {
			closeRedis()
			closeDB()
		},
	}, nil
}

func newProcessCommand() *cobra.Command {
	var (
		month, year int
		employeeIDs []string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process payroll for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := jwt.WithSystemActor(cmd.Context(), cliActor)
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			result, err := e.services.Payroll.ProcessPeriod(ctx, payroll.ProcessPeriodRequest{
				PeriodMonth: month,
				PeriodYear:  year,
				EmployeeIDs: employeeIDs,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "period month (1-12)")
	cmd.Flags().IntVar(&year, "year", 0, "period year")
	cmd.Flags().StringSliceVar(&employeeIDs, "employee", nil, "limit the run to these employee IDs")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newPreviewCommand() *cobra.Command {
	var (
		month, year int
		employeeID  string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute one employee's payroll without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := jwt.WithSystemActor(cmd.Context(), cliActor)
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			record, err := e.services.Payroll.ComputePreview(ctx, employeeID, month, year)
			if err != nil {
				return err
			}
			return printJSON(cmd, record)
		},
	}

	cmd.Flags().StringVar(&employeeID, "employee", "", "employee ID")
	cmd.Flags().IntVar(&month, "month", 0, "period month (1-12)")
	cmd.Flags().IntVar(&year, "year", 0, "period year")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newSeedTaxCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-tax",
		Short: "Load tax brackets from a YAML schedule",
		Long:  "Load tax brackets from a YAML schedule. Without --file the bundled 2024 schedule is used. Brackets that already exist are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := fixtures.DefaultTaxSchedule
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				data = b
			}

			ctx := jwt.WithSystemActor(cmd.Context(), cliActor)
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			created, err := fixtures.SeedTaxSchedule(ctx, e.services.TaxConfig, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d tax brackets\n", created)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "schedule YAML file")
	return cmd
}

func newSeedDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-demo",
		Short: "Load the bundled tax schedule and demo employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := jwt.WithSystemActor(cmd.Context(), cliActor)
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			if e.cfg.Database.Driver == config.DriverMemory {
				return nil
			}
			return app.SeedDemoData(ctx, e.repos, e.services)
		},
	}
}

func newTokenCommand() *cobra.Command {
	var role, userID, employeeID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			r := user.Role(role)
			if _, ok := user.RolePermissions[r]; !ok {
				return user.ErrInvalidRole
			}

			var empID *string
			if employeeID != "" {
				empID = &employeeID
			}

			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
				GenerateAccessToken(userID, empID, r)
			if err != nil {
				return err
			}

			return printJSON(cmd, map[string]interface{}{
				"access_token": token,
				"expires_at":   expiresAt,
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", string(user.RoleHRAdmin), "role claim")
	cmd.Flags().StringVar(&userID, "user", "local-admin", "user ID claim")
	cmd.Flags().StringVar(&employeeID, "employee", "", "employee ID claim")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
