package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/app"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hrm-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/authz"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := app.NewLogger(cfg, "api", os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeDB, err := app.OpenRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	locker, closeRedis, err := app.OpenLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRedis()

	services := app.NewServices(repos, locker, cfg.Payroll)
	if cfg.Database.Driver == config.DriverMemory {
		if err := app.SeedDemoData(ctx, repos, services); err != nil {
			return err
		}
	}

	mode, err := authz.ParseMode(cfg.Authz.Mode)
	if err != nil {
		return err
	}
	authorizer, err := authz.NewAuthorizer(cfg.Authz.PolicyFile, mode)
	if err != nil {
		return fmt.Errorf("failed to initialize authorizer: %w", err)
	}

	scheduler := cron.NewScheduler(time.Local)
	payrollJobs := cron.NewPayrollJobs(services.Payroll)
	if err := payrollJobs.RegisterJobs(scheduler, cfg.Payroll.Cron); err != nil {
		return fmt.Errorf("failed to register payroll job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		authorizer,
		appHTTP.NewPayrollHandler(services.Payroll),
		appHTTP.NewTaxConfigHandler(services.TaxConfig),
		appHTTP.NewBonusHandler(services.Bonus),
		appHTTP.NewDeductionHandler(services.Deduction),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Runs can take up to the payroll deadline.
		WriteTimeout: cfg.Payroll.RunTimeout + 30*time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "driver", cfg.Database.Driver, "authz_mode", mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
