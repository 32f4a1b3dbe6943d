package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authorizer middleware.Authorizer,
	payrollHandler PayrollHandler,
	taxConfigHandler TaxConfigHandler,
	bonusHandler BonusHandler,
	deductionHandler DeductionHandler,
) *chi.Mux {
	r := chi.NewRouter()

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	can := func(p user.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(authorizer, p)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/payroll", func(r chi.Router) {
				r.With(can(user.PermissionPayrollProcess)).Post("/runs", payrollHandler.ProcessPeriod)
				r.With(can(user.PermissionPayrollPreview)).Get("/preview", payrollHandler.Preview)
				r.With(can(user.PermissionPayrollView)).Get("/summary", payrollHandler.GetPayrollSummary)

				r.Route("/records", func(r chi.Router) {
					r.With(can(user.PermissionPayrollView)).Get("/", payrollHandler.ListPayrollRecords)
					r.With(can(user.PermissionPayrollFinalize)).Post("/finalize", payrollHandler.FinalizePayroll)

					r.Route("/{id}", func(r chi.Router) {
						r.With(can(user.PermissionPayrollView)).Get("/", payrollHandler.GetPayrollRecord)
						r.With(can(user.PermissionPayrollFinalize)).Post("/supersede", payrollHandler.SupersedePayrollRecord)
						r.With(can(user.PermissionPayrollProcess)).Delete("/", payrollHandler.DeletePayrollRecord)
					})
				})
			})

			r.Route("/tax-config", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionTaxConfigView))
					r.Get("/", taxConfigHandler.List)
					r.Get("/active", taxConfigHandler.GetActiveSchedule)
					r.Get("/{id}", taxConfigHandler.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionTaxConfigManage))
					r.Post("/", taxConfigHandler.Create)
					r.Put("/{id}", taxConfigHandler.Update)
					r.Delete("/{id}", taxConfigHandler.Deactivate)
				})
			})

			r.Route("/bonuses", func(r chi.Router) {
				r.With(can(user.PermissionBonusView)).Get("/", bonusHandler.List)
				r.With(can(user.PermissionBonusView)).Get("/{id}", bonusHandler.Get)
				r.With(can(user.PermissionBonusManage)).Post("/", bonusHandler.Create)

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionBonusApprove))
					r.Post("/{id}/approve", bonusHandler.Approve)
					r.Post("/{id}/reject", bonusHandler.Reject)
				})
			})

			r.Route("/deductions", func(r chi.Router) {
				r.With(can(user.PermissionDeductionView)).Get("/", deductionHandler.List)
				r.With(can(user.PermissionDeductionManage)).Post("/", deductionHandler.Create)
				r.With(can(user.PermissionDeductionManage)).Delete("/{id}", deductionHandler.Delete)
			})
		})
	})
	return r
}
