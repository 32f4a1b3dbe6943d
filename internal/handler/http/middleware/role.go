package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/pkg/jwt"
)

// Authorizer decides whether a role holds a permission.
type Authorizer interface {
	Authorize(role user.Role, permission user.Permission) (bool, error)
}

// RequirePermission checks the caller's role against the authorizer.
func RequirePermission(authorizer Authorizer, permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			allowed, err := authorizer.Authorize(claims.Role, permission)
			if err != nil {
				slog.Error("authorization check failed", "permission", permission, "role", claims.Role, "error", err)
				response.InternalServerError(w, "Authorization check failed")
				return
			}
			if !allowed {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
