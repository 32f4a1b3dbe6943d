package jwt

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// WithSystemActor marks ctx as running on behalf of a scheduled job or the
// CLI. No token is involved.
func WithSystemActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, user.Claims{UserID: name, Role: user.RoleSystem})
}

// ClaimsFromContext returns the caller identity: the system actor if one was
// set, otherwise the claims of the verified request token.
func ClaimsFromContext(ctx context.Context) (user.Claims, error) {
	if c, ok := ctx.Value(actorKey{}).(user.Claims); ok {
		return c, nil
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	return ParseClaims(claims)
}

// ParseClaims converts a decoded token claim map into user.Claims.
func ParseClaims(claims map[string]interface{}) (user.Claims, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Claims{}, user.ErrMissingClaims
	}

	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if !role.IsValid() {
		return user.Claims{}, user.ErrInvalidRole
	}

	c := user.Claims{UserID: userID, Role: role}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		c.EmployeeID = &employeeID
	}
	return c, nil
}
