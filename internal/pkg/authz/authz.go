// Package authz decides whether a role may use a permission, backed by casbin.
package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/user"
)

//go:embed model.conf
var modelText string

type Mode string

const (
	ModeEnforce  Mode = "enforce"
	ModeShadow   Mode = "shadow"
	ModeDisabled Mode = "disabled"
)

func ParseMode(raw string) (Mode, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ModeEnforce, nil
	}
	switch Mode(raw) {
	case ModeEnforce, ModeShadow, ModeDisabled:
		return Mode(raw), nil
	default:
		return "", errors.New("authz: invalid mode (expected enforce|shadow|disabled)")
	}
}

type Authorizer struct {
	enforcer *casbin.Enforcer
	mode     Mode
}

// NewAuthorizer loads policies from policyPath, or from
// user.RolePermissions when policyPath is empty.
func NewAuthorizer(policyPath string, mode Mode) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: load model: %w", err)
	}

	if policyPath != "" {
		enforcer, err := casbin.NewEnforcer(m, fileadapter.NewAdapter(policyPath))
		if err != nil {
			return nil, fmt.Errorf("authz: load policy file: %w", err)
		}
		return &Authorizer{enforcer: enforcer, mode: mode}, nil
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: create enforcer: %w", err)
	}
	for role, permissions := range user.RolePermissions {
		for _, p := range permissions {
			obj, act := split(p)
			if _, err := enforcer.AddPolicy(Subject(role), obj, act); err != nil {
				return nil, fmt.Errorf("authz: add policy %s %s: %w", role, p, err)
			}
		}
	}
	return &Authorizer{enforcer: enforcer, mode: mode}, nil
}

func Subject(role user.Role) string {
	r := strings.TrimSpace(strings.ToLower(string(role)))
	if r == "" {
		r = "anonymous"
	}
	return "role:" + r
}

// split turns "payroll.view" into ("payroll", "view").
func split(p user.Permission) (string, string) {
	obj, act, found := strings.Cut(string(p), ".")
	if !found {
		return obj, ""
	}
	return obj, act
}

// Authorize reports whether the request may proceed. In shadow mode a
// denial is logged and the request is allowed.
func (a *Authorizer) Authorize(role user.Role, permission user.Permission) (bool, error) {
	if a.mode == ModeDisabled {
		return true, nil
	}

	obj, act := split(permission)
	ok, err := a.enforcer.Enforce(Subject(role), obj, act)
	if err != nil {
		return false, fmt.Errorf("authz: enforce: %w", err)
	}

	switch a.mode {
	case ModeShadow:
		if !ok {
			slog.Warn("authz shadow deny", "role", role, "permission", permission)
		}
		return true, nil
	case ModeEnforce:
		return ok, nil
	default:
		return false, errors.New("authz: unknown mode")
	}
}

func (a *Authorizer) Mode() Mode {
	return a.mode
}
