package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrm-payroll-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")
	emp := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", &emp, user.RoleHRAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	c, err := ParseClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, user.RoleHRAdmin, c.Role)
	require.NotNil(t, c.EmployeeID)
	assert.Equal(t, "emp-1", *c.EmployeeID)
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", nil, user.RoleEmployee)
	assert.Error(t, err)
}

func TestParseClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]interface{}
		wantErr error
	}{
		{"valid", map[string]interface{}{"user_id": "u", "role": "manager"}, nil},
		{"missing user", map[string]interface{}{"role": "manager"}, user.ErrMissingClaims},
		{"unknown role", map[string]interface{}{"user_id": "u", "role": "owner"}, user.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClaims(tt.claims)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClaimsFromContext(t *testing.T) {
	t.Run("system actor", func(t *testing.T) {
		ctx := WithSystemActor(context.Background(), "cron")

		c, err := ClaimsFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "cron", c.UserID)
		assert.Equal(t, user.RoleSystem, c.Role)
	})

	t.Run("verified token", func(t *testing.T) {
		svc := NewJWTService("test-secret", "15m")
		token, _, err := svc.GenerateAccessToken("user-7", nil, user.RoleManager)
		require.NoError(t, err)
		decoded, err := svc.JWTAuth().Decode(token)
		require.NoError(t, err)

		ctx := jwtauth.NewContext(context.Background(), decoded, nil)
		c, err := ClaimsFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "user-7", c.UserID)
		assert.Equal(t, user.RoleManager, c.Role)
		assert.Nil(t, c.EmployeeID)
	})

	t.Run("no token", func(t *testing.T) {
		_, err := ClaimsFromContext(context.Background())
		assert.Error(t, err)
	})
}
