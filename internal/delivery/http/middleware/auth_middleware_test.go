package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"academy/config"
	"academy/internal/domain/entity"
	"academy/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(t *testing.T) *AuthMiddleware {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewAuthMiddleware(tokenSvc)
}

func issueToken(t *testing.T, m *AuthMiddleware, role entity.Role) string {
	t.Helper()

	access, _, err := m.tokenSvc.GenerateTokens(uuid.New(), role, entity.StatusApproved)
	require.NoError(t, err)

	return access
}

func TestAuthenticate_ValidToken(t *testing.T) {
	m := newTestMiddleware(t)
	token := issueToken(t, m, entity.RoleTeacher)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		claims := CurrentClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, entity.RoleTeacher, claims.Role)

		return c.NoContent(http.StatusOK)
	}

	err := m.Authenticate(next)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_RejectsMissingAndMalformedHeaders(t *testing.T) {
	m := newTestMiddleware(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer token", header: "Basic abc123"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			next := func(c echo.Context) error {
				t.Fatal("next handler should not run")

				return nil
			}

			err := m.Authenticate(next)(c)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	m := newTestMiddleware(t)

	tests := []struct {
		name     string
		role     entity.Role
		allowed  []entity.Role
		wantCode int
	}{
		{
			name:     "owner passes owner gate",
			role:     entity.RoleOwner,
			allowed:  []entity.Role{entity.RoleOwner},
			wantCode: http.StatusOK,
		},
		{
			name:     "student blocked from owner gate",
			role:     entity.RoleStudent,
			allowed:  []entity.Role{entity.RoleOwner},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "owner passes shared teacher gate",
			role:     entity.RoleOwner,
			allowed:  []entity.Role{entity.RoleTeacher, entity.RoleOwner},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := issueToken(t, m, tt.role)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			next := func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}

			handler := m.Authenticate(m.RequireRole(tt.allowed...)(next))
			err := handler(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	m := newTestMiddleware(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	err := m.RequireRole(entity.RoleOwner)(next)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
