// Package middleware contains the HTTP middleware for the delivery layer.
package middleware

import (
	"net/http"
	"slices"
	"strings"

	"academy/internal/domain/entity"
	"academy/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "authClaims"

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the Bearer access token and stores its claims on the
// request context for handlers and role checks.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		c.Set(claimsContextKey, claims)

		return next(c)
	}
}

// RequireRole is a middleware factory that allows only the listed roles
// through. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentClaims(c)
			if claims == nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: role information missing"})
			}

			if !slices.Contains(roles, claims.Role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: require '" + rolesLabel(roles) + "' role"})
			}

			return next(c)
		}
	}
}

// CurrentClaims returns the access-token claims stored by Authenticate, or
// nil when the request is unauthenticated.
func CurrentClaims(c echo.Context) *service.Claims {
	claims, _ := c.Get(claimsContextKey).(*service.Claims)

	return claims
}

func rolesLabel(roles []entity.Role) string {
	labels := make([]string, len(roles))
	for i, role := range roles {
		labels[i] = role.String()
	}

	return strings.Join(labels, "' or '")
}
