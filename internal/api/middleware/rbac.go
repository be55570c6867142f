package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// RBAC admits requests whose token carries one of roles. It must run after
// Auth; a request without any role is answered 401, a wrong role 403.
func RBAC(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			switch {
			case role == "":
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			case !allowed[role]:
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}

// AdminOnly admits both administrator roles.
func AdminOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin, domain.RoleSuperAdmin)
}
