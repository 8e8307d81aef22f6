package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/apperror"
	"school-service/internal/model"
	"school-service/prometheus"
)

// RequireRoles permits the request iff the principal's role is in the
// route's allow-list. The list is fixed at route registration; the check is a
// pure predicate.
func RequireRoles(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok || p.Role == "" {
				// Should not happen after Authenticate succeeds.
				return apperror.New("User role not found.", http.StatusUnauthorized, apperror.CodeRoleMissing)
			}

			for _, r := range allowed {
				if r == p.Role {
					return next(c)
				}
			}

			prometheus.RecordAuthError("role_forbidden")
			return apperror.New(
				fmt.Sprintf("Forbidden: Insufficient permissions. Role '%s' not allowed.", p.Role),
				http.StatusForbidden, apperror.CodeRoleForbidden,
			)
		}
	}
}
