package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/apperror"
	"school-service/internal/model"
	"school-service/prometheus"
)

// RequireTenantAccess is the tenant isolation gate. paramName is the
// path/body field carrying the referenced school ID; when the request names
// no school the operation is implicitly scoped to the principal's own school.
// With platformBypass enabled, platform-family roles skip the check entirely.
//
// This gate is the barrier against cross-tenant access, but services still
// filter every query by school ID independently.
func RequireTenantAccess(paramName string, platformBypass bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return apperror.New("User role not found.", http.StatusUnauthorized, apperror.CodeRoleMissing)
			}

			if platformBypass && p.Role.Family() == model.FamilyPlatform {
				return next(c)
			}

			if p.SchoolID == nil {
				prometheus.RecordTenantRejection("no_school")
				return apperror.New("Forbidden: User is not associated with a school.", http.StatusForbidden, apperror.CodeTenantRequired)
			}

			// Path parameter takes priority over a body field of the same name.
			requested := c.Param(paramName)
			if requested == "" {
				requested = bodyField(c, paramName)
			}

			if requested != "" && requested != *p.SchoolID {
				prometheus.RecordTenantRejection("school_mismatch")
				return apperror.New("Forbidden: Access to this school's data is not allowed.", http.StatusForbidden, apperror.CodeTenantMismatch)
			}

			return next(c)
		}
	}
}

// bodyField peeks a top-level string field out of a JSON body, restoring the
// body so downstream binds still see it.
func bodyField(c echo.Context, name string) string {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}

	raw, err := io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var payload map[string]any
	if json.Unmarshal(raw, &payload) != nil {
		return ""
	}
	v, _ := payload[name].(string)
	return v
}
