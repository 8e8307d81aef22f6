package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/internal/apperror"
	"school-service/internal/middleware"
	"school-service/internal/model"
	"school-service/internal/schema"
)

// principalOrErr fetches the principal attached by the authentication gate.
// Failing here means a route was registered without it.
func principalOrErr(c echo.Context) (*model.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, apperror.New("User not authenticated.", http.StatusUnauthorized, apperror.CodeAuthRequired)
	}
	return p, nil
}

// schoolIDOf returns the principal's school, rejecting platform principals
// that reached a handler needing a concrete school context.
func schoolIDOf(p *model.Principal) (string, error) {
	if p.SchoolID == nil {
		return "", apperror.New("User not associated with a school.", http.StatusForbidden, apperror.CodeTenantMismatch)
	}
	return *p.SchoolID, nil
}

// bindAndValidate decodes the JSON body and runs it through the schema,
// returning the normalized attribute map.
func bindAndValidate(c echo.Context, s *schema.Schema) (map[string]any, error) {
	payload := map[string]any{}
	if err := c.Bind(&payload); err != nil {
		return nil, apperror.New("Invalid request body.", http.StatusBadRequest, apperror.CodeInvalidInput)
	}
	return s.Validate(payload)
}
