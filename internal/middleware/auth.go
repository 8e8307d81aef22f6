package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/apperror"
	"school-service/internal/model"
	"school-service/pkg/database"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

// PrincipalKey is the echo context key holding the resolved principal.
const PrincipalKey = "principal"

// Authenticate resolves the bearer credential to a Principal: the token
// issuer vouches for the identity, the stored profile supplies role and
// school. A missing credential is 401 AUTH_REQUIRED; a rejected credential or
// missing profile is 403 AUTH_INVALID.
func Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			prometheus.RecordAuthError("missing_token")
			return apperror.New("Authentication token required.", http.StatusUnauthorized, apperror.CodeAuthRequired)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			prometheus.RecordAuthError("invalid_auth_format")
			return apperror.New("Authentication token required.", http.StatusUnauthorized, apperror.CodeAuthRequired)
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid bearer token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return apperror.New("Invalid or expired token.", http.StatusForbidden, apperror.CodeAuthInvalid)
		}

		var profile model.UserProfile
		result := database.GetDB().Where("user_id = ?", claims.UserID).First(&profile)
		if result.Error != nil {
			log.Warn("User profile not found", zap.String("user_id", claims.UserID), zap.Error(result.Error))
			prometheus.RecordAuthError("profile_not_found")
			return apperror.New("User profile not found or unauthorized.", http.StatusForbidden, apperror.CodeAuthInvalid)
		}

		// A profile row carrying a role outside the catalog is treated as
		// unauthorized, the same as a missing profile.
		role, ok := model.ParseRole(string(profile.Role))
		if !ok {
			log.Warn("User profile carries unknown role",
				zap.String("user_id", claims.UserID),
				zap.String("role", string(profile.Role)))
			prometheus.RecordAuthError("unknown_role")
			return apperror.New("User profile not found or unauthorized.", http.StatusForbidden, apperror.CodeAuthInvalid)
		}

		c.Set(PrincipalKey, &model.Principal{
			UserID:   claims.UserID,
			Email:    claims.Email,
			Role:     role,
			SchoolID: profile.SchoolID,
		})

		return next(c)
	}
}

// PrincipalFrom retrieves the principal attached by Authenticate.
func PrincipalFrom(c echo.Context) (*model.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(*model.Principal)
	return p, ok
}
