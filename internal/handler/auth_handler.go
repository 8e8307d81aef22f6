package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/apperror"
	"school-service/internal/schema"
	"school-service/internal/service"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

// All fields optional: callers update what they choose. Role and school are
// not in the schema and therefore never reachable from the payload.
var updateProfileSchema = schema.New(
	schema.String("full_name").Min(1),
	schema.String("phone_number"),
	schema.String("address"),
	schema.String("profile_photo_url").URL(),
)

// AuthHandler serves the authenticated caller's own profile.
type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// GetMyProfile handles GET /auth/me
func (h *AuthHandler) GetMyProfile(c echo.Context) error {
	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("profile", "read")

	defer prometheus.TrackDBOperation("query")(time.Now())
	profile, err := h.users.GetProfile(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	if profile == nil {
		return apperror.New("User profile not found.", http.StatusNotFound, "PROFILE_NOT_FOUND")
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile handles PUT /auth/me
func (h *AuthHandler) UpdateMyProfile(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("profile", "update")

	attrs, err := bindAndValidate(c, updateProfileSchema)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	profile, err := h.users.UpdateProfile(c.Request().Context(), p.UserID, attrs)
	if err != nil {
		return err
	}

	log.Info("Profile updated", zap.String("user_id", p.UserID))
	return c.JSON(http.StatusOK, profile)
}
