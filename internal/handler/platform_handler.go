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

var createSchoolSchema = schema.New(
	schema.String("name").Required().Min(3),
	schema.String("subdomain").Required().Min(3).Pattern(`^[a-z0-9-]+$`, "must contain only lowercase letters, numbers, and hyphens"),
	schema.String("admin_email").Required().Email(),
	schema.String("package").Default("Basic"),
	schema.String("status").Default("Active"),
	schema.Int("student_limit").Min(0).Default(0),
	schema.Int("teacher_limit").Min(0).Default(0),
	schema.Int("admin_limit").Min(0).Default(0),
	schema.Object("branding_settings").Default(map[string]any{}),
	schema.Object("module_settings").Default(map[string]any{}),
	schema.String("timezone").Default("UTC"),
	schema.String("currency_code").Len(3).Default("USD"),
	schema.DateTime("academic_year_start"),
	schema.DateTime("academic_year_end"),
)

var updateSchoolSchema = createSchoolSchema.Partial()

// PlatformHandler covers the platform-scoped surface: school lifecycle and
// the global user-profile listing.
type PlatformHandler struct {
	schools *service.SchoolService
	users   *service.UserService
}

func NewPlatformHandler(schools *service.SchoolService, users *service.UserService) *PlatformHandler {
	return &PlatformHandler{schools: schools, users: users}
}

// CreateSchool handles POST /platform/schools
func (h *PlatformHandler) CreateSchool(c echo.Context) error {
	log := logger.FromContext(c)

	attrs, err := bindAndValidate(c, createSchoolSchema)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("school", "create")

	defer prometheus.TrackDBOperation("insert")(time.Now())
	school, err := h.schools.Create(c.Request().Context(), attrs)
	if err != nil {
		return err
	}

	log.Info("School created",
		zap.String("school_id", school.ID),
		zap.String("subdomain", school.Subdomain))
	return c.JSON(http.StatusCreated, school)
}

// ListSchools handles GET /platform/schools
func (h *PlatformHandler) ListSchools(c echo.Context) error {
	prometheus.RecordEntityOperation("school", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	schools, err := h.schools.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, schools)
}

// GetSchool handles GET /platform/schools/:id
func (h *PlatformHandler) GetSchool(c echo.Context) error {
	prometheus.RecordEntityOperation("school", "read")

	defer prometheus.TrackDBOperation("query")(time.Now())
	school, err := h.schools.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if school == nil {
		return apperror.New("School not found.", http.StatusNotFound, "SCHOOL_NOT_FOUND")
	}
	return c.JSON(http.StatusOK, school)
}

// UpdateSchool handles PUT /platform/schools/:id
func (h *PlatformHandler) UpdateSchool(c echo.Context) error {
	log := logger.FromContext(c)

	attrs, err := bindAndValidate(c, updateSchoolSchema)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("school", "update")

	defer prometheus.TrackDBOperation("update")(time.Now())
	school, err := h.schools.Update(c.Request().Context(), c.Param("id"), attrs)
	if err != nil {
		return err
	}

	log.Info("School updated", zap.String("school_id", school.ID))
	return c.JSON(http.StatusOK, school)
}

// DeleteSchool handles DELETE /platform/schools/:id
func (h *PlatformHandler) DeleteSchool(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("school", "delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.schools.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	log.Info("School deleted", zap.String("school_id", c.Param("id")))
	return c.NoContent(http.StatusNoContent)
}

// ListUsers handles GET /platform/users
func (h *PlatformHandler) ListUsers(c echo.Context) error {
	prometheus.RecordEntityOperation("profile", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	profiles, err := h.users.ListProfiles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}
