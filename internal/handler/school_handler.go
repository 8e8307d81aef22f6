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

var createStudentSchema = schema.New(
	schema.String("first_name").Required().Min(1),
	schema.String("last_name").Required().Min(1),
	schema.DateTime("date_of_birth"),
	schema.String("class_name"),
	schema.String("profile_photo_url").URL(),
	schema.StringList("allergies"),
	schema.String("notes"),
)

var updateStudentSchema = createStudentSchema.Partial()

var createGuardianSchema = schema.New(
	schema.String("name").Required().Min(1),
	schema.String("relation"),
	schema.String("phone_number"),
	schema.String("email").Email(),
	schema.String("profile_photo_url").URL(),
)

var updateGuardianSchema = createGuardianSchema.Partial()

// SchoolHandler covers the tenant-scoped surface: students and their
// guardians, always bound to the caller's own school.
type SchoolHandler struct {
	students  *service.StudentService
	guardians *service.GuardianService
}

func NewSchoolHandler(students *service.StudentService, guardians *service.GuardianService) *SchoolHandler {
	return &SchoolHandler{students: students, guardians: guardians}
}

// CreateStudent handles POST /schools/my/students
func (h *SchoolHandler) CreateStudent(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}

	attrs, err := bindAndValidate(c, createStudentSchema)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("student", "create")

	defer prometheus.TrackDBOperation("insert")(time.Now())
	student, err := h.students.Create(c.Request().Context(), schoolID, attrs)
	if err != nil {
		return err
	}

	log.Info("Student created",
		zap.String("student_id", student.ID),
		zap.String("school_id", schoolID))
	return c.JSON(http.StatusCreated, student)
}

// ListStudents handles GET /schools/my/students
func (h *SchoolHandler) ListStudents(c echo.Context) error {
	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("student", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	students, err := h.students.ListBySchool(c.Request().Context(), schoolID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, students)
}

// GetStudent handles GET /schools/my/students/:id
func (h *SchoolHandler) GetStudent(c echo.Context) error {
	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("student", "read")

	defer prometheus.TrackDBOperation("query")(time.Now())
	student, err := h.students.GetByID(c.Request().Context(), c.Param("id"), schoolID)
	if err != nil {
		return err
	}
	if student == nil {
		return apperror.New("Student not found.", http.StatusNotFound, "STUDENT_NOT_FOUND")
	}
	return c.JSON(http.StatusOK, student)
}

// UpdateStudent handles PUT /schools/my/students/:id
func (h *SchoolHandler) UpdateStudent(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}

	attrs, err := bindAndValidate(c, updateStudentSchema)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("student", "update")

	defer prometheus.TrackDBOperation("update")(time.Now())
	student, err := h.students.Update(c.Request().Context(), c.Param("id"), schoolID, attrs)
	if err != nil {
		return err
	}

	log.Info("Student updated", zap.String("student_id", student.ID))
	return c.JSON(http.StatusOK, student)
}

// DeleteStudent handles DELETE /schools/my/students/:id
func (h *SchoolHandler) DeleteStudent(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("student", "delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.students.Delete(c.Request().Context(), c.Param("id"), schoolID); err != nil {
		return err
	}

	log.Info("Student deleted", zap.String("student_id", c.Param("id")))
	return c.NoContent(http.StatusNoContent)
}

// CreateGuardian handles POST /schools/my/students/:student_id/guardians
func (h *SchoolHandler) CreateGuardian(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}

	attrs, err := bindAndValidate(c, createGuardianSchema)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("guardian", "create")

	defer prometheus.TrackDBOperation("insert")(time.Now())
	guardian, err := h.guardians.Create(c.Request().Context(), schoolID, c.Param("student_id"), attrs)
	if err != nil {
		return err
	}

	log.Info("Guardian created",
		zap.String("guardian_id", guardian.ID),
		zap.String("student_id", c.Param("student_id")))
	return c.JSON(http.StatusCreated, guardian)
}

// ListGuardians handles GET /schools/my/students/:student_id/guardians
func (h *SchoolHandler) ListGuardians(c echo.Context) error {
	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("guardian", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	guardians, err := h.guardians.ListByStudent(c.Request().Context(), schoolID, c.Param("student_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guardians)
}

// GetGuardian handles GET /schools/my/students/:student_id/guardians/:id
func (h *SchoolHandler) GetGuardian(c echo.Context) error {
	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("guardian", "read")

	defer prometheus.TrackDBOperation("query")(time.Now())
	guardian, err := h.guardians.GetByID(c.Request().Context(), schoolID, c.Param("student_id"), c.Param("id"))
	if err != nil {
		return err
	}
	if guardian == nil {
		return apperror.New("Guardian not found.", http.StatusNotFound, "GUARDIAN_NOT_FOUND")
	}
	return c.JSON(http.StatusOK, guardian)
}

// UpdateGuardian handles PUT /schools/my/students/:student_id/guardians/:id
func (h *SchoolHandler) UpdateGuardian(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}

	attrs, err := bindAndValidate(c, updateGuardianSchema)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("guardian", "update")

	defer prometheus.TrackDBOperation("update")(time.Now())
	guardian, err := h.guardians.Update(c.Request().Context(), schoolID, c.Param("student_id"), c.Param("id"), attrs)
	if err != nil {
		return err
	}

	log.Info("Guardian updated", zap.String("guardian_id", guardian.ID))
	return c.JSON(http.StatusOK, guardian)
}

// DeleteGuardian handles DELETE /schools/my/students/:student_id/guardians/:id
func (h *SchoolHandler) DeleteGuardian(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principalOrErr(c)
	if err != nil {
		return err
	}
	schoolID, err := schoolIDOf(p)
	if err != nil {
		return err
	}
	prometheus.RecordEntityOperation("guardian", "delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.guardians.Delete(c.Request().Context(), schoolID, c.Param("student_id"), c.Param("id")); err != nil {
		return err
	}

	log.Info("Guardian deleted", zap.String("guardian_id", c.Param("id")))
	return c.NoContent(http.StatusNoContent)
}
