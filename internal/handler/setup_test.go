package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"school-service/internal/middleware"
	"school-service/internal/model"
	"school-service/internal/service"
	"school-service/internal/testutil"
	"school-service/pkg/config"
	"school-service/pkg/database"
	"school-service/pkg/jwtutil"
)

type stubSigner struct{}

func (stubSigner) PresignUpload(ctx context.Context, key string) (string, error) {
	return "https://storage.example.com/signed/" + key, nil
}

func (stubSigner) PublicURL(key string) string {
	return "https://storage.example.com/school-assets/" + key
}

// newTestServer wires the full middleware chain and route table against an
// isolated database, mirroring the production setup.
func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	db := testutil.NewDB(t)
	database.DB = db

	schools := service.NewSchoolService(db)
	students := service.NewStudentService(db)
	guardians := service.NewGuardianService(db)
	users := service.NewUserService(db)
	files := service.NewFileService(stubSigner{})

	authHandler := NewAuthHandler(users)
	platformHandler := NewPlatformHandler(schools, users)
	schoolHandler := NewSchoolHandler(students, guardians)
	fileHandler := NewFileHandler(files)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(false)

	api := e.Group("/api/v1", middleware.Authenticate)

	auth := api.Group("/auth")
	auth.GET("/me", authHandler.GetMyProfile)
	auth.PUT("/me", authHandler.UpdateMyProfile)

	platform := api.Group("/platform")
	schoolManagers := middleware.RequireRoles(model.RoleSuperAdmin, model.RoleAppManagerManagement)
	schoolReaders := middleware.RequireRoles(
		model.RoleSuperAdmin,
		model.RoleAppManagerManagement,
		model.RoleAppManagerSales,
		model.RoleAppManagerFinance,
		model.RoleAppManagerSupport,
	)
	platform.POST("/schools", platformHandler.CreateSchool, schoolManagers)
	platform.GET("/schools", platformHandler.ListSchools, schoolReaders)
	platform.GET("/schools/:id", platformHandler.GetSchool, schoolReaders)
	platform.PUT("/schools/:id", platformHandler.UpdateSchool, schoolManagers)
	platform.DELETE("/schools/:id", platformHandler.DeleteSchool, middleware.RequireRoles(model.RoleSuperAdmin))
	platform.GET("/users", platformHandler.ListUsers, middleware.RequireRoles(model.RoleSuperAdmin))

	my := api.Group("/schools/my")
	tenantGate := middleware.RequireTenantAccess("school_id", false)
	studentReaders := middleware.RequireRoles(
		model.RoleSchoolAdmin,
		model.RoleSchoolDataEditor,
		model.RoleClassTeacher,
		model.RoleTeacher,
		model.RoleParent,
	)
	studentEditors := middleware.RequireRoles(model.RoleSchoolAdmin, model.RoleSchoolDataEditor)
	schoolAdminOnly := middleware.RequireRoles(model.RoleSchoolAdmin)

	my.POST("/students", schoolHandler.CreateStudent, studentEditors, tenantGate)
	my.GET("/students", schoolHandler.ListStudents, studentReaders, tenantGate)
	my.GET("/students/:id", schoolHandler.GetStudent, studentReaders, tenantGate)
	my.PUT("/students/:id", schoolHandler.UpdateStudent, studentEditors, tenantGate)
	my.DELETE("/students/:id", schoolHandler.DeleteStudent, schoolAdminOnly, tenantGate)
	my.POST("/students/:student_id/guardians", schoolHandler.CreateGuardian, studentEditors, tenantGate)
	my.GET("/students/:student_id/guardians", schoolHandler.ListGuardians, studentReaders, tenantGate)
	my.GET("/students/:student_id/guardians/:id", schoolHandler.GetGuardian, studentReaders, tenantGate)
	my.PUT("/students/:student_id/guardians/:id", schoolHandler.UpdateGuardian, studentEditors, tenantGate)
	my.DELETE("/students/:student_id/guardians/:id", schoolHandler.DeleteGuardian, schoolAdminOnly, tenantGate)

	filesGroup := api.Group("/files")
	uploaders := middleware.RequireRoles(
		model.RoleSuperAdmin,
		model.RoleAppManagerManagement,
		model.RoleAppManagerSales,
		model.RoleAppManagerFinance,
		model.RoleAppManagerSupport,
		model.RoleSchoolAdmin,
		model.RoleSchoolDataEditor,
		model.RoleClassTeacher,
		model.RoleTeacher,
		model.RoleParent,
	)
	filesGroup.POST("/upload-url", fileHandler.GetUploadURL,
		uploaders,
		middleware.RequireTenantAccess("school_id", true))
	filesGroup.GET("/public-url", fileHandler.GetPublicURL,
		middleware.RequireRoles(model.AllRoles()...))

	return e, db
}

// seedUser creates a profile for the role and returns a valid bearer token.
func seedUser(t *testing.T, db *gorm.DB, role model.Role, schoolID *string) string {
	t.Helper()

	userID := uuid.NewString()
	require.NoError(t, db.Create(&model.UserProfile{
		UserID:   userID,
		SchoolID: schoolID,
		Role:     role,
	}).Error)

	token, err := jwtutil.GenerateToken(userID, userID+"@example.com")
	require.NoError(t, err)
	return token
}

func seedSchool(t *testing.T, db *gorm.DB, subdomain string) string {
	t.Helper()
	school := model.School{Name: subdomain, Subdomain: subdomain}
	require.NoError(t, db.Create(&school).Error)
	return school.ID
}

func doRequest(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type errorEnvelope struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Details    any    `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}
