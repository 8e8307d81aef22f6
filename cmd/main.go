package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"school-service/internal/handler"
	"school-service/internal/middleware"
	"school-service/internal/model"
	"school-service/internal/service"
	"school-service/pkg/config"
	"school-service/pkg/database"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
	"school-service/pkg/storage"
	"school-service/prometheus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.InitLogger(cfg)
	zlog := logger.GetLogger()
	zlog.Info("Starting school service")

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		zlog.Fatal("Failed to initialize database: " + err.Error())
	}

	// Initialize JWT validation
	jwtutil.Initialize(&cfg.JWT)

	// Initialize metrics
	prometheus.InitMetrics(cfg)

	// Object storage presigner
	presigner := storage.NewS3Presigner(&cfg.Storage)

	// Services
	db := database.GetDB()
	schools := service.NewSchoolService(db)
	students := service.NewStudentService(db)
	guardians := service.NewGuardianService(db)
	users := service.NewUserService(db)
	files := service.NewFileService(presigner)

	// Handlers
	authHandler := handler.NewAuthHandler(users)
	platformHandler := handler.NewPlatformHandler(schools, users)
	schoolHandler := handler.NewSchoolHandler(students, guardians)
	fileHandler := handler.NewFileHandler(files)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(cfg.IsProduction())

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(zlog))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/", handler.Status(cfg))
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	api := e.Group("/api/v1", middleware.Authenticate)

	// Own profile
	auth := api.Group("/auth")
	auth.GET("/me", authHandler.GetMyProfile)
	auth.PUT("/me", authHandler.UpdateMyProfile)

	// Platform surface
	platform := api.Group("/platform")

	schoolManagers := middleware.RequireRoles(
		model.RoleSuperAdmin,
		model.RoleAppManagerManagement,
	)
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

	// Tenant surface. The role gate runs before the tenant gate on every
	// route, so a role outside the allow-list is rejected as ROLE_FORBIDDEN
	// before its tenant association is ever inspected.
	my := api.Group("/schools/my")

	tenantGate := middleware.RequireTenantAccess("school_id", false)
	studentReaders := middleware.RequireRoles(
		model.RoleSchoolAdmin,
		model.RoleSchoolDataEditor,
		model.RoleClassTeacher,
		model.RoleTeacher,
		model.RoleParent,
	)
	studentEditors := middleware.RequireRoles(
		model.RoleSchoolAdmin,
		model.RoleSchoolDataEditor,
	)
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

	// File surface
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

	zlog.Info("Listening on port " + cfg.Server.Port)
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("Server stopped: " + err.Error())
	}
}
