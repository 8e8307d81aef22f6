package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/apperror"
	"school-service/internal/model"
	"school-service/internal/schema"
	"school-service/internal/service"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

var uploadURLSchema = schema.New(
	schema.String("file_type").Required().OneOf(
		"profile_photos",
		"student_documents",
		"feed_media",
		"reports",
		"certificates",
		"other_uploads",
	),
	schema.String("original_file_name").Required().Min(1),
	schema.String("school_id"),
)

// FileHandler issues signed upload URLs and resolves public URLs for
// previously uploaded objects.
type FileHandler struct {
	files *service.FileService
}

func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// GetUploadURL handles POST /files/upload-url. Tenant callers always upload
// into their own school's directory; platform callers name the target school
// in the body.
func (h *FileHandler) GetUploadURL(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principalOrErr(c)
	if err != nil {
		return err
	}

	attrs, err := bindAndValidate(c, uploadURLSchema)
	if err != nil {
		return err
	}

	var schoolID string
	if p.Role.Family() == model.FamilyPlatform {
		schoolID = schema.Str(attrs, "school_id")
		if schoolID == "" {
			return apperror.New("Forbidden: User is not associated with a school.", http.StatusForbidden, apperror.CodeTenantRequired)
		}
	} else {
		schoolID, err = schoolIDOf(p)
		if err != nil {
			return err
		}
	}
	prometheus.RecordEntityOperation("file", "sign_upload")

	signedURL, fullPath, err := h.files.SignedUploadURL(
		c.Request().Context(),
		schoolID,
		p.UserID,
		schema.Str(attrs, "file_type"),
		schema.Str(attrs, "original_file_name"),
	)
	if err != nil {
		return err
	}

	log.Info("Signed upload URL issued",
		zap.String("user_id", p.UserID),
		zap.String("school_id", schoolID),
		zap.String("full_path", fullPath))
	return c.JSON(http.StatusOK, map[string]string{
		"signed_url": signedURL,
		"full_path":  fullPath,
	})
}

// GetPublicURL handles GET /files/public-url?file_path=...
func (h *FileHandler) GetPublicURL(c echo.Context) error {
	filePath := c.QueryParam("file_path")
	if filePath == "" {
		return apperror.New("File path is required as a query parameter.", http.StatusBadRequest, apperror.CodeInvalidInput)
	}
	prometheus.RecordEntityOperation("file", "public_url")

	publicURL := h.files.PublicURL(filePath)
	if publicURL == "" {
		return apperror.New("Public URL not found for the given path.", http.StatusNotFound, "FILE_NOT_FOUND")
	}
	return c.JSON(http.StatusOK, map[string]string{"public_url": publicURL})
}
