package service

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"school-service/internal/apperror"
	"school-service/internal/model"
	"school-service/internal/schema"
)

// SchoolService manages tenant records. Platform-gated: routes using it are
// restricted to platform roles, so operations are not school-filtered.
type SchoolService struct {
	db *gorm.DB
}

func NewSchoolService(db *gorm.DB) *SchoolService {
	return &SchoolService{db: db}
}

// Create inserts a new school from validated attributes.
func (s *SchoolService) Create(ctx context.Context, attrs map[string]any) (*model.School, error) {
	school := model.School{
		Name:              schema.Str(attrs, "name"),
		Subdomain:         schema.Str(attrs, "subdomain"),
		AdminEmail:        schema.Str(attrs, "admin_email"),
		Package:           schema.Str(attrs, "package"),
		Status:            schema.Str(attrs, "status"),
		StudentLimit:      schema.IntVal(attrs, "student_limit"),
		TeacherLimit:      schema.IntVal(attrs, "teacher_limit"),
		AdminLimit:        schema.IntVal(attrs, "admin_limit"),
		BrandingSettings:  model.JSONMap(schema.Obj(attrs, "branding_settings")),
		ModuleSettings:    model.JSONMap(schema.Obj(attrs, "module_settings")),
		Timezone:          schema.Str(attrs, "timezone"),
		CurrencyCode:      schema.Str(attrs, "currency_code"),
		AcademicYearStart: schema.TimePtr(attrs, "academic_year_start"),
		AcademicYearEnd:   schema.TimePtr(attrs, "academic_year_end"),
	}

	if err := s.db.WithContext(ctx).Create(&school).Error; err != nil {
		return nil, apperror.WithDetails("Failed to create school.", http.StatusInternalServerError, "SCHOOL_CREATION_ERROR", err.Error())
	}
	return &school, nil
}

// List returns every school.
func (s *SchoolService) List(ctx context.Context) ([]model.School, error) {
	var schools []model.School
	if err := s.db.WithContext(ctx).Find(&schools).Error; err != nil {
		return nil, apperror.WithDetails("Failed to retrieve schools.", http.StatusInternalServerError, "SCHOOL_FETCH_ERROR", err.Error())
	}
	return schools, nil
}

// GetByID returns the school or nil when it does not exist.
func (s *SchoolService) GetByID(ctx context.Context, id string) (*model.School, error) {
	var school model.School
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&school).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.WithDetails("Failed to retrieve school.", http.StatusInternalServerError, "SCHOOL_FETCH_ERROR", err.Error())
	}
	return &school, nil
}

// Update applies validated attributes and returns the updated school.
func (s *SchoolService) Update(ctx context.Context, id string, attrs map[string]any) (*model.School, error) {
	normalizeSchoolAttrs(attrs)

	if len(attrs) > 0 {
		result := s.db.WithContext(ctx).Model(&model.School{}).Where("id = ?", id).Updates(attrs)
		if result.Error != nil {
			return nil, apperror.WithDetails("Failed to update school.", http.StatusInternalServerError, "SCHOOL_UPDATE_ERROR", result.Error.Error())
		}
		if result.RowsAffected == 0 {
			return nil, apperror.New("School not found for update.", http.StatusNotFound, "SCHOOL_NOT_FOUND")
		}
	}

	school, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, apperror.New("School not found for update.", http.StatusNotFound, "SCHOOL_NOT_FOUND")
	}
	return school, nil
}

// Delete removes a school by ID.
func (s *SchoolService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.School{})
	if result.Error != nil {
		return apperror.WithDetails("Failed to delete school.", http.StatusInternalServerError, "SCHOOL_DELETION_ERROR", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return apperror.New("School not found.", http.StatusNotFound, "SCHOOL_NOT_FOUND")
	}
	return nil
}

// normalizeSchoolAttrs converts validated values into their column types so
// gorm can bind them in an Updates map.
func normalizeSchoolAttrs(attrs map[string]any) {
	if v, ok := attrs["branding_settings"].(map[string]any); ok {
		attrs["branding_settings"] = model.JSONMap(v)
	}
	if v, ok := attrs["module_settings"].(map[string]any); ok {
		attrs["module_settings"] = model.JSONMap(v)
	}
}
