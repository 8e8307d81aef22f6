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

// StudentService manages tenant-scoped student records. Every query is
// filtered by school ID regardless of the gate that ran before it.
type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

// Create inserts a student under the given school. The school ID always
// comes from the authenticated principal, never from the payload.
func (s *StudentService) Create(ctx context.Context, schoolID string, attrs map[string]any) (*model.Student, error) {
	student := model.Student{
		SchoolID:        schoolID,
		FirstName:       schema.Str(attrs, "first_name"),
		LastName:        schema.Str(attrs, "last_name"),
		DateOfBirth:     schema.TimePtr(attrs, "date_of_birth"),
		ClassName:       schema.Str(attrs, "class_name"),
		ProfilePhotoURL: schema.Str(attrs, "profile_photo_url"),
		Allergies:       model.StringList(schema.List(attrs, "allergies")),
		Notes:           schema.Str(attrs, "notes"),
	}

	if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
		return nil, apperror.WithDetails("Failed to create student.", http.StatusInternalServerError, "STUDENT_CREATION_ERROR", err.Error())
	}
	return &student, nil
}

// ListBySchool returns all students of one school.
func (s *StudentService) ListBySchool(ctx context.Context, schoolID string) ([]model.Student, error) {
	var students []model.Student
	if err := s.db.WithContext(ctx).Where("school_id = ?", schoolID).Find(&students).Error; err != nil {
		return nil, apperror.WithDetails("Failed to retrieve students for this school.", http.StatusInternalServerError, "STUDENT_FETCH_ERROR", err.Error())
	}
	return students, nil
}

// GetByID returns the student or nil when no record matches id and school.
func (s *StudentService) GetByID(ctx context.Context, id, schoolID string) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).Where("id = ? AND school_id = ?", id, schoolID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.WithDetails("Failed to retrieve student.", http.StatusInternalServerError, "STUDENT_FETCH_ERROR", err.Error())
	}
	return &student, nil
}

// Update applies validated attributes to a student of the given school. The
// school ID column is immutable after creation.
func (s *StudentService) Update(ctx context.Context, id, schoolID string, attrs map[string]any) (*model.Student, error) {
	// The schema never admits school_id, but strip it anyway: the tenant key
	// must not be client-writable under any path.
	delete(attrs, "school_id")
	if v, ok := attrs["allergies"].([]string); ok {
		attrs["allergies"] = model.StringList(v)
	}

	if len(attrs) > 0 {
		result := s.db.WithContext(ctx).Model(&model.Student{}).
			Where("id = ? AND school_id = ?", id, schoolID).
			Updates(attrs)
		if result.Error != nil {
			return nil, apperror.WithDetails("Failed to update student.", http.StatusInternalServerError, "STUDENT_UPDATE_ERROR", result.Error.Error())
		}
		if result.RowsAffected == 0 {
			return nil, apperror.New("Student not found or not part of this school for update.", http.StatusNotFound, "STUDENT_NOT_FOUND")
		}
	}

	student, err := s.GetByID(ctx, id, schoolID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.New("Student not found or not part of this school for update.", http.StatusNotFound, "STUDENT_NOT_FOUND")
	}
	return student, nil
}

// Delete removes a student of the given school. A cross-school id matches no
// row and surfaces as not found.
func (s *StudentService) Delete(ctx context.Context, id, schoolID string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND school_id = ?", id, schoolID).Delete(&model.Student{})
	if result.Error != nil {
		return apperror.WithDetails("Failed to delete student.", http.StatusInternalServerError, "STUDENT_DELETION_ERROR", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return apperror.New("Student not found or not part of this school.", http.StatusNotFound, "STUDENT_NOT_FOUND")
	}
	return nil
}
