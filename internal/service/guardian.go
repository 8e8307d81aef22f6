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

// GuardianService manages guardians of students. Tenant scoping is enforced
// through the owning student: every operation first resolves the student
// under the caller's school.
type GuardianService struct {
	db *gorm.DB
}

func NewGuardianService(db *gorm.DB) *GuardianService {
	return &GuardianService{db: db}
}

// studentInSchool verifies the student belongs to the school. A cross-school
// student id is indistinguishable from a missing one.
func (s *GuardianService) studentInSchool(ctx context.Context, studentID, schoolID string) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ? AND school_id = ?", studentID, schoolID).
		Count(&count).Error
	if err != nil {
		return apperror.WithDetails("Failed to retrieve student.", http.StatusInternalServerError, "STUDENT_FETCH_ERROR", err.Error())
	}
	if count == 0 {
		return apperror.New("Student not found or not associated with this school.", http.StatusNotFound, "STUDENT_NOT_FOUND")
	}
	return nil
}

// Create inserts a guardian under a student of the given school.
func (s *GuardianService) Create(ctx context.Context, schoolID, studentID string, attrs map[string]any) (*model.Guardian, error) {
	if err := s.studentInSchool(ctx, studentID, schoolID); err != nil {
		return nil, err
	}

	guardian := model.Guardian{
		StudentID:       studentID,
		Name:            schema.Str(attrs, "name"),
		Relation:        schema.Str(attrs, "relation"),
		PhoneNumber:     schema.Str(attrs, "phone_number"),
		Email:           schema.Str(attrs, "email"),
		ProfilePhotoURL: schema.Str(attrs, "profile_photo_url"),
	}

	if err := s.db.WithContext(ctx).Create(&guardian).Error; err != nil {
		return nil, apperror.WithDetails("Failed to create guardian.", http.StatusInternalServerError, "GUARDIAN_CREATION_ERROR", err.Error())
	}
	return &guardian, nil
}

// ListByStudent returns all guardians of a student in the given school.
func (s *GuardianService) ListByStudent(ctx context.Context, schoolID, studentID string) ([]model.Guardian, error) {
	if err := s.studentInSchool(ctx, studentID, schoolID); err != nil {
		return nil, err
	}

	var guardians []model.Guardian
	if err := s.db.WithContext(ctx).Where("student_id = ?", studentID).Find(&guardians).Error; err != nil {
		return nil, apperror.WithDetails("Failed to retrieve guardians.", http.StatusInternalServerError, "GUARDIAN_FETCH_ERROR", err.Error())
	}
	return guardians, nil
}

// GetByID returns the guardian or nil when no record matches.
func (s *GuardianService) GetByID(ctx context.Context, schoolID, studentID, id string) (*model.Guardian, error) {
	if err := s.studentInSchool(ctx, studentID, schoolID); err != nil {
		return nil, err
	}

	var guardian model.Guardian
	err := s.db.WithContext(ctx).Where("id = ? AND student_id = ?", id, studentID).First(&guardian).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.WithDetails("Failed to retrieve guardian.", http.StatusInternalServerError, "GUARDIAN_FETCH_ERROR", err.Error())
	}
	return &guardian, nil
}

// Update applies validated attributes to a guardian.
func (s *GuardianService) Update(ctx context.Context, schoolID, studentID, id string, attrs map[string]any) (*model.Guardian, error) {
	if err := s.studentInSchool(ctx, studentID, schoolID); err != nil {
		return nil, err
	}

	if len(attrs) > 0 {
		result := s.db.WithContext(ctx).Model(&model.Guardian{}).
			Where("id = ? AND student_id = ?", id, studentID).
			Updates(attrs)
		if result.Error != nil {
			return nil, apperror.WithDetails("Failed to update guardian.", http.StatusInternalServerError, "GUARDIAN_UPDATE_ERROR", result.Error.Error())
		}
		if result.RowsAffected == 0 {
			return nil, apperror.New("Guardian not found for update.", http.StatusNotFound, "GUARDIAN_NOT_FOUND")
		}
	}

	guardian, err := s.GetByID(ctx, schoolID, studentID, id)
	if err != nil {
		return nil, err
	}
	if guardian == nil {
		return nil, apperror.New("Guardian not found for update.", http.StatusNotFound, "GUARDIAN_NOT_FOUND")
	}
	return guardian, nil
}

// Delete removes a guardian.
func (s *GuardianService) Delete(ctx context.Context, schoolID, studentID, id string) error {
	if err := s.studentInSchool(ctx, studentID, schoolID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("id = ? AND student_id = ?", id, studentID).Delete(&model.Guardian{})
	if result.Error != nil {
		return apperror.WithDetails("Failed to delete guardian.", http.StatusInternalServerError, "GUARDIAN_DELETION_ERROR", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return apperror.New("Guardian not found.", http.StatusNotFound, "GUARDIAN_NOT_FOUND")
	}
	return nil
}
