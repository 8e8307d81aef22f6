package service

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"school-service/internal/apperror"
	"school-service/internal/model"
)

// UserService manages user profiles. Profiles are keyed by the identity
// provider's user ID; role and school assignment are never client-writable.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetProfile returns the profile for an identity, nil when none exists.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.WithDetails("Failed to retrieve user profile.", http.StatusInternalServerError, "PROFILE_FETCH_ERROR", err.Error())
	}
	return &profile, nil
}

// UpdateProfile applies validated attributes to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, attrs map[string]any) (*model.UserProfile, error) {
	if len(attrs) > 0 {
		result := s.db.WithContext(ctx).Model(&model.UserProfile{}).
			Where("user_id = ?", userID).
			Updates(attrs)
		if result.Error != nil {
			return nil, apperror.WithDetails("Failed to update user profile.", http.StatusInternalServerError, "PROFILE_UPDATE_ERROR", result.Error.Error())
		}
		if result.RowsAffected == 0 {
			return nil, apperror.New("User profile not found for update.", http.StatusNotFound, "PROFILE_NOT_FOUND")
		}
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.New("User profile not found for update.", http.StatusNotFound, "PROFILE_NOT_FOUND")
	}
	return profile, nil
}

// ListProfiles returns every profile. Platform use only.
func (s *UserService) ListProfiles(ctx context.Context) ([]model.UserProfile, error) {
	var profiles []model.UserProfile
	if err := s.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, apperror.WithDetails("Failed to retrieve all user profiles.", http.StatusInternalServerError, "PROFILES_FETCH_ERROR", err.Error())
	}
	return profiles, nil
}
