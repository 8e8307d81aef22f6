package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is a tenant-scoped record. SchoolID is set once at creation from
// the authenticated principal and is never writable through updates.
type Student struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey"`
	SchoolID        string         `json:"school_id" gorm:"type:uuid;index;not null"`
	FirstName       string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName        string         `json:"last_name" gorm:"type:varchar(100);not null"`
	DateOfBirth     *time.Time     `json:"date_of_birth,omitempty"`
	ClassName       string         `json:"class_name,omitempty" gorm:"type:varchar(100)"`
	ProfilePhotoURL string         `json:"profile_photo_url,omitempty" gorm:"type:text"`
	Allergies       StringList     `json:"allergies,omitempty" gorm:"type:jsonb"`
	Notes           string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
