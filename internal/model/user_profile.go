package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile links an identity-provider user to a role and, for tenant
// roles, a school. Platform principals have a null school_id.
type UserProfile struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          string         `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	SchoolID        *string        `json:"school_id" gorm:"type:uuid;index"`
	Role            Role           `json:"role" gorm:"type:varchar(50);not null"`
	FullName        string         `json:"full_name,omitempty" gorm:"type:varchar(200)"`
	PhoneNumber     string         `json:"phone_number,omitempty" gorm:"type:varchar(50)"`
	Address         string         `json:"address,omitempty" gorm:"type:text"`
	ProfilePhotoURL string         `json:"profile_photo_url,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
