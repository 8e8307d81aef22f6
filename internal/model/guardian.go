package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guardian belongs to a student; tenant scoping is enforced through the
// owning student's school.
type Guardian struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey"`
	StudentID       string         `json:"student_id" gorm:"type:uuid;index;not null"`
	Name            string         `json:"name" gorm:"type:varchar(200);not null"`
	Relation        string         `json:"relation,omitempty" gorm:"type:varchar(50)"`
	PhoneNumber     string         `json:"phone_number,omitempty" gorm:"type:varchar(50)"`
	Email           string         `json:"email,omitempty" gorm:"type:varchar(100)"`
	ProfilePhotoURL string         `json:"profile_photo_url,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (g *Guardian) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
