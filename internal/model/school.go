package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// School represents a tenant. Every tenant-scoped record in the system hangs
// off a school ID.
type School struct {
	ID                string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name              string         `json:"name" gorm:"type:varchar(100);not null"`
	Subdomain         string         `json:"subdomain" gorm:"type:varchar(63);uniqueIndex"`
	AdminEmail        string         `json:"admin_email" gorm:"type:varchar(100)"`
	Package           string         `json:"package" gorm:"type:varchar(50)"`
	Status            string         `json:"status" gorm:"type:varchar(20)"`
	StudentLimit      int            `json:"student_limit"`
	TeacherLimit      int            `json:"teacher_limit"`
	AdminLimit        int            `json:"admin_limit"`
	BrandingSettings  JSONMap        `json:"branding_settings" gorm:"type:jsonb"`
	ModuleSettings    JSONMap        `json:"module_settings" gorm:"type:jsonb"`
	Timezone          string         `json:"timezone" gorm:"type:varchar(50)"`
	CurrencyCode      string         `json:"currency_code" gorm:"type:varchar(3)"`
	AcademicYearStart *time.Time     `json:"academic_year_start,omitempty"`
	AcademicYearEnd   *time.Time     `json:"academic_year_end,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

func (s *School) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
