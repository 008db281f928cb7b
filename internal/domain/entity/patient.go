package entity

import (
	"time"

	"github.com/lib/pq"

	"github.com/google/uuid"
)

// Patient is a managed medical record, not a login account.
type Patient struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null;index" json:"name"`
	DateOfBirth time.Time      `gorm:"type:date;not null" json:"date_of_birth"`
	Address     string         `gorm:"type:text" json:"address"`
	Phone       string         `gorm:"type:varchar(30)" json:"phone"`
	Email       *string        `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	BloodType   string         `gorm:"type:varchar(3)" json:"blood_type"`
	Allergies   pq.StringArray `gorm:"type:text[]" json:"allergies"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}
