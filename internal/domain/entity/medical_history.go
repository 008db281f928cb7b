package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalHistory is one clinical entry in a patient's record.
type MedicalHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Diagnosis   string    `gorm:"type:text" json:"diagnosis"`
	Treatment   string    `gorm:"type:text" json:"treatment"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (MedicalHistory) TableName() string {
	return "medical_histories"
}
