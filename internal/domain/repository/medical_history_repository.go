package repository

import (
	"go-healthcare-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalHistoryRepository interface {
	Create(db *gorm.DB, history *entity.MedicalHistory) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.MedicalHistory, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalHistory, error)
	UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
