package repository

import (
	"go-healthcare-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	// Search matches on name or email, case-insensitively. An empty term
	// returns all patients ordered by name.
	Search(db *gorm.DB, term string) ([]entity.Patient, error)
	UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
