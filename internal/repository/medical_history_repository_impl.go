package repository

import (
	"errors"

	"go-healthcare-records/internal/domain/entity"
	domainRepo "go-healthcare-records/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicalHistoryRepository struct{}

func NewMedicalHistoryRepository() domainRepo.MedicalHistoryRepository {
	return &medicalHistoryRepository{}
}

func (r *medicalHistoryRepository) Create(db *gorm.DB, history *entity.MedicalHistory) error {
	return db.Create(history).Error
}

func (r *medicalHistoryRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.MedicalHistory, error) {
	var history entity.MedicalHistory
	err := db.Preload("Doctor").Where("id = ?", id).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

func (r *medicalHistoryRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalHistory, error) {
	var histories []entity.MedicalHistory
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date DESC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *medicalHistoryRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return db.Model(&entity.MedicalHistory{}).Where("id = ?", id).Updates(fields).Error
}

func (r *medicalHistoryRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.MedicalHistory{})
	return result.RowsAffected, result.Error
}
