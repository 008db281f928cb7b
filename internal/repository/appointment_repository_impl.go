package repository

import (
	"errors"
	"time"

	"go-healthcare-records/internal/domain/entity"
	domainRepo "go-healthcare-records/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, date *time.Time) ([]entity.Appointment, error) {
	query := db.Preload("Patient").Where("doctor_id = ?", doctorID)
	if date != nil {
		dayStart := date.Truncate(24 * time.Hour)
		query = query.Where("scheduled_at >= ? AND scheduled_at < ?", dayStart, dayStart.Add(24*time.Hour))
	}

	var appointments []entity.Appointment
	err := query.Order("scheduled_at ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("scheduled_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindOverlapping implements the conflict-window predicate as a range query so
// the doctor_id + scheduled_at index can serve it. The bounds are exclusive:
// appointments exactly ConflictWindow apart do not overlap.
func (r *appointmentRepository) FindOverlapping(db *gorm.DB, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (*entity.Appointment, error) {
	query := db.Where(
		"doctor_id = ? AND status <> ? AND scheduled_at > ? AND scheduled_at < ?",
		doctorID,
		entity.AppointmentStatusCancelled,
		at.Add(-entity.ConflictWindow),
		at.Add(entity.ConflictWindow),
	)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var appointment entity.Appointment
	err := query.First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return db.Model(&entity.Appointment{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatusIf performs the status transition as a single conditional
// UPDATE so two concurrent transitions on the same appointment cannot both
// succeed. Zero affected rows means the row was missing or already left the
// expected status.
func (r *appointmentRepository) UpdateStatusIf(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus, notes *string) (int64, error) {
	fields := map[string]interface{}{"status": to}
	if notes != nil {
		fields["notes"] = *notes
	}
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	return result.RowsAffected, result.Error
}
