package repository

import (
	"time"

	"go-healthcare-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentRepository translates scheduling intents into persistence
// operations on the appointments table. Every method runs against the
// *gorm.DB handle the caller supplies, so calls inside an open transaction
// stay inside it; the repository never begins or commits on its own.
type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindByDoctorID returns a doctor's appointments in ascending time order,
	// optionally restricted to a single calendar day.
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, date *time.Time) ([]entity.Appointment, error)
	// FindByPatientID returns a patient's appointments in descending time order.
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	// FindOverlapping returns any non-cancelled appointment of the doctor whose
	// scheduled time lies strictly within the conflict window around at,
	// excluding excludeID when rescheduling.
	FindOverlapping(db *gorm.DB, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (*entity.Appointment, error)
	// UpdateFields applies a partial update. Callers are responsible for
	// allow-listing the field names; nothing is reflected from request input.
	UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	// UpdateStatusIf atomically moves the appointment from one status to
	// another, optionally replacing notes in the same statement. It returns
	// the number of affected rows: 0 means the appointment was missing or no
	// longer in the expected status.
	UpdateStatusIf(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus, notes *string) (int64, error)
}
