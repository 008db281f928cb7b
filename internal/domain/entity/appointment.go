package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Clinic scheduling constants. The conflict window is symmetric: two
// non-cancelled appointments of the same doctor closer than ConflictWindow
// apart cannot coexist. Exactly ConflictWindow apart is allowed, so standard
// back-to-back half-hour slots work.
const (
	ConflictWindow = 30 * time.Minute
	OpeningHour    = 8
	ClosingHour    = 18
)

// Valid reports whether s is a known status value.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// CanTransitionTo reports whether the status transition s -> target is
// permitted. Only SCHEDULED -> COMPLETED and SCHEDULED -> CANCELLED exist;
// terminal states allow nothing.
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled:
		return target == AppointmentStatusCompleted || target == AppointmentStatusCancelled
	case AppointmentStatusCompleted, AppointmentStatusCancelled:
		return false
	}
	return false
}

// Appointment is the central scheduling entity.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_time" json:"doctor_id"`
	ScheduledAt time.Time         `gorm:"type:timestamptz;not null;index:idx_appointments_doctor_time" json:"scheduled_at"`
	Reason      string            `gorm:"type:text;not null" json:"reason"`
	Notes       *string           `gorm:"type:text" json:"notes,omitempty"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index" json:"status"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled reports whether the appointment is still open for changes.
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsCancelled reports whether the appointment was cancelled.
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// WithinWorkingHours reports whether t falls inside the clinic's daily
// operating window [08:00, 18:00) evaluated in loc.
func WithinWorkingHours(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	hour := local.Hour()
	return hour >= OpeningHour && hour < ClosingHour
}

// TimesConflict reports whether two appointment times of the same doctor are
// closer than the conflict window. The comparison is strict, so times exactly
// ConflictWindow apart do not conflict.
func TimesConflict(a, b time.Time) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff < ConflictWindow
}

// CancellationNote formats the audit line appended to an appointment's notes
// on cancellation. Existing notes are preserved; the line is appended on a
// new line.
func CancellationNote(existing *string, at time.Time, actorID uuid.UUID, reason string) string {
	line := fmt.Sprintf("[%s] cancelled by %s", at.UTC().Format(time.RFC3339), actorID)
	if reason != "" {
		line = fmt.Sprintf("%s: %s", line, reason)
	}
	if existing == nil || *existing == "" {
		return line
	}
	return *existing + "\n" + line
}
