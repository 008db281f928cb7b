package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID   uuid.UUID `json:"patient_id" validate:"required"`
	DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Reason      string    `json:"reason" validate:"required,min=3"`
	Notes       string    `json:"notes,omitempty"`
}

// UpdateAppointmentRequest carries a partial update; only non-nil fields are
// applied.
type UpdateAppointmentRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Reason      *string    `json:"reason,omitempty" validate:"omitempty,min=3"`
	Notes       *string    `json:"notes,omitempty"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID        `json:"id"`
	PatientID   uuid.UUID        `json:"patient_id"`
	DoctorID    uuid.UUID        `json:"doctor_id"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	Reason      string           `json:"reason"`
	Notes       *string          `json:"notes,omitempty"`
	Status      string           `json:"status"`
	Patient     *PatientResponse `json:"patient,omitempty"`
	Doctor      *UserResponse    `json:"doctor,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
