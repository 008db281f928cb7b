package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateMedicalHistoryRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required,min=3"`
	Diagnosis   string `json:"diagnosis,omitempty"`
	Treatment   string `json:"treatment,omitempty"`
}

type UpdateMedicalHistoryRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,min=3"`
	Diagnosis   *string `json:"diagnosis,omitempty"`
	Treatment   *string `json:"treatment,omitempty"`
}

// Response DTOs

type MedicalHistoryResponse struct {
	ID          uuid.UUID     `json:"id"`
	PatientID   uuid.UUID     `json:"patient_id"`
	DoctorID    uuid.UUID     `json:"doctor_id"`
	Date        string        `json:"date"`
	Description string        `json:"description"`
	Diagnosis   string        `json:"diagnosis,omitempty"`
	Treatment   string        `json:"treatment,omitempty"`
	Doctor      *UserResponse `json:"doctor,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type MedicalHistoryListResponse struct {
	Histories []MedicalHistoryResponse `json:"histories"`
	Total     int                      `json:"total"`
}
