package converter

import (
	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/domain/entity"

	"github.com/google/uuid"
)

func MedicalHistoryToResponse(history *entity.MedicalHistory) *dto.MedicalHistoryResponse {
	if history == nil {
		return nil
	}

	response := &dto.MedicalHistoryResponse{
		ID:          history.ID,
		PatientID:   history.PatientID,
		DoctorID:    history.DoctorID,
		Date:        history.Date.Format("2006-01-02"),
		Description: history.Description,
		Diagnosis:   history.Diagnosis,
		Treatment:   history.Treatment,
		CreatedAt:   history.CreatedAt,
		UpdatedAt:   history.UpdatedAt,
	}

	if history.Doctor.ID != uuid.Nil {
		response.Doctor = UserToResponse(&history.Doctor)
	}

	return response
}

func MedicalHistoriesToResponses(histories []entity.MedicalHistory) []dto.MedicalHistoryResponse {
	responses := make([]dto.MedicalHistoryResponse, len(histories))
	for i, history := range histories {
		resp := MedicalHistoryToResponse(&history)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
