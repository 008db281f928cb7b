package handler

import (
	"encoding/json"
	"net/http"

	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/usecase"
	"go-healthcare-records/pkg/response"
	"go-healthcare-records/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MedicalHistoryHandler struct {
	historyUsecase usecase.MedicalHistoryUsecase
	validator      *validator.CustomValidator
}

func NewMedicalHistoryHandler(historyUsecase usecase.MedicalHistoryUsecase, validator *validator.CustomValidator) *MedicalHistoryHandler {
	return &MedicalHistoryHandler{
		historyUsecase: historyUsecase,
		validator:      validator,
	}
}

func (h *MedicalHistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["patientId"])
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.CreateMedicalHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	history, err := h.historyUsecase.Create(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to create medical history entry")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Medical history entry created successfully", history)
}

func (h *MedicalHistoryHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["patientId"])
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	histories, err := h.historyUsecase.ListByPatient(r.Context(), patientID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to list medical history")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical history retrieved successfully", histories)
}

func (h *MedicalHistoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	historyID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.BadRequest(w, "Invalid medical history ID")
		return
	}

	history, err := h.historyUsecase.GetByID(r.Context(), historyID)
	if err != nil {
		switch err {
		case usecase.ErrHistoryNotFound:
			response.NotFound(w, "Medical history entry not found")
		default:
			response.InternalServerError(w, "Failed to get medical history entry")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical history entry retrieved successfully", history)
}

func (h *MedicalHistoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	historyID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.BadRequest(w, "Invalid medical history ID")
		return
	}

	var req dto.UpdateMedicalHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	history, err := h.historyUsecase.Update(r.Context(), historyID, &req)
	if err != nil {
		switch err {
		case usecase.ErrHistoryNotFound:
			response.NotFound(w, "Medical history entry not found")
		case usecase.ErrNotRecordOwner:
			response.Forbidden(w, "Only the authoring doctor can modify this entry")
		default:
			response.InternalServerError(w, "Failed to update medical history entry")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical history entry updated successfully", history)
}

func (h *MedicalHistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	historyID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.BadRequest(w, "Invalid medical history ID")
		return
	}

	if err := h.historyUsecase.Delete(r.Context(), historyID); err != nil {
		switch err {
		case usecase.ErrHistoryNotFound:
			response.NotFound(w, "Medical history entry not found")
		case usecase.ErrNotRecordOwner:
			response.Forbidden(w, "Only the authoring doctor can delete this entry")
		default:
			response.InternalServerError(w, "Failed to delete medical history entry")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical history entry deleted successfully", nil)
}
