package usecase

import (
	"context"
	"errors"
	"time"

	"go-healthcare-records/internal/converter"
	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/delivery/http/middleware"
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrHistoryNotFound = errors.New("medical history entry not found")
	ErrNotRecordOwner  = errors.New("medical history entry belongs to another doctor")
)

type MedicalHistoryUsecase interface {
	Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateMedicalHistoryRequest) (*dto.MedicalHistoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicalHistoryResponse, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.MedicalHistoryListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicalHistoryRequest) (*dto.MedicalHistoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type medicalHistoryUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	historyRepo repository.MedicalHistoryRepository
	patientRepo repository.PatientRepository
	auditRepo   repository.AuditLogRepository
}

func NewMedicalHistoryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	historyRepo repository.MedicalHistoryRepository,
	patientRepo repository.PatientRepository,
	auditRepo repository.AuditLogRepository,
) MedicalHistoryUsecase {
	return &medicalHistoryUsecase{
		db:          db,
		log:         log,
		historyRepo: historyRepo,
		patientRepo: patientRepo,
		auditRepo:   auditRepo,
	}
}

// Create adds a clinical entry to a patient's record. The authoring doctor is
// always the authenticated caller.
func (u *medicalHistoryUsecase) Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateMedicalHistoryRequest) (*dto.MedicalHistoryResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	history := &entity.MedicalHistory{
		PatientID:   patientID,
		DoctorID:    principal.ID,
		Date:        date,
		Description: req.Description,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
	}

	if err := u.historyRepo.Create(tx, history); err != nil {
		u.log.Warnf("Failed to create medical history: %+v", err)
		return nil, err
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionHistoryCreate,
		Metadata: entity.JSON{
			"history_id": history.ID.String(),
			"patient_id": patientID.String(),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.MedicalHistoryToResponse(history), nil
}

func (u *medicalHistoryUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicalHistoryResponse, error) {
	history, err := u.historyRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find medical history %s: %+v", id, err)
		return nil, err
	}
	if history == nil {
		return nil, ErrHistoryNotFound
	}

	return converter.MedicalHistoryToResponse(history), nil
}

func (u *medicalHistoryUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.MedicalHistoryListResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	histories, err := u.historyRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list medical histories for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.MedicalHistoryListResponse{
		Histories: converter.MedicalHistoriesToResponses(histories),
		Total:     len(histories),
	}, nil
}

// Update edits an entry. Only the authoring doctor or an admin may change it.
func (u *medicalHistoryUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicalHistoryRequest) (*dto.MedicalHistoryResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	history, err := u.historyRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medical history %s: %+v", id, err)
		return nil, err
	}
	if history == nil {
		return nil, ErrHistoryNotFound
	}
	if !principal.CanActOn(history.DoctorID) {
		return nil, ErrNotRecordOwner
	}

	fields := map[string]interface{}{}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Diagnosis != nil {
		fields["diagnosis"] = *req.Diagnosis
	}
	if req.Treatment != nil {
		fields["treatment"] = *req.Treatment
	}
	if len(fields) == 0 {
		return converter.MedicalHistoryToResponse(history), nil
	}

	if err := u.historyRepo.UpdateFields(tx, id, fields); err != nil {
		u.log.Warnf("Failed to update medical history %s: %+v", id, err)
		return nil, err
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionHistoryUpdate,
		Metadata: entity.JSON{
			"history_id": id.String(),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.GetByID(ctx, id)
}

// Delete removes an entry, subject to the same ownership rule as Update.
func (u *medicalHistoryUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return errors.New("principal not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	history, err := u.historyRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medical history %s: %+v", id, err)
		return err
	}
	if history == nil {
		return ErrHistoryNotFound
	}
	if !principal.CanActOn(history.DoctorID) {
		return ErrNotRecordOwner
	}

	if _, err := u.historyRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete medical history %s: %+v", id, err)
		return err
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionHistoryDelete,
		Metadata: entity.JSON{
			"history_id": id.String(),
			"patient_id": history.PatientID.String(),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
