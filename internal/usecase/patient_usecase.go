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
	"go-healthcare-records/internal/service"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrPatientEmailExists = errors.New("patient email already registered")

type PatientUsecase interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	Search(ctx context.Context, term string) (*dto.PatientListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	auditRepo    repository.AuditLogRepository
	cacheService *service.CacheService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	auditRepo repository.AuditLogRepository,
	cacheService *service.CacheService,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		auditRepo:    auditRepo,
		cacheService: cacheService,
	}
}

func (u *patientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	// Format already validated by the DTO.
	dateOfBirth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		Name:        req.Name,
		DateOfBirth: dateOfBirth,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		BloodType:   req.BloodType,
		Allergies:   pq.StringArray(req.Allergies),
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientRepo.Create(tx, patient); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPatientEmailExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionPatientCreate,
		Metadata: entity.JSON{
			"patient_id": patient.ID.String(),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient created: %s by %s", patient.ID, principal.ID)
	return converter.PatientToResponse(patient), nil
}

// GetByID reads through the patient cache.
func (u *patientUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	var response dto.PatientResponse
	err := u.cacheService.GetOrLoad(ctx, service.CacheKeyPatientPrefix+id.String(), service.CacheTTLPatient, &response, func() error {
		patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", id, err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		response = *converter.PatientToResponse(patient)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (u *patientUsecase) Search(ctx context.Context, term string) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.Search(u.db.WithContext(ctx), term)
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

func (u *patientUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.BloodType != nil {
		fields["blood_type"] = *req.BloodType
	}
	if req.Allergies != nil {
		fields["allergies"] = pq.StringArray(*req.Allergies)
	}
	if len(fields) == 0 {
		return converter.PatientToResponse(patient), nil
	}

	if err := u.patientRepo.UpdateFields(tx, id, fields); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPatientEmailExists
		}
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionPatientUpdate,
		Metadata: entity.JSON{
			"patient_id": id.String(),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cacheService.Invalidate(ctx, service.CacheKeyPatientPrefix+id.String())

	return u.GetByID(ctx, id)
}

func (u *patientUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return errors.New("principal not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.patientRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete patient %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrPatientNotFound
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionPatientDelete,
		Metadata: entity.JSON{
			"patient_id": id.String(),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cacheService.Invalidate(ctx, service.CacheKeyPatientPrefix+id.String())
	u.log.Infof("Patient deleted: %s by %s", id, principal.ID)
	return nil
}
