package usecase

import (
	"context"
	"errors"
	"time"

	"go-healthcare-records/config"
	"go-healthcare-records/internal/converter"
	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/delivery/http/middleware"
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/repository"
	"go-healthcare-records/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrPastAppointment        = errors.New("appointment time must be in the future")
	ErrOutsideWorkingHours    = errors.New("appointment time is outside clinic working hours")
	ErrScheduleConflict       = errors.New("doctor already has an appointment within the conflict window")
	ErrAppointmentNotEditable = errors.New("cannot modify a cancelled or completed appointment")
	ErrInvalidTransition      = errors.New("status transition not permitted")
	ErrNotAppointmentOwner    = errors.New("appointment belongs to another doctor")
)

type AppointmentUsecase interface {
	Schedule(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, date *time.Time) (*dto.AppointmentListResponse, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	HasConflict(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (bool, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clinic          config.ClinicConfig
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	userRepo        repository.UserRepository
	auditRepo       repository.AuditLogRepository
	lockService     *service.DoctorLockService
	cacheService    *service.CacheService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinic config.ClinicConfig,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	lockService *service.DoctorLockService,
	cacheService *service.CacheService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		clinic:          clinic,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		lockService:     lockService,
		cacheService:    cacheService,
	}
}

// validateScheduleTime enforces the temporal preconditions: strictly in the
// future and inside the clinic's daily operating window.
func (u *appointmentUsecase) validateScheduleTime(at time.Time) error {
	if !at.After(time.Now()) {
		return ErrPastAppointment
	}
	if !entity.WithinWorkingHours(at, u.clinic.Timezone) {
		return ErrOutsideWorkingHours
	}
	return nil
}

// Schedule creates a new appointment. The existence checks, the overlap check
// and the insert all run inside one bounded transaction, and the whole
// check-then-insert section holds the doctor's advisory lock so two
// concurrent calls for the same doctor cannot both pass the overlap check.
func (u *appointmentUsecase) Schedule(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	if err := u.validateScheduleTime(req.ScheduledAt); err != nil {
		return nil, err
	}

	var created *entity.Appointment

	err := u.lockService.WithDoctorLock(ctx, req.DoctorID, func(lockCtx context.Context) error {
		txCtx, cancel := context.WithTimeout(lockCtx, u.clinic.TxTimeout)
		defer cancel()

		tx := u.db.WithContext(txCtx).Begin()
		defer tx.Rollback()

		patient, err := u.patientRepo.FindByID(tx, req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}

		doctor, err := u.userRepo.FindByID(tx, req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
			return err
		}
		if doctor == nil || !doctor.IsDoctor() || !doctor.Active {
			return ErrDoctorNotFound
		}

		conflict, err := u.appointmentRepo.FindOverlapping(tx, req.DoctorID, req.ScheduledAt, nil)
		if err != nil {
			u.log.Warnf("Failed overlap check for doctor %s: %+v", req.DoctorID, err)
			return err
		}
		if conflict != nil {
			return ErrScheduleConflict
		}

		appointment := &entity.Appointment{
			PatientID:   req.PatientID,
			DoctorID:    req.DoctorID,
			ScheduledAt: req.ScheduledAt,
			Reason:      req.Reason,
			Status:      entity.AppointmentStatusScheduled,
		}
		if req.Notes != "" {
			appointment.Notes = &req.Notes
		}

		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		if err := u.writeAudit(tx, principal, entity.AuditActionAppointmentSchedule, entity.JSON{
			"appointment_id": appointment.ID.String(),
			"doctor_id":      req.DoctorID.String(),
			"patient_id":     req.PatientID.String(),
			"scheduled_at":   req.ScheduledAt,
		}); err != nil {
			return err
		}

		if err := tx.Commit().Error; err != nil {
			u.log.Warnf("Failed commit transaction: %+v", err)
			return err
		}

		created = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment scheduled: id=%s, doctor=%s, at=%s", created.ID, created.DoctorID, created.ScheduledAt)
	return u.reload(ctx, created)
}

// Reschedule applies a partial update. Only appointments still in SCHEDULED
// may change, and a new time re-runs the overlap check excluding the
// appointment itself.
func (u *appointmentUsecase) Reschedule(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	if req.ScheduledAt != nil {
		if err := u.validateScheduleTime(*req.ScheduledAt); err != nil {
			return nil, err
		}
	}

	// The doctor lock only matters when the time moves; the doctor id comes
	// from a preliminary read, the authoritative checks rerun inside the
	// transaction.
	current, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if current == nil {
		return nil, ErrAppointmentNotFound
	}

	apply := func(lockCtx context.Context) error {
		txCtx, cancel := context.WithTimeout(lockCtx, u.clinic.TxTimeout)
		defer cancel()

		tx := u.db.WithContext(txCtx).Begin()
		defer tx.Rollback()

		appointment, err := u.appointmentRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if !appointment.IsScheduled() {
			return ErrAppointmentNotEditable
		}

		// Allow-listed field map; request keys are never reflected into SQL.
		fields := map[string]interface{}{}
		if req.ScheduledAt != nil {
			conflict, err := u.appointmentRepo.FindOverlapping(tx, appointment.DoctorID, *req.ScheduledAt, &id)
			if err != nil {
				return err
			}
			if conflict != nil {
				return ErrScheduleConflict
			}
			fields["scheduled_at"] = *req.ScheduledAt
		}
		if req.Reason != nil {
			fields["reason"] = *req.Reason
		}
		if req.Notes != nil {
			fields["notes"] = *req.Notes
		}
		if len(fields) == 0 {
			return nil
		}

		if err := u.appointmentRepo.UpdateFields(tx, id, fields); err != nil {
			u.log.Warnf("Failed to update appointment %s: %+v", id, err)
			return err
		}

		if err := u.writeAudit(tx, principal, entity.AuditActionAppointmentReschedule, entity.JSON{
			"appointment_id": id.String(),
		}); err != nil {
			return err
		}

		return tx.Commit().Error
	}

	if req.ScheduledAt != nil {
		err = u.lockService.WithDoctorLock(ctx, current.DoctorID, apply)
	} else {
		err = apply(ctx)
	}
	if err != nil {
		return nil, err
	}

	u.cacheService.Invalidate(ctx, service.CacheKeyAppointmentPrefix+id.String())

	return u.reload(ctx, current)
}

// Cancel moves a SCHEDULED appointment to CANCELLED and appends an
// actor-attributed audit line to its notes. Cancelling an appointment that
// already reached a terminal state fails instead of silently succeeding.
func (u *appointmentUsecase) Cancel(ctx context.Context, id uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	return u.transition(ctx, id, entity.AppointmentStatusCancelled, func(appointment *entity.Appointment) *string {
		notes := entity.CancellationNote(appointment.Notes, time.Now(), principal.ID, reason)
		return &notes
	}, principal, entity.AuditActionAppointmentCancel, nil)
}

// Complete moves a SCHEDULED appointment to COMPLETED. Only the appointment's
// doctor or an admin may complete it.
func (u *appointmentUsecase) Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	guard := func(appointment *entity.Appointment) error {
		if !principal.CanActOn(appointment.DoctorID) {
			return ErrNotAppointmentOwner
		}
		return nil
	}

	return u.transition(ctx, id, entity.AppointmentStatusCompleted, nil, principal, entity.AuditActionAppointmentComplete, guard)
}

// transition runs the status state machine inside a bounded transaction. The
// conditional update guards against a concurrent transition winning between
// the read and the write.
func (u *appointmentUsecase) transition(
	ctx context.Context,
	id uuid.UUID,
	target entity.AppointmentStatus,
	buildNotes func(*entity.Appointment) *string,
	principal entity.Principal,
	auditAction string,
	guard func(*entity.Appointment) error,
) (*dto.AppointmentResponse, error) {
	txCtx, cancel := context.WithTimeout(ctx, u.clinic.TxTimeout)
	defer cancel()

	tx := u.db.WithContext(txCtx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if guard != nil {
		if err := guard(appointment); err != nil {
			return nil, err
		}
	}

	if !appointment.Status.CanTransitionTo(target) {
		if appointment.IsCancelled() {
			return nil, ErrAppointmentNotEditable
		}
		return nil, ErrInvalidTransition
	}

	var notes *string
	if buildNotes != nil {
		notes = buildNotes(appointment)
	}

	rows, err := u.appointmentRepo.UpdateStatusIf(tx, id, entity.AppointmentStatusScheduled, target, notes)
	if err != nil {
		u.log.Warnf("Failed status update for appointment %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		// Lost a race against another transition.
		return nil, ErrInvalidTransition
	}

	if err := u.writeAudit(tx, principal, auditAction, entity.JSON{
		"appointment_id": id.String(),
		"from":           string(appointment.Status),
		"to":             string(target),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cacheService.Invalidate(ctx, service.CacheKeyAppointmentPrefix+id.String())
	u.log.Infof("Appointment %s: %s -> %s by %s", id, appointment.Status, target, principal.ID)

	return u.reload(ctx, appointment)
}

// GetByID reads through the appointment cache.
func (u *appointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	var response dto.AppointmentResponse
	err := u.cacheService.GetOrLoad(ctx, service.CacheKeyAppointmentPrefix+id.String(), service.CacheTTLAppointment, &response, func() error {
		appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", id, err)
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		response = *converter.AppointmentToResponse(appointment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (u *appointmentUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID, date *time.Time) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to list appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// HasConflict reports whether a non-cancelled appointment of the doctor lies
// within the conflict window around at.
func (u *appointmentUsecase) HasConflict(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (bool, error) {
	conflict, err := u.appointmentRepo.FindOverlapping(u.db.WithContext(ctx), doctorID, at, excludeID)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}

// reload fetches the appointment with its relations for the response; if the
// reload fails the bare entity still answers.
func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) (*dto.AppointmentResponse, error) {
	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(full), nil
}

// writeAudit records the mutation in the same transaction, so a failed audit
// insert rolls the mutation back with it.
func (u *appointmentUsecase) writeAudit(tx *gorm.DB, principal entity.Principal, action string, metadata entity.JSON) error {
	actorID := principal.ID
	entry := &entity.AuditLog{
		UserID:   &actorID,
		Action:   action,
		Metadata: metadata,
	}
	if err := u.auditRepo.Create(tx, entry); err != nil {
		u.log.Warnf("Failed to write audit log %s: %+v", action, err)
		return err
	}
	return nil
}
