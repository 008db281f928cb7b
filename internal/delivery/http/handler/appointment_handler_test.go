package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/service"
	"go-healthcare-records/internal/usecase"
	"go-healthcare-records/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAppointmentUsecase lets each test inject the error or result it needs.
type stubAppointmentUsecase struct {
	scheduleErr   error
	rescheduleErr error
	cancelErr     error
	completeErr   error
	getErr        error
	response      *dto.AppointmentResponse
}

func (s *stubAppointmentUsecase) Schedule(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.response, s.scheduleErr
}

func (s *stubAppointmentUsecase) Reschedule(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.response, s.rescheduleErr
}

func (s *stubAppointmentUsecase) Cancel(ctx context.Context, id uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
	return s.response, s.cancelErr
}

func (s *stubAppointmentUsecase) Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return s.response, s.completeErr
}

func (s *stubAppointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return s.response, s.getErr
}

func (s *stubAppointmentUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID, date *time.Time) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, nil
}

func (s *stubAppointmentUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, nil
}

func (s *stubAppointmentUsecase) HasConflict(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (bool, error) {
	return false, nil
}

func newAppointmentHandler(stub *stubAppointmentUsecase) *AppointmentHandler {
	return NewAppointmentHandler(stub, validator.NewValidator())
}

func validScheduleBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(dto.CreateAppointmentRequest{
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Reason:      "routine checkup",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestScheduleStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, http.StatusCreated},
		{"patient missing", usecase.ErrPatientNotFound, http.StatusNotFound},
		{"doctor missing", usecase.ErrDoctorNotFound, http.StatusNotFound},
		{"past time", usecase.ErrPastAppointment, http.StatusBadRequest},
		{"outside working hours", usecase.ErrOutsideWorkingHours, http.StatusBadRequest},
		{"schedule conflict", usecase.ErrScheduleConflict, http.StatusConflict},
		{"doctor locked", service.ErrDoctorLocked, http.StatusConflict},
		{"infrastructure failure", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAppointmentHandler(&stubAppointmentUsecase{
				scheduleErr: tt.err,
				response:    &dto.AppointmentResponse{ID: uuid.New()},
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", validScheduleBody(t))

			h.Schedule(rec, req)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestScheduleRejectsInvalidBody(t *testing.T) {
	h := newAppointmentHandler(&stubAppointmentUsecase{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString("{not json"))
	h.Schedule(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleRejectsMissingFields(t *testing.T) {
	h := newAppointmentHandler(&stubAppointmentUsecase{})

	body, err := json.Marshal(dto.CreateAppointmentRequest{Reason: "x"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBuffer(body))
	h.Schedule(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, http.StatusOK},
		{"not found", usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{"already cancelled", usecase.ErrAppointmentNotEditable, http.StatusBadRequest},
		{"already completed", usecase.ErrInvalidTransition, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAppointmentHandler(&stubAppointmentUsecase{
				cancelErr: tt.err,
				response:  &dto.AppointmentResponse{ID: uuid.New()},
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/x/cancel", bytes.NewBufferString(`{"reason":"no show"}`))
			req = mux.SetURLVars(req, map[string]string{"id": uuid.New().String()})

			h.Cancel(rec, req)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestCancelRejectsBadID(t *testing.T) {
	h := newAppointmentHandler(&stubAppointmentUsecase{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/nope/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})

	h.Cancel(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, http.StatusOK},
		{"not found", usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{"not the doctor", usecase.ErrNotAppointmentOwner, http.StatusForbidden},
		{"already terminal", usecase.ErrInvalidTransition, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAppointmentHandler(&stubAppointmentUsecase{
				completeErr: tt.err,
				response:    &dto.AppointmentResponse{ID: uuid.New()},
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/x/complete", nil)
			req = mux.SetURLVars(req, map[string]string{"id": uuid.New().String()})

			h.Complete(rec, req)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestRescheduleStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, http.StatusOK},
		{"not found", usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{"terminal state", usecase.ErrAppointmentNotEditable, http.StatusBadRequest},
		{"conflict", usecase.ErrScheduleConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAppointmentHandler(&stubAppointmentUsecase{
				rescheduleErr: tt.err,
				response:      &dto.AppointmentResponse{ID: uuid.New()},
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/appointments/x", bytes.NewBufferString(`{"reason":"follow-up"}`))
			req = mux.SetURLVars(req, map[string]string{"id": uuid.New().String()})

			h.Reschedule(rec, req)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestListByDoctorRejectsBadDate(t *testing.T) {
	h := newAppointmentHandler(&stubAppointmentUsecase{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/doctor/x?date=10-03-2026", nil)
	req = mux.SetURLVars(req, map[string]string{"doctorId": uuid.New().String()})

	h.ListByDoctor(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByIDStatusMapping(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h := newAppointmentHandler(&stubAppointmentUsecase{response: &dto.AppointmentResponse{ID: uuid.New()}})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/x", nil)
		req = mux.SetURLVars(req, map[string]string{"id": uuid.New().String()})

		h.GetByID(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		h := newAppointmentHandler(&stubAppointmentUsecase{getErr: usecase.ErrAppointmentNotFound})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/x", nil)
		req = mux.SetURLVars(req, map[string]string{"id": uuid.New().String()})

		h.GetByID(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
