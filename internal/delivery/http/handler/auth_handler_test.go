package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/usecase"
	"go-healthcare-records/pkg/validator"

	"github.com/stretchr/testify/assert"
)

type stubAuthUsecase struct {
	loginErr   error
	refreshErr error
	tokens     *dto.TokenResponse
}

func (s *stubAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	return s.tokens, s.loginErr
}

func (s *stubAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return s.tokens, s.refreshErr
}

func (s *stubAuthUsecase) Logout(ctx context.Context) error {
	return nil
}

func (s *stubAuthUsecase) Me(ctx context.Context) (*dto.UserResponse, error) {
	return &dto.UserResponse{}, nil
}

func TestLoginStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, http.StatusOK},
		{"bad credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled account", usecase.ErrAccountDisabled, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthUsecase{loginErr: tt.err, tokens: &dto.TokenResponse{}}, validator.NewValidator())

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
				bytes.NewBufferString(`{"email":"doctor@clinic.test","password":"secret123"}`))

			h.Login(rec, req)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestLoginValidatesPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthUsecase{}, validator.NewValidator())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		bytes.NewBufferString(`{"email":"not-an-email","password":""}`))

	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshTokenStatusMapping(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthUsecase{refreshErr: usecase.ErrInvalidToken}, validator.NewValidator())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token",
			bytes.NewBufferString(`{"refresh_token":"stale"}`))

		h.RefreshToken(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthUsecase{tokens: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r"}}, validator.NewValidator())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token",
			bytes.NewBufferString(`{"refresh_token":"valid"}`))

		h.RefreshToken(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
