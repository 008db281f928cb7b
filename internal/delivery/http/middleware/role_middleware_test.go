package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-healthcare-records/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func requestWithPrincipal(role entity.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	principal := entity.Principal{ID: uuid.New(), Email: "staff@clinic.test", Role: role}
	return req.WithContext(context.WithValue(req.Context(), PrincipalKey, principal))
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)

	RequireAdmin(newNextHandler(&called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAdmin(t *testing.T) {
	t.Run("allows admin", func(t *testing.T) {
		called := false
		rec := httptest.NewRecorder()

		RequireAdmin(newNextHandler(&called)).ServeHTTP(rec, requestWithPrincipal(entity.RoleAdmin))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("rejects doctor", func(t *testing.T) {
		called := false
		rec := httptest.NewRecorder()

		RequireAdmin(newNextHandler(&called)).ServeHTTP(rec, requestWithPrincipal(entity.RoleDoctor))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, called)
	})
}

func TestRequireClinicalStaff(t *testing.T) {
	tests := []struct {
		role    entity.Role
		allowed bool
	}{
		{entity.RoleDoctor, true},
		{entity.RoleNurse, true},
		{entity.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			called := false
			rec := httptest.NewRecorder()

			RequireClinicalStaff(newNextHandler(&called)).ServeHTTP(rec, requestWithPrincipal(tt.role))

			assert.Equal(t, tt.allowed, called)
			if !tt.allowed {
				assert.Equal(t, http.StatusForbidden, rec.Code)
			}
		})
	}
}

func TestRequireStaffAllowsAllRoles(t *testing.T) {
	for _, role := range []entity.Role{entity.RoleAdmin, entity.RoleDoctor, entity.RoleNurse} {
		called := false
		rec := httptest.NewRecorder()

		RequireStaff(newNextHandler(&called)).ServeHTTP(rec, requestWithPrincipal(role))

		assert.True(t, called, "role %s", role)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
