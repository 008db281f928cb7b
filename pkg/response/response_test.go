package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, 201, "created", map[string]string{"id": "abc"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "created", body.Message)
	assert.NotNil(t, body.Data)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(*httptest.ResponseRecorder)
		code    int
		message string
	}{
		{"bad request", func(r *httptest.ResponseRecorder) { BadRequest(r, "nope") }, 400, "nope"},
		{"bad request default", func(r *httptest.ResponseRecorder) { BadRequest(r, "") }, 400, "Bad request"},
		{"unauthorized", func(r *httptest.ResponseRecorder) { Unauthorized(r, "") }, 401, "Unauthorized"},
		{"forbidden", func(r *httptest.ResponseRecorder) { Forbidden(r, "") }, 403, "Forbidden"},
		{"not found", func(r *httptest.ResponseRecorder) { NotFound(r, "") }, 404, "Resource not found"},
		{"conflict", func(r *httptest.ResponseRecorder) { Conflict(r, "slot taken") }, 409, "slot taken"},
		{"internal", func(r *httptest.ResponseRecorder) { InternalServerError(r, "") }, 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.fn(rec)

			assert.Equal(t, tt.code, rec.Code)
			body := decodeBody(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"Email": "Email is required"})

	assert.Equal(t, 400, rec.Code)
	body := decodeBody(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Validation failed", body.Message)
	assert.NotNil(t, body.Error)
}
