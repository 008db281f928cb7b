package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email     string `validate:"required,email"`
	Name      string `validate:"required,min=2"`
	Role      string `validate:"omitempty,oneof=ADMIN DOCTOR NURSE"`
	BirthDate string `validate:"omitempty,datetime=2006-01-02"`
}

func TestValidatePasses(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(&sampleRequest{
		Email:     "doctor@clinic.test",
		Name:      "Dr. House",
		Role:      "DOCTOR",
		BirthDate: "1985-06-11",
	})
	assert.NoError(t, err)
}

func TestFormatValidationErrors(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(&sampleRequest{
		Email:     "not-an-email",
		Name:      "x",
		Role:      "SURGEON",
		BirthDate: "11/06/1985",
	})
	require.Error(t, err)

	formatted := cv.FormatValidationErrors(err)
	assert.Equal(t, "Email must be a valid email address", formatted["Email"])
	assert.Equal(t, "Name must be at least 2 characters", formatted["Name"])
	assert.Equal(t, "Role must be one of: ADMIN DOCTOR NURSE", formatted["Role"])
	assert.Equal(t, "BirthDate must match the format 2006-01-02", formatted["BirthDate"])
}

func TestFormatValidationErrorsRequired(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(&sampleRequest{})
	require.Error(t, err)

	formatted := cv.FormatValidationErrors(err)
	assert.Equal(t, "Email is required", formatted["Email"])
	assert.Equal(t, "Name is required", formatted["Name"])
}
