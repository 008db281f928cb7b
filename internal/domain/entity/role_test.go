package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleDoctor.Valid())
	assert.True(t, RoleNurse.Valid())
	assert.False(t, Role("PATIENT").Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("DOCTOR")
	assert.True(t, ok)
	assert.Equal(t, RoleDoctor, role)

	_, ok = ParseRole("SURGEON")
	assert.False(t, ok)

	// Case sensitive by design: roles are stored uppercase.
	_, ok = ParseRole("doctor")
	assert.False(t, ok)
}

func TestPrincipalCanActOn(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()

	doctor := Principal{ID: ownerID, Role: RoleDoctor}
	assert.True(t, doctor.CanActOn(ownerID))
	assert.False(t, doctor.CanActOn(otherID))

	admin := Principal{ID: uuid.New(), Role: RoleAdmin}
	assert.True(t, admin.CanActOn(ownerID))
	assert.True(t, admin.CanActOn(otherID))

	nurse := Principal{ID: uuid.New(), Role: RoleNurse}
	assert.False(t, nurse.CanActOn(ownerID))
}

func TestUserIsDoctor(t *testing.T) {
	assert.True(t, (&User{Role: RoleDoctor}).IsDoctor())
	assert.False(t, (&User{Role: RoleAdmin}).IsDoctor())
	assert.False(t, (&User{Role: RoleNurse}).IsDoctor())
}
