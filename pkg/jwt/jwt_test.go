package jwt

import (
	"testing"
	"time"

	"go-healthcare-records/config"
	"go-healthcare-records/internal/domain/entity"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestService("test-secret")
	userID := uuid.New()

	token, tokenID, err := service.GenerateAccessToken(userID, "doctor@clinic.test", entity.RoleDoctor)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "doctor@clinic.test", claims.Email)
	assert.Equal(t, entity.RoleDoctor, claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestRefreshTokenHasRefreshType(t *testing.T) {
	service := newTestService("test-secret")

	token, _, err := service.GenerateRefreshToken(uuid.New(), "nurse@clinic.test", entity.RoleNurse)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service := newTestService("test-secret")
	other := newTestService("different-secret")

	token, _, err := service.GenerateAccessToken(uuid.New(), "admin@clinic.test", entity.RoleAdmin)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := newTestService("test-secret")

	_, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = service.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenRejectsUnknownRole(t *testing.T) {
	secret := "test-secret"
	service := newTestService(secret)

	claims := Claims{
		UserID:    uuid.New(),
		Email:     "someone@clinic.test",
		Role:      entity.Role("PATIENT"),
		TokenType: AccessToken,
		TokenID:   uuid.New().String(),
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = service.ValidateToken(signed)
	assert.Error(t, err)
}

func TestPrincipalFromClaims(t *testing.T) {
	service := newTestService("test-secret")
	userID := uuid.New()

	token, _, err := service.GenerateAccessToken(userID, "admin@clinic.test", entity.RoleAdmin)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	principal := claims.Principal()
	assert.Equal(t, userID, principal.ID)
	assert.Equal(t, "admin@clinic.test", principal.Email)
	assert.True(t, principal.IsAdmin())
}
