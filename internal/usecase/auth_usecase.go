package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-healthcare-records/internal/converter"
	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/delivery/http/middleware"
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/repository"
	"go-healthcare-records/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*dto.UserResponse, error)
}

type authUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	auditRepo   repository.AuditLogRepository
	jwtService  *jwt.JWTService
	redisClient *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		jwtService:  jwtService,
		redisClient: redisClient,
	}
}

func accessTokenKey(userID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID, tokenID)
}

func refreshTokenKey(userID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID, tokenID)
}

// Login verifies the credentials and issues an access/refresh token pair. Both
// tokens are registered in the Redis allow-list, so revocation on logout is
// immediate rather than waiting for expiry.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		u.log.Warnf("Failed login attempt for %s", req.Email)
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.userRepo.UpdateFields(tx, user.ID, map[string]interface{}{
		"last_login_at": now,
	}); err != nil {
		u.log.Warnf("Failed to record last login for %s: %+v", user.ID, err)
		return nil, err
	}

	userID := user.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &userID,
		Action: entity.AuditActionUserLogin,
		Metadata: entity.JSON{
			"email": user.Email,
		},
	}); err != nil {
		u.log.Warnf("Failed to write login audit log: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("User logged in: %s (%s)", user.Email, user.Role)
	return tokens, nil
}

// RefreshToken rotates the token pair. The presented refresh token must still
// be in the allow-list and is consumed on use.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	key := refreshTokenKey(claims.UserID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, key).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", claims.UserID, err)
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidToken
	}

	if err := u.redisClient.Del(ctx, key).Err(); err != nil {
		u.log.Warnf("Failed to consume refresh token: %+v", err)
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the current access token. The refresh tokens of the session
// expire on their own; the access allow-list entry is what gates requests.
func (u *authUsecase) Logout(ctx context.Context) error {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return errors.New("principal not found in context")
	}
	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return errors.New("token id not found in context")
	}

	if err := u.redisClient.Del(ctx, accessTokenKey(principal.ID.String(), tokenID)).Err(); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	userID := principal.ID
	if err := u.auditRepo.Create(u.db.WithContext(ctx), &entity.AuditLog{
		UserID: &userID,
		Action: entity.AuditActionUserLogout,
	}); err != nil {
		u.log.Warnf("Failed to write logout audit log: %+v", err)
	}

	u.log.Infof("User logged out: %s", principal.Email)
	return nil
}

// Me returns the authenticated user's own account.
func (u *authUsecase) Me(ctx context.Context) (*dto.UserResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), principal.ID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", principal.ID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	userID := user.ID.String()
	if err := u.redisClient.Set(ctx, accessTokenKey(userID, accessTokenID), "1", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.redisClient.Set(ctx, refreshTokenKey(userID, refreshTokenID), "1", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
