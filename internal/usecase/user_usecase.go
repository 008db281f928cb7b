package usecase

import (
	"context"
	"errors"

	"go-healthcare-records/internal/converter"
	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/delivery/http/middleware"
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidRole        = errors.New("unknown role")
)

type UserUsecase interface {
	Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	List(ctx context.Context) (*dto.UserListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type userUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
) UserUsecase {
	return &userUsecase{
		db:        db,
		log:       log,
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Register creates a new staff account. The role comes validated from the
// request DTO; duplicate emails surface as ErrEmailAlreadyExists instead of a
// raw constraint error.
func (u *userUsecase) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	role, ok := entity.ParseRole(req.Role)
	if !ok {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
		Active:   true,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.userRepo.Create(tx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionUserRegister,
		Metadata: entity.JSON{
			"new_user_id": user.ID.String(),
			"email":       user.Email,
			"role":        string(role),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("User registered: %s (%s)", user.Email, user.Role)
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) List(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

func (u *userUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Role != nil {
		role, ok := entity.ParseRole(*req.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		fields["role"] = role
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if len(fields) == 0 {
		return converter.UserToResponse(user), nil
	}

	if err := u.userRepo.UpdateFields(tx, id, fields); err != nil {
		u.log.Warnf("Failed to update user %s: %+v", id, err)
		return nil, err
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionUserUpdate,
		Metadata: entity.JSON{
			"target_user_id": id.String(),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.GetByID(ctx, id)
}

// Deactivate soft-disables the account. The next revocation check rejects the
// user's existing sessions when their tokens expire; no rows are deleted.
func (u *userUsecase) Deactivate(ctx context.Context, id uuid.UUID) error {
	principal, ok := middleware.GetPrincipalFromContext(ctx)
	if !ok {
		return errors.New("principal not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.userRepo.Deactivate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to deactivate user %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	actorID := principal.ID
	if err := u.auditRepo.Create(tx, &entity.AuditLog{
		UserID: &actorID,
		Action: entity.AuditActionUserDeactivate,
		Metadata: entity.JSON{
			"target_user_id": id.String(),
		},
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("User deactivated: %s by %s", id, principal.ID)
	return nil
}
