package repository

import (
	"go-healthcare-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindAll(db *gorm.DB) ([]entity.User, error)
	UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	// Deactivate soft-disables the account; users are never physically deleted.
	Deactivate(db *gorm.DB, id uuid.UUID) (int64, error)
}
