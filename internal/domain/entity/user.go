package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a staff account (admin, doctor or nurse). Patients do not
// log in; they are managed records, see Patient.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Email       string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"type:text;not null" json:"-"`
	Role        Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	Active      bool       `gorm:"not null;default:true;index" json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsDoctor reports whether the user can be assigned appointments.
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
