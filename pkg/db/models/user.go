package models

import (
	"time"

	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/google/uuid"
)

// User is a technician or administrator. Email and phone are both optional
// but at least one must be present; each is unique when set.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        *string        `gorm:"column:email"`
	Phone        *string        `gorm:"column:phone"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'tech'"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Active       bool           `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == enums.UserRoleAdmin
}
