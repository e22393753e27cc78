package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     *string        `json:"email,omitempty"`
	Phone     *string        `json:"phone,omitempty"`
	Role      enums.UserRole `json:"role"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        *string
	Phone        *string
	Role         enums.UserRole
	PasswordHash string
	Active       *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	role := c.Role
	if role == "" {
		role = enums.UserRoleTech
	}

	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		Role:         role,
		PasswordHash: c.PasswordHash,
		Active:       active,
	}
}
