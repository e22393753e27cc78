package auth

import (
	"github.com/bremray/bremray-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint. Email
// takes precedence over phone when both are supplied.
type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty"`
	Phone    string `json:"phone" validate:"omitempty"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the session token and public user view produced by
// a successful login or refresh.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
