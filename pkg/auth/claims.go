package auth

import (
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// SessionTokenClaims represents the typed JWT issued to clients. The token is
// stateless; there is no server-side session store behind it.
type SessionTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
