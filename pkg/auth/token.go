package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// Codec signs and verifies session tokens with a shared server secret.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewCodec builds a token codec. The TTL defaults to 24 hours when
// non-positive.
func NewCodec(secret, issuer string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue mints a signed token for the payload, expiring after the configured TTL.
func (c *Codec) Issue(now time.Time, payload SessionTokenPayload) (string, error) {
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}

	claims := SessionTokenClaims{
		UserID: payload.UserID,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify validates the token string and returns typed claims. It is total
// over its input: malformed, tampered, and expired tokens all return
// (nil, false), never a panic.
func (c *Codec) Verify(tokenString string) (*SessionTokenClaims, bool) {
	if tokenString == "" {
		return nil, false
	}

	claims := &SessionTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
	)
	if err != nil {
		return nil, false
	}
	return claims, true
}
