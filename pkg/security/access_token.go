package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// AccessTokenBytes is the entropy behind contractor access tokens.
const AccessTokenBytes = 32

// GenerateAccessToken returns a URL-safe opaque token with AccessTokenBytes
// of entropy. Tokens are generated once at contractor creation.
func GenerateAccessToken() (string, error) {
	buf := make([]byte, AccessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
