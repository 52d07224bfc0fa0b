package opentok

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateToken mints a fresh client credential for joining the given session.
// The token is a pure function of the session id plus the project secret; no
// state is kept and nothing is cached, so every call yields a new token.
func (c *Client) GenerateToken(sessionID string, expire time.Duration) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("generate token: empty session id")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":        c.apiKey,
		"ist":        "project",
		"iat":        now.Unix(),
		"exp":        now.Add(expire).Unix(),
		"jti":        uuid.New().String(),
		"scope":      "session.connect",
		"session_id": sessionID,
		"role":       "publisher",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.apiSecret))
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return signed, nil
}
