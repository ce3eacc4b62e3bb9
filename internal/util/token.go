package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"community-board-api/internal/domain"
)

// GenerateAccessToken issues a signed HMAC token carrying the member's ID
// and role
func GenerateAccessToken(secret string, member *domain.Member, expiry time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"member_id": member.ID,
		"role":      string(member.Role),
		"iat":       now.Unix(),
		"exp":       now.Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
