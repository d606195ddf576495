package token

import (
	"errors"
	"fmt"
	"time"
	"travelmail/internal/core"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const issuer = "travelmail"

var ErrInvalidToken = errors.New("invalid token")

// Issue 以 HS256 簽發管理者 JWT
func Issue(secret, username string, role core.Role, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("secret key is empty")
	}
	claims := core.Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse 驗證簽章與有效期間，只接受 HMAC 簽章
func Parse(secret, raw string) (*core.Claims, error) {
	claims := &core.Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
