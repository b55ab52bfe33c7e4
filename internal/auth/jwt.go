package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spiceroute/spiceroute-be/internal/models"
)

// TokenTTL is how long an issued session token stays valid. There is no
// revocation list; a token outlives everything except account deletion,
// which the guard catches by re-resolving the account on every request.
const TokenTTL = 7 * 24 * time.Hour

// Claims defines the JWT claims structure. The account ID travels in the
// registered "sub" claim.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new signed token for an account.
func GenerateToken(account models.Account, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("signing secret is not configured")
	}

	claims := &Claims{
		Email: account.Email,
		Role:  account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token string and returns its claims. Only HS256 is
// ever accepted; the algorithm field of the token itself is not trusted.
// Malformed structure, bad signature and expiry all come back as a plain
// error so callers cannot leak why verification failed.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
