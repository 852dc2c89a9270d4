package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cppla/discuss/config"
)

// Claims carries the caller identity and moderator flag.
type Claims struct {
	Username  string `json:"username"`
	Moderator bool   `json:"moderator,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a JWT for username. It is used by operators and tests;
// login flows live outside this service.
func GenerateToken(username string, moderator bool, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		Username:  username,
		Moderator: moderator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Username == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
