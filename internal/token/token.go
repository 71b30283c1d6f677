package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/socialpet/backend/internal/models"
)

// ErrInvalid is returned by Verify for any token that cannot be trusted:
// malformed input, a signature that does not match the configured secret, or
// an unexpected signing method.
var ErrInvalid = errors.New("invalid token")

// Claims are the identity claims carried by a bearer token. Tokens are issued
// without an expiry; only IssuedAt is set.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256-signed bearer tokens. It holds no state
// beyond the signing secret; both operations are pure functions of secret and
// input.
type Service struct {
	secret []byte
}

// NewService creates a token Service signing with the given secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue produces a signed token carrying the user's identity claims.
func (s *Service) Issue(user *models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token string, returning the embedded claims.
// Tokens never expire, so age is not checked.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
