// Package auth issues and verifies the signed tokens used for API sessions and
// password resets.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/anonto42/microblog/internal/models"
)

const (
	SessionTTL       = 72 * time.Hour
	ResetPasswordTTL = 600 * time.Second
)

var ErrInvalidToken = errors.New("invalid or expired token")

type resetClaims struct {
	ResetPassword uint `json:"reset_password"`
	jwt.RegisteredClaims
}

// TokenManager signs tokens with the application SECRET_KEY (HS256).
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// Issue returns a session token for user valid for ttl.
func (m *TokenManager) Issue(user *models.User, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates a session token and returns its claims.
func (m *TokenManager) Parse(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) ResetPasswordToken(user *models.User) (string, error) {
	now := m.now()
	claims := &resetClaims{
		ResetPassword: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetPasswordTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyResetPasswordToken returns the id of the user the token was issued for.
func (m *TokenManager) VerifyResetPasswordToken(tokenString string) (uint, error) {
	claims := &resetClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return 0, err
	}
	if claims.ResetPassword == 0 {
		return 0, ErrInvalidToken
	}
	return claims.ResetPassword, nil
}

func (m *TokenManager) parse(tokenString string, claims jwt.Claims) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
