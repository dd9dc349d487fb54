package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	Username            string     `json:"username" gorm:"size:64;uniqueIndex"`
	Email               string     `json:"email" gorm:"size:120;uniqueIndex"`
	PasswordHash        string     `json:"-" gorm:"size:128"`
	AboutMe             *string    `json:"about_me,omitempty" gorm:"size:140"`
	LastSeen            *time.Time `json:"last_seen,omitempty"`
	FirebaseUID         *string    `json:"-" gorm:"size:128;uniqueIndex"`
	LastMessageReadTime *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Avatar returns the gravatar URL for the user's email at the given pixel size.
func (u *User) Avatar(size int) string {
	sum := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=retro&s=%d", hex.EncodeToString(sum[:]), size)
}

// UserCompact is the author block embedded in posts and notifications.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Avatar: u.Avatar(36)}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64,alphanumunicode"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordForm struct {
	Password string `json:"password" validate:"required,min=8"`
}

type EditProfileRequest struct {
	Username string  `json:"username" validate:"required,min=1,max=64,alphanumunicode"`
	AboutMe  *string `json:"about_me" validate:"omitempty,max=140"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
