package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies the account type of a user
type Role string

const (
	RoleDonor    Role = "DONOR"
	RoleHospital Role = "HOSPITAL"
	RoleCamp     Role = "CAMP"
	RolePatient  Role = "PATIENT"
	RoleAdmin    Role = "ADMIN"
)

// User is the identity row shared by every role
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone" db:"phone"`
	PasswordHash string `json:"-" db:"password_hash"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Role         Role   `json:"role" db:"role"`
	IsVerified   bool   `json:"is_verified" db:"is_verified"`
	IsActive     bool   `json:"is_active" db:"is_active"`
}

// FullName returns the display name for notifications and listings
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// TokenClaims carries the identity fields embedded in issued tokens
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// TokenResponse is the token pair returned by login and refresh
type TokenResponse struct {
	AccessToken  string    `json:"access"`
	RefreshToken string    `json:"refresh"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh" binding:"required"`
}
