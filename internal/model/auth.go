package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is the application-level authorization tier derived from an identity.
type Role string

const (
	RoleNone   Role = ""
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// Session is a server-side authentication session. The bearer token carries
// only the session id; the row is authoritative for expiry and revocation.
type Session struct {
	ID         uuid.UUID `json:"id" db:"id"`
	IdentityID uuid.UUID `json:"identity_id" db:"identity_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
}

// SessionClaims are the JWT claims embedded in access tokens.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID  uuid.UUID `json:"session_id"`
	IdentityID uuid.UUID `json:"identity_id"`
}

// SessionEvent announces an out-of-band session change. Session is nil when
// the session ended (sign-out or expiry).
type SessionEvent struct {
	IdentityID uuid.UUID
	Session    *Session
}

// RoleOutcome is the result of resolving a session against the admin and
// doctor-login tables. DoctorID and Profile are set only for RoleDoctor;
// Profile stays nil when the display lookup fails, the role stands either way.
type RoleOutcome struct {
	Role     Role           `json:"role"`
	DoctorID *uuid.UUID     `json:"doctor_id,omitempty"`
	Profile  *DoctorProfile `json:"profile,omitempty"`
}

// Admin is a row in the admin table; membership alone grants the admin role.
type Admin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"kullanici_adi"`
	PasswordHash string    `json:"-" db:"sifre"`
	CreatedAt    time.Time `json:"created_at" db:"olusturulma_tarihi"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	Outcome     RoleOutcome `json:"outcome"`
	Landing     string      `json:"landing"`
}

type ForgotPasswordRequest struct {
	Username string `json:"username" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
