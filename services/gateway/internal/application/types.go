package application

import (
	"time"

	"github.com/homeroot/mesh/platform/identity"
)

type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the user record returned by auth and admin endpoints.
// Token is populated only on login/signup and current-user reads; the
// password hash never leaves the service.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `json:"token,omitempty"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Config carries the service-wide auth constants.
type Config struct {
	TokenTTL             time.Duration
	FailedLoginThreshold int
	LockoutDuration      time.Duration
	ProtectedAdmin       string
	MaxAdmins            int64
	DefaultRole          identity.Role
}
