package domain

import "time"

type ViewPreference string

const (
	ViewPreferenceSplit ViewPreference = "split"
	ViewPreferenceGrid  ViewPreference = "grid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Password       string         `json:"password,omitempty"` // Stored hashed, cleared before responses
	Role           Role           `json:"role"`
	ViewPreference ViewPreference `json:"viewPreference"`

	LLMRequestCount     int       `json:"llmRequestCount"`
	LLMRequestLastReset time.Time `json:"llmRequestLastReset"`

	PasswordChangedAt *time.Time `json:"passwordChangedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Tokens issued before a password change are stale.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}

// QuotaStatus is the outcome of one LLM-quota consumption attempt.
type QuotaStatus struct {
	Count     int       `json:"count"`
	Limit     int       `json:"limit"`
	LastReset time.Time `json:"lastReset"`
	NextReset time.Time `json:"nextReset"`
	Exceeded  bool      `json:"exceeded"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type UpdateViewPreferenceRequest struct {
	ViewPreference ViewPreference `json:"viewPreference" validate:"required,oneof=split grid"`
}
