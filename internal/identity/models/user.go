// Package models defines the user account aggregate.
package models

import (
	"strings"
	"time"

	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

// User is an account. PasswordHash never leaves the process; the json tag
// keeps it out of every response body.
type User struct {
	ID           id.UserID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         id.Role   `json:"role"`
	PasswordHash []byte    `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser validates account fields. The password hash is produced by the
// service; models never see plaintext.
func NewUser(userID id.UserID, email, fullName string, role id.Role, passwordHash []byte, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	case fullName == "":
		return nil, dErrors.New(dErrors.CodeValidation, "full_name is required")
	case !role.IsValid():
		return nil, dErrors.New(dErrors.CodeValidation, "invalid role: "+string(role))
	case len(passwordHash) == 0:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password hash is required")
	}
	return &User{
		ID:           userID,
		Email:        email,
		FullName:     fullName,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail lowercases and trims so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
