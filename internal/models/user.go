package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the login name, stored lower-cased. Unique.
	Email string

	FullName  string
	AvatarURL string

	// PasswordHash is a bcrypt hash.
	PasswordHash string

	// SecurityAnswerHash is a bcrypt hash of the normalised answer to the
	// account recovery question.
	SecurityAnswerHash string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, fullName, passwordHash, securityAnswerHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:                 uuid.New().String(),
		Email:              email,
		FullName:           fullName,
		PasswordHash:       passwordHash,
		SecurityAnswerHash: securityAnswerHash,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
