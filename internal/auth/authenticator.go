package auth

import (
	"context"

	"github.com/mmynk/budgetwiser/internal/models"
)

// Registration is what a new account is created from.
type Registration struct {
	Email    string
	FullName string
	Password string

	// SecurityAnswer lets the user reset a forgotten password.
	SecurityAnswer string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ResetCredential replaces the credential of the user with that email
	// once the security answer checks out.
	ResetCredential(ctx context.Context, email, securityAnswer, newCredential string) error

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
