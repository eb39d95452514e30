package auth

import (
	"context"

	"github.com/mmynk/groupledger/internal/models"
)

// Authenticator registers users and checks their credentials.
type Authenticator interface {
	// Register stores a new user. Emails are unique; a taken email yields
	// ErrEmailExists and a credential that fails ValidateCredential yields
	// ErrWeakPassword.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate returns the user owning email if credential matches,
	// ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
