package domain

//go:generate mockgen -source=account_repository.go -destination=../../../mocks/mock_account_repository.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Errors returned by AccountRepository implementations.
var (
	// ErrAccountNotFound is returned by FindByEmail when no account matches.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned by Create when the email is already registered.
	ErrAccountExists = errors.New("account already exists")
)

// Account is a stored user record. PasswordHash is the one-way credential,
// never the plaintext.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Claims projects the account into the identity exposed after authentication.
func (a *Account) Claims() IdentityClaims {
	return IdentityClaims{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
	}
}

// NormalizeEmail returns the comparison key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountRepository defines the data-access contract for accounts.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL or pgx directly.
type AccountRepository interface {
	// FindByEmail returns the account with the given email (case-insensitive).
	// Returns ErrAccountNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// Create stores a new account and returns it with its server-assigned ID.
	// The uniqueness check and the insert are a single atomic operation:
	// concurrent calls for the same email yield one success and ErrAccountExists
	// for every other caller.
	Create(ctx context.Context, email, name, passwordHash string) (*Account, error)
}
