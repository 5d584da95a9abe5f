package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/duynhne/credential-auth/internal/core/domain"
)

// Authenticator verifies a credential presentation against the account store.
// It never writes.
type Authenticator struct {
	accounts  domain.AccountRepository
	passwords PasswordHasher
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(accounts domain.AccountRepository, passwords PasswordHasher) *Authenticator {
	return &Authenticator{
		accounts:  accounts,
		passwords: passwords,
	}
}

// Authenticate returns the identity claims for email/password.
//
// Failures: ErrMissingField, ErrUserNotFound, ErrInvalidCredentials,
// ErrStoreUnavailable. ErrUserNotFound and ErrInvalidCredentials must be
// reported identically to external callers (see IsInvalidLogin).
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*domain.IdentityClaims, error) {
	if domain.NormalizeEmail(email) == "" || password == "" {
		return nil, fmt.Errorf("authenticate: %w", ErrMissingField)
	}

	account, err := a.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			a.passwords.VerifyDummy(password)
			return nil, fmt.Errorf("authenticate %q: %w", email, ErrUserNotFound)
		}
		return nil, fmt.Errorf("find account %q: %w: %w", email, ErrStoreUnavailable, err)
	}

	if !a.passwords.Verify(password, account.PasswordHash) {
		return nil, fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
	}

	claims := account.Claims()
	return &claims, nil
}
