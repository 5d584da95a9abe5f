package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/duynhne/credential-auth/internal/core/domain"
)

// Registrar creates accounts and immediately authenticates them.
type Registrar struct {
	accounts      domain.AccountRepository
	passwords     PasswordHasher
	authenticator *Authenticator
}

// NewRegistrar creates a Registrar.
func NewRegistrar(accounts domain.AccountRepository, passwords PasswordHasher, authenticator *Authenticator) *Registrar {
	return &Registrar{
		accounts:      accounts,
		passwords:     passwords,
		authenticator: authenticator,
	}
}

// Register stores a new account and logs it in with the same password.
//
// Failures: ErrMissingField, ErrPasswordTooLong, ErrUserExists,
// ErrStoreUnavailable. If the account was stored but the follow-up login
// fails, the created account's claims are returned together with
// ErrPostRegistrationAuthFailed.
func (r *Registrar) Register(ctx context.Context, email, name, password string) (*domain.IdentityClaims, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("register: %w", ErrMissingField)
	}
	if name = strings.TrimSpace(name); name == "" {
		name = defaultName(email)
	}

	hash, err := r.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := r.accounts.Create(ctx, email, name, hash)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, fmt.Errorf("register %q: %w", email, ErrUserExists)
		}
		return nil, fmt.Errorf("create account %q: %w: %w", email, ErrStoreUnavailable, err)
	}

	claims, err := r.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		created := account.Claims()
		return &created, fmt.Errorf("login after register %q: %w: %w", email, ErrPostRegistrationAuthFailed, err)
	}

	return claims, nil
}

// defaultName derives a display name from the local part of the email.
func defaultName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
