// Package v1 provides authentication business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent authentication,
// registration and session failures. They are wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods.
//
// Example Usage:
//
//	if errors.Is(err, domain.ErrAccountNotFound) {
//	    return nil, fmt.Errorf("authenticate %q: %w", email, ErrUserNotFound)
//	}
//
//	if !s.passwords.Verify(password, account.PasswordHash) {
//	    return nil, fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case logicv1.IsInvalidLogin(err):
//	    c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
//	case errors.Is(err, logicv1.ErrMissingField):
//	    c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for authentication operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrMissingField indicates a required field (email or password) was empty.
	// HTTP Status: 400 Bad Request
	ErrMissingField = errors.New("missing required field")

	// ErrPasswordTooLong indicates the password exceeds what the hasher accepts.
	// HTTP Status: 400 Bad Request
	ErrPasswordTooLong = errors.New("password too long")

	// ErrInvalidCredentials indicates the password does not match the account.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates no account exists for the email.
	// HTTP Status: 401 Unauthorized (don't reveal user existence)
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidSession indicates the session token is malformed, forged or expired.
	// HTTP Status: 401 Unauthorized
	ErrInvalidSession = errors.New("invalid session")

	// ErrStoreUnavailable indicates the account store failed. Callers decide whether to retry.
	// HTTP Status: 500 Internal Server Error
	ErrStoreUnavailable = errors.New("account store unavailable")

	// ErrConfiguration indicates the subsystem cannot start (e.g. empty signing secret).
	// Fatal at startup, never returned per request.
	ErrConfiguration = errors.New("configuration fault")

	// ErrPostRegistrationAuthFailed indicates the account was created but the
	// automatic login did not produce a session. The caller should prompt for
	// a manual login.
	ErrPostRegistrationAuthFailed = errors.New("registered but automatic login failed")
)

// IsInvalidLogin reports whether err is a failed login that must be presented
// externally as a single "invalid email or password" outcome.
func IsInvalidLogin(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidCredentials)
}
