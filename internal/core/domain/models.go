package domain

import "time"

// LoginRequest is the credential presentation for one authentication attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// IdentityClaims is the minimal identity exposed after successful authentication.
type IdentityClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionToken is a signed, self-contained session credential.
type SessionToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionView is the identity context reconstructed from a valid token
// for a single request.
type SessionView struct {
	IdentityClaims
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponse is returned by login and registration.
// Token is empty when registration succeeded but the automatic login did not.
type AuthResponse struct {
	Token         string         `json:"token,omitempty"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	User          IdentityClaims `json:"user"`
	LoginRequired bool           `json:"login_required,omitempty"`
}
