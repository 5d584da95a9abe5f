package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/duynhne/credential-auth/internal/core/domain"
)

// DefaultSessionLifetime is used when SessionConfig.Lifetime is zero.
const DefaultSessionLifetime = 30 * 24 * time.Hour

// SessionConfig configures a SessionIssuer. Secret is loaded once at startup.
type SessionConfig struct {
	Secret   string
	Lifetime time.Duration
	Issuer   string
}

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// SessionIssuer mints and resolves stateless HS256 session tokens.
// A token is valid while its signature holds and now < expiresAt; there is
// no renewal, a new token requires a new authentication.
type SessionIssuer struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

// NewSessionIssuer validates cfg and creates a SessionIssuer.
// An empty or blank secret is a startup-fatal ErrConfiguration.
func NewSessionIssuer(cfg SessionConfig) (*SessionIssuer, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session signing secret is empty: %w", ErrConfiguration)
	}
	if cfg.Lifetime < 0 {
		return nil, fmt.Errorf("session lifetime %s is negative: %w", cfg.Lifetime, ErrConfiguration)
	}
	lifetime := cfg.Lifetime
	if lifetime == 0 {
		lifetime = DefaultSessionLifetime
	}

	return &SessionIssuer{
		secret:   []byte(cfg.Secret),
		lifetime: lifetime,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}, nil
}

// Issue signs claims into a token valid for the configured lifetime.
func (s *SessionIssuer) Issue(claims domain.IdentityClaims) (*domain.SessionToken, error) {
	// JWT NumericDate has second precision.
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: claims.Email,
		Name:  claims.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &domain.SessionToken{
		Token:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve verifies token and returns its session view. Every failure
// (bad signature, wrong algorithm, malformed payload, expiry) is ErrInvalidSession.
func (s *SessionIssuer) Resolve(token string) (*domain.SessionView, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token: %w", ErrInvalidSession)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w: %w", ErrInvalidSession, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return nil, fmt.Errorf("session token payload incomplete: %w", ErrInvalidSession)
	}

	expiresAt := claims.ExpiresAt.Time.UTC()
	if !s.now().Before(expiresAt) {
		return nil, fmt.Errorf("session expired at %v: %w", expiresAt, ErrInvalidSession)
	}

	return &domain.SessionView{
		IdentityClaims: domain.IdentityClaims{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
		},
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: expiresAt,
	}, nil
}
