package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/credential-auth/internal/core/domain"
	"github.com/duynhne/credential-auth/middleware"
)

// AuthService implements authentication business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	authenticator *Authenticator
	registrar     *Registrar
	sessions      *SessionIssuer
}

// NewAuthService wires the authenticator, registrar and session issuer
// around one account repository and password hasher.
func NewAuthService(accounts domain.AccountRepository, passwords PasswordHasher, sessions *SessionIssuer) *AuthService {
	authenticator := NewAuthenticator(accounts, passwords)
	return &AuthService{
		authenticator: authenticator,
		registrar:     NewRegistrar(accounts, passwords, authenticator),
		sessions:      sessions,
	}
}

// Login authenticates the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	claims, err := s.authenticator.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		if IsInvalidLogin(err) {
			span.AddEvent("authentication.failed")
		} else {
			span.RecordError(err)
		}
		middleware.RecordAuthOperation("login", outcome(err))
		return nil, err
	}

	token, err := s.sessions.Issue(*claims)
	if err != nil {
		span.RecordError(err)
		middleware.RecordAuthOperation("login", "error")
		return nil, fmt.Errorf("issue session: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", claims.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")
	middleware.RecordAuthOperation("login", "success")

	return newAuthResponse(*claims, token), nil
}

// Register creates the account, logs it in and issues a session token.
// On ErrPostRegistrationAuthFailed the response carries the created user
// with LoginRequired set and no token.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	claims, err := s.registrar.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		span.SetAttributes(attribute.Bool("registration.success", false))
		span.RecordError(err)
		middleware.RecordAuthOperation("register", outcome(err))
		if claims != nil {
			return &domain.AuthResponse{User: *claims, LoginRequired: true}, err
		}
		return nil, err
	}

	token, err := s.sessions.Issue(*claims)
	if err != nil {
		span.RecordError(err)
		middleware.RecordAuthOperation("register", "login_required")
		return &domain.AuthResponse{User: *claims, LoginRequired: true},
			fmt.Errorf("issue session for %q: %w: %w", claims.Email, ErrPostRegistrationAuthFailed, err)
	}

	span.SetAttributes(
		attribute.String("user.id", claims.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")
	middleware.RecordAuthOperation("register", "success")

	return newAuthResponse(*claims, token), nil
}

// ResolveSession returns the session view for a token (for /auth/me and
// the session middleware).
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.SessionView, error) {
	_, span := middleware.StartSpan(ctx, "auth.resolve_session", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	view, err := s.sessions.Resolve(token)
	if err != nil {
		span.SetAttributes(attribute.Bool("session.valid", false))
		middleware.RecordAuthOperation("resolve_session", "invalid")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("user.id", view.ID),
		attribute.Bool("session.valid", true),
	)
	middleware.RecordAuthOperation("resolve_session", "success")

	return view, nil
}

func newAuthResponse(claims domain.IdentityClaims, token *domain.SessionToken) *domain.AuthResponse {
	expiresAt := token.ExpiresAt
	return &domain.AuthResponse{
		Token:     token.Token,
		ExpiresAt: &expiresAt,
		User:      claims,
	}
}

// outcome labels an error for the auth_operations_total metric.
func outcome(err error) string {
	switch {
	case errors.Is(err, ErrPostRegistrationAuthFailed):
		return "login_required"
	case IsInvalidLogin(err):
		return "invalid_credentials"
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrPasswordTooLong):
		return "invalid_request"
	case errors.Is(err, ErrUserExists):
		return "duplicate"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
