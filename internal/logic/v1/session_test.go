package v1

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/credential-auth/internal/core/domain"
)

var aliceClaims = domain.IdentityClaims{ID: "user-1", Email: "alice@example.com", Name: "Alice"}

func TestNewSessionIssuer(t *testing.T) {
	t.Run("empty secret is a configuration fault", func(t *testing.T) {
		_, err := NewSessionIssuer(SessionConfig{Secret: ""})
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("blank secret is a configuration fault", func(t *testing.T) {
		_, err := NewSessionIssuer(SessionConfig{Secret: "  \n"})
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("negative lifetime is a configuration fault", func(t *testing.T) {
		_, err := NewSessionIssuer(SessionConfig{Secret: "s", Lifetime: -time.Second})
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("zero lifetime defaults to 30 days", func(t *testing.T) {
		s, err := NewSessionIssuer(SessionConfig{Secret: "s"})
		require.NoError(t, err)
		s.now = func() time.Time { return fixedNow }

		tok, err := s.Issue(aliceClaims)
		require.NoError(t, err)
		assert.Equal(t, fixedNow.Add(30*24*time.Hour), tok.ExpiresAt)
	})
}

func TestSessionIssuer_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, fixedNow)

	tok, err := issuer.Issue(aliceClaims)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.Equal(t, fixedNow, tok.IssuedAt)
	assert.Equal(t, fixedNow.Add(time.Hour), tok.ExpiresAt)

	for _, offset := range []time.Duration{0, 30 * time.Minute, time.Hour - time.Second} {
		issuer.now = func() time.Time { return fixedNow.Add(offset) }

		view, err := issuer.Resolve(tok.Token)
		require.NoError(t, err, "offset %s", offset)
		assert.Equal(t, aliceClaims, view.IdentityClaims)
		assert.Equal(t, tok.IssuedAt, view.IssuedAt)
		assert.Equal(t, tok.ExpiresAt, view.ExpiresAt)
	}
}

func TestSessionIssuer_Expiry(t *testing.T) {
	issuer := newTestIssuer(t, fixedNow)
	tok, err := issuer.Issue(aliceClaims)
	require.NoError(t, err)

	for _, at := range []time.Time{tok.ExpiresAt, tok.ExpiresAt.Add(time.Second), tok.ExpiresAt.Add(24 * time.Hour)} {
		issuer.now = func() time.Time { return at }
		_, err := issuer.Resolve(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidSession, "resolved at %v", at)
	}
}

func TestSessionIssuer_RejectsForgedTokens(t *testing.T) {
	issuer := newTestIssuer(t, fixedNow)
	tok, err := issuer.Issue(aliceClaims)
	require.NoError(t, err)

	tampered := func() string {
		parts := strings.Split(tok.Token, ".")
		require.Len(t, parts, 3)
		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		forged := strings.Replace(string(payload), `"name":"Alice"`, `"name":"Mallory"`, 1)
		require.NotEqual(t, string(payload), forged)
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))
		return strings.Join(parts, ".")
	}

	otherKey, err := NewSessionIssuer(SessionConfig{Secret: "other-secret", Lifetime: time.Hour, Issuer: "test-issuer"})
	require.NoError(t, err)
	otherKey.now = func() time.Time { return fixedNow }
	wrongKeyToken, err := otherKey.Issue(aliceClaims)
	require.NoError(t, err)

	otherIssuer, err := NewSessionIssuer(SessionConfig{Secret: "test-signing-secret", Lifetime: time.Hour, Issuer: "someone-else"})
	require.NoError(t, err)
	otherIssuer.now = func() time.Time { return fixedNow }
	wrongIssuerToken, err := otherIssuer.Issue(aliceClaims)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"iss": "test-issuer",
		"iat": fixedNow.Unix(),
		"exp": fixedNow.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "tampered payload", token: tampered()},
		{name: "wrong signing secret", token: wrongKeyToken.Token},
		{name: "wrong issuer", token: wrongIssuerToken.Token},
		{name: "alg none", token: noneToken},
		{name: "malformed", token: "not-a-token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Forged tokens stay invalid even long before expiry.
			issuer.now = func() time.Time { return fixedNow }
			view, err := issuer.Resolve(tt.token)
			assert.Nil(t, view)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}
