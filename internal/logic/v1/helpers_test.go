package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestHasher(t *testing.T) *BcryptHasher {
	t.Helper()
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func newTestIssuer(t *testing.T, now time.Time) *SessionIssuer {
	t.Helper()
	s, err := NewSessionIssuer(SessionConfig{
		Secret:   "test-signing-secret",
		Lifetime: time.Hour,
		Issuer:   "test-issuer",
	})
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}
