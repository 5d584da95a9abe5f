package v1

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/duynhne/credential-auth/internal/core/domain"
	"github.com/duynhne/credential-auth/internal/core/repository"
	"github.com/duynhne/credential-auth/mocks"
)

func newTestRegistrar(t *testing.T, accounts domain.AccountRepository) *Registrar {
	t.Helper()
	hasher := newTestHasher(t)
	return NewRegistrar(accounts, hasher, NewAuthenticator(accounts, hasher))
}

func TestRegistrar_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and returns claims", func(t *testing.T) {
		accounts := repository.NewMemoryAccountRepository()
		reg := newTestRegistrar(t, accounts)

		claims, err := reg.Register(ctx, "A@x.com", "A", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, claims.ID)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, "A", claims.Name)

		stored, err := accounts.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.NotEqual(t, "secret1", stored.PasswordHash)
	})

	t.Run("name defaults to email local part", func(t *testing.T) {
		reg := newTestRegistrar(t, repository.NewMemoryAccountRepository())

		claims, err := reg.Register(ctx, "jane.doe@example.com", "  ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "jane.doe", claims.Name)
	})

	t.Run("missing fields", func(t *testing.T) {
		reg := newTestRegistrar(t, repository.NewMemoryAccountRepository())

		_, err := reg.Register(ctx, "", "A", "secret1")
		assert.ErrorIs(t, err, ErrMissingField)
		_, err = reg.Register(ctx, "a@x.com", "A", "")
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("duplicate keeps original credential", func(t *testing.T) {
		accounts := repository.NewMemoryAccountRepository()
		reg := newTestRegistrar(t, accounts)

		first, err := reg.Register(ctx, "a@x.com", "A", "secret1")
		require.NoError(t, err)
		before, err := accounts.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)

		_, err = reg.Register(ctx, "A@X.com", "Other", "different")
		require.ErrorIs(t, err, ErrUserExists)

		after, err := accounts.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, first.ID, after.ID)
	})
}

func TestRegistrar_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistrar(t, repository.NewMemoryAccountRepository())
	const callers = 20

	var wg sync.WaitGroup
	var successCount, duplicateCount atomic.Int32

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Register(ctx, "race@x.com", "Racer", fmt.Sprintf("pw-%d", i))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrUserExists):
				duplicateCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successCount.Load())
	assert.Equal(t, int32(callers-1), duplicateCount.Load())
}

func TestRegistrar_StoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("create fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		accounts := mocks.NewMockAccountRepository(ctrl)
		accounts.EXPECT().
			Create(gomock.Any(), "a@x.com", "A", gomock.Any()).
			Return(nil, errors.New("connection reset"))

		_, err := newTestRegistrar(t, accounts).Register(ctx, "a@x.com", "A", "secret1")
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.NotErrorIs(t, err, ErrPostRegistrationAuthFailed)
	})

	t.Run("login after create fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		accounts := mocks.NewMockAccountRepository(ctrl)
		created := &domain.Account{ID: "new-id", Email: "a@x.com", Name: "A"}
		accounts.EXPECT().
			Create(gomock.Any(), "a@x.com", "A", gomock.Any()).
			Return(created, nil)
		accounts.EXPECT().
			FindByEmail(gomock.Any(), "a@x.com").
			Return(nil, errors.New("replica lag"))

		claims, err := newTestRegistrar(t, accounts).Register(ctx, "a@x.com", "A", "secret1")
		require.ErrorIs(t, err, ErrPostRegistrationAuthFailed)
		require.NotNil(t, claims)
		assert.Equal(t, created.Claims(), *claims)
	})
}
