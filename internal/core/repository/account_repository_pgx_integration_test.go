//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/duynhne/credential-auth/config"
	"github.com/duynhne/credential-auth/internal/core"
	"github.com/duynhne/credential-auth/internal/core/domain"
	"github.com/duynhne/credential-auth/internal/core/repository"
)

type PgxAccountRepositorySuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	repo      *repository.PgxAccountRepository
}

func TestPgxAccountRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PgxAccountRepositorySuite))
}

func (s *PgxAccountRepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("auth_test"),
		postgres.WithUsername("auth"),
		postgres.WithPassword("auth"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.Require().NoError(core.Migrate(connStr))

	s.pool, err = core.Connect(ctx, config.DatabaseConfig{URL: connStr, MaxConns: 60})
	s.Require().NoError(err)
	s.repo = repository.NewAccountRepository(s.pool)
}

func (s *PgxAccountRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PgxAccountRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE accounts`)
	s.Require().NoError(err)
}

func (s *PgxAccountRepositorySuite) TestCreateAndFind() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, "Carol@Example.com", "Carol", "hash")
	s.Require().NoError(err)
	s.False(created.CreatedAt.IsZero())

	found, err := s.repo.FindByEmail(ctx, "carol@EXAMPLE.com")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal("carol@example.com", found.Email)
	s.Equal("hash", found.PasswordHash)

	_, err = s.repo.FindByEmail(ctx, "nobody@example.com")
	s.ErrorIs(err, domain.ErrAccountNotFound)
}

// TestConcurrentUniqueEmail verifies that concurrent creation attempts
// with the same email result in exactly one success.
func (s *PgxAccountRepositorySuite) TestConcurrentUniqueEmail() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.Create(ctx, "race@example.com", "Racer", "hash")
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrAccountExists):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}
