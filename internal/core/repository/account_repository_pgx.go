package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/credential-auth/internal/core/domain"
)

// Querier is the subset of *pgxpool.Pool used by the repositories.
// pgxmock.PgxPoolIface satisfies it in unit tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxAccountRepository implements domain.AccountRepository using pgx.
type PgxAccountRepository struct {
	pool Querier
}

// NewAccountRepository creates a new PgxAccountRepository.
func NewAccountRepository(pool Querier) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// FindByEmail returns the account matching the given email.
// Returns domain.ErrAccountNotFound when no account is found.
func (r *PgxAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT id, email, name, password_hash, created_at FROM accounts WHERE email = $1`

	var acc domain.Account
	err := r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email)).Scan(
		&acc.ID, &acc.Email, &acc.Name, &acc.PasswordHash, &acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("select account: %w", err)
	}

	return &acc, nil
}

// Create inserts a new account in a single round trip. The unique constraint
// on accounts.email decides concurrent registrations for the same address.
func (r *PgxAccountRepository) Create(ctx context.Context, email, name, passwordHash string) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	acc := domain.Account{
		ID:           uuid.NewString(),
		Email:        domain.NormalizeEmail(email),
		Name:         name,
		PasswordHash: passwordHash,
	}

	err := r.pool.QueryRow(ctx, query, acc.ID, acc.Email, acc.Name, acc.PasswordHash).Scan(&acc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return &acc, nil
}
