package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duynhne/credential-auth/internal/core/domain"
)

// MemoryAccountRepository is an in-process domain.AccountRepository for
// local development (DB_DRIVER=memory) and tests.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	now      func() time.Time
}

// NewMemoryAccountRepository creates an empty MemoryAccountRepository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]domain.Account),
		now:      time.Now,
	}
}

// FindByEmail returns a copy of the stored account.
func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &acc, nil
}

// Create checks and inserts under one lock.
func (r *MemoryAccountRepository) Create(_ context.Context, email, name, passwordHash string) (*domain.Account, error) {
	key := domain.NormalizeEmail(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[key]; exists {
		return nil, domain.ErrAccountExists
	}

	acc := domain.Account{
		ID:           uuid.NewString(),
		Email:        key,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    r.now().UTC(),
	}
	r.accounts[key] = acc
	return &acc, nil
}
