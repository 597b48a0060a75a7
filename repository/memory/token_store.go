package memory

import (
	"context"
	"math"
	"sync"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

// UnlimitedAllowance is a sentinel approval that TransferFrom never decrements.
const UnlimitedAllowance = math.MaxUint64

type allowanceKey struct {
	owner   domain.Identity
	spender domain.Identity
}

// TokenStore is the in-process token ledger. Every operation is an atomic
// read-modify-write under one mutex, so no partial application is ever
// observable and reads see the latest approved value with no staleness.
type TokenStore struct {
	mu         sync.RWMutex
	balances   map[domain.Identity]uint64
	allowances map[allowanceKey]uint64
	supply     uint64
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		balances:   make(map[domain.Identity]uint64),
		allowances: make(map[allowanceKey]uint64),
	}
}

func (s *TokenStore) Mint(ctx context.Context, to domain.Identity, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount > math.MaxUint64-s.supply {
		return domain.ErrOverflow
	}
	if amount > math.MaxUint64-s.balances[to] {
		return domain.ErrOverflow
	}
	s.supply += amount
	s.balances[to] += amount
	return nil
}

// Approve is last-write-wins: the new amount replaces any prior approval.
func (s *TokenStore) Approve(ctx context.Context, owner, spender domain.Identity, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowances[allowanceKey{owner: owner, spender: spender}] = amount
	return nil
}

func (s *TokenStore) Allowance(ctx context.Context, owner, spender domain.Identity) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowances[allowanceKey{owner: owner, spender: spender}], nil
}

func (s *TokenStore) BalanceOf(ctx context.Context, owner domain.Identity) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[owner], nil
}

// TotalSupply reports the sum of all balances; conserved except for mints.
func (s *TokenStore) TotalSupply(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supply, nil
}

func (s *TokenStore) TransferFrom(ctx context.Context, spender, owner, to domain.Identity, amount uint64) error {
	return s.TransferFromTx(ctx, spender, owner, to, amount, nil)
}

// TransferFromTx validates, runs commit while holding the ledger lock, and
// applies the transfer only when commit succeeds. A nil commit applies
// unconditionally after validation.
func (s *TokenStore) TransferFromTx(ctx context.Context, spender, owner, to domain.Identity, amount uint64, commit func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := allowanceKey{owner: owner, spender: spender}
	allowed := s.allowances[key]
	if allowed < amount {
		return domain.ErrInsufficientAllowance
	}
	if s.balances[owner] < amount {
		return domain.ErrInsufficientBalance
	}
	if owner != to && amount > math.MaxUint64-s.balances[to] {
		return domain.ErrOverflow
	}

	if commit != nil {
		if err := commit(); err != nil {
			return err
		}
	}

	if allowed != UnlimitedAllowance {
		s.allowances[key] = allowed - amount
	}
	s.balances[owner] -= amount
	s.balances[to] += amount
	return nil
}

var _ repository.TransactionalLedger = (*TokenStore)(nil)
