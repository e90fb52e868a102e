package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
)

// BalanceStore moves funds for settlement. Implementations must reject
// a debit that would take a balance negative with
// engine.ErrInsufficientFunds.
type BalanceStore interface {
	Balance(accountID string) (decimal.Decimal, error)
	Debit(accountID string, amount decimal.Decimal, balanceType config.BalanceType, game config.Game) error
	Credit(accountID string, amount decimal.Decimal, balanceType config.BalanceType, game config.Game) error
}

// MemoryStore keeps balances in process. Unknown accounts read as zero.
type MemoryStore struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: make(map[string]decimal.Decimal)}
}

func (s *MemoryStore) Balance(accountID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[accountID], nil
}

func (s *MemoryStore) Debit(accountID string, amount decimal.Decimal, balanceType config.BalanceType, game config.Game) error {
	const op = "ledger.MemoryStore.Debit"

	if !amount.IsPositive() {
		return fmt.Errorf("%s: amount must be positive: %w", op, engine.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.balances[accountID]
	if balance.LessThan(amount) {
		return fmt.Errorf("%s: balance %s, need %s: %w",
			op, balance, amount, engine.ErrInsufficientFunds)
	}

	s.balances[accountID] = balance.Sub(amount)

	return nil
}

func (s *MemoryStore) Credit(accountID string, amount decimal.Decimal, balanceType config.BalanceType, game config.Game) error {
	const op = "ledger.MemoryStore.Credit"

	if amount.IsNegative() {
		return fmt.Errorf("%s: amount must not be negative: %w", op, engine.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[accountID] = s.balances[accountID].Add(amount)

	return nil
}
