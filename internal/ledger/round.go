package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/rng"
)

// SettledRound is the durable record of one settled bet: what was
// staked, what was drawn, what was paid, and the seed triple that lets
// anyone replay the draw.
type SettledRound struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	SessionID string          `json:"session_id,omitempty"`
	Game      config.Game     `json:"game"`
	Amount    decimal.Decimal `json:"amount"`
	Payout    decimal.Decimal `json:"payout"`
	Profit    decimal.Decimal `json:"profit"`
	IsWin     bool            `json:"is_win"`
	Outcome   string          `json:"outcome"`
	Drawn     []string        `json:"drawn"`
	Seeds     rng.SeedTriple  `json:"seeds"`
	SettledAt time.Time       `json:"settled_at"`
}

// RoundStore persists settled rounds for audit and verification.
type RoundStore interface {
	SaveRound(round *SettledRound) error
	RoundByID(id string) (*SettledRound, error)
	RoundsByAccount(accountID string, limit int) ([]*SettledRound, error)
}

// MemoryRounds keeps settled rounds in process, newest first per
// account.
type MemoryRounds struct {
	mu        sync.RWMutex
	byID      map[string]*SettledRound
	byAccount map[string][]*SettledRound
}

func NewMemoryRounds() *MemoryRounds {
	return &MemoryRounds{
		byID:      make(map[string]*SettledRound),
		byAccount: make(map[string][]*SettledRound),
	}
}

func (r *MemoryRounds) SaveRound(round *SettledRound) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[round.ID] = round
	r.byAccount[round.AccountID] = append([]*SettledRound{round}, r.byAccount[round.AccountID]...)

	return nil
}

func (r *MemoryRounds) RoundByID(id string) (*SettledRound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byID[id], nil
}

func (r *MemoryRounds) RoundsByAccount(accountID string, limit int) ([]*SettledRound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rounds := r.byAccount[accountID]
	if limit > 0 && len(rounds) > limit {
		rounds = rounds[:limit]
	}

	out := make([]*SettledRound, len(rounds))
	copy(out, rounds)

	return out, nil
}
