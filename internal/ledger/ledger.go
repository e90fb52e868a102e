// Package ledger settles bets against account balances: debit the
// stake, play the round, credit the payout, record everything. Funds
// never leak: an evaluator failure refunds the debit in full.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/lib/logger/sl"
	"go-stakehouse/internal/rng"
	"golang.org/x/exp/slog"
)

// Reporter is notified after every settled round. Implementations must
// not block; settlement waits for them.
type Reporter interface {
	RoundSettled(round *SettledRound)
}

type Ledger struct {
	engine    *engine.Engine
	store     BalanceStore
	rounds    RoundStore
	sessions  *SessionRegistry
	reporters []Reporter
	log       *slog.Logger

	minBet decimal.Decimal
	maxBet decimal.Decimal

	mu       sync.Mutex
	accounts map[string]*sync.Mutex
}

func New(
	log *slog.Logger,
	cfg config.Engine,
	eng *engine.Engine,
	store BalanceStore,
	rounds RoundStore,
	sessions *SessionRegistry,
) (*Ledger, error) {
	const op = "ledger.New"

	minBet, err := decimal.NewFromString(cfg.MinBet)
	if err != nil {
		return nil, fmt.Errorf("%s: min bet: %w", op, err)
	}

	maxBet, err := decimal.NewFromString(cfg.MaxBet)
	if err != nil {
		return nil, fmt.Errorf("%s: max bet: %w", op, err)
	}

	return &Ledger{
		engine:   eng,
		store:    store,
		rounds:   rounds,
		sessions: sessions,
		log:      log,
		minBet:   minBet,
		maxBet:   maxBet,
		accounts: make(map[string]*sync.Mutex),
	}, nil
}

// Subscribe registers a settlement reporter. Not safe to call
// concurrently with Settle; wire reporters at startup.
func (l *Ledger) Subscribe(reporter Reporter) {
	l.reporters = append(l.reporters, reporter)
}

// accountLock returns the mutex serializing settlement for one account.
func (l *Ledger) accountLock(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.accounts[accountID]
	if !ok {
		lock = &sync.Mutex{}
		l.accounts[accountID] = lock
	}

	return lock
}

// Settle runs one bet end to end under the account lock: table-limit
// check, stake debit, evaluator play, payout credit. A failed evaluator
// refunds the stake before the error is returned, so the balance after
// a failed Settle equals the balance before it.
func (l *Ledger) Settle(
	accountID string,
	sessionID string,
	game config.Game,
	seeds rng.SeedTriple,
	bet engine.Bet,
) (*SettledRound, error) {
	const op = "ledger.Ledger.Settle"

	if bet.Amount.LessThan(l.minBet) || bet.Amount.GreaterThan(l.maxBet) {
		return nil, fmt.Errorf("%s: bet %s outside table limits [%s, %s]: %w",
			op, bet.Amount, l.minBet, l.maxBet, engine.ErrInvalidArgument)
	}

	if sessionID != "" {
		if _, err := l.sessions.Get(sessionID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	if err := l.store.Debit(accountID, bet.Amount, config.Outcome, game); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := l.engine.PlayRound(game, seeds, bet)
	if err != nil {
		if refundErr := l.store.Credit(accountID, bet.Amount, config.Refund, game); refundErr != nil {
			l.log.Error("refund after failed round lost",
				sl.Err(refundErr),
				slog.String("account_id", accountID),
				slog.String("game", string(game)),
			)

			return nil, fmt.Errorf("%s: refund failed: %w", op, refundErr)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if result.Payout.IsPositive() {
		if err = l.store.Credit(accountID, result.Payout, config.Income, game); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	round := &SettledRound{
		ID:        uuid.NewString(),
		AccountID: accountID,
		SessionID: sessionID,
		Game:      game,
		Amount:    bet.Amount,
		Payout:    result.Payout,
		Profit:    result.Profit,
		IsWin:     result.IsWin,
		Outcome:   result.Outcome,
		Drawn:     result.Drawn,
		Seeds:     seeds,
		SettledAt: time.Now().UTC(),
	}

	if err = l.rounds.SaveRound(round); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if sessionID != "" {
		if err = l.sessions.Record(sessionID, round); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	for _, reporter := range l.reporters {
		reporter.RoundSettled(round)
	}

	l.log.Info("round settled",
		slog.String("round_id", round.ID),
		slog.String("account_id", accountID),
		slog.String("game", string(game)),
		sl.Amount("amount", bet.Amount),
		sl.Amount("payout", round.Payout),
		slog.String("outcome", round.Outcome),
	)

	return round, nil
}

// Balance reads the account balance through the store.
func (l *Ledger) Balance(accountID string) (decimal.Decimal, error) {
	const op = "ledger.Ledger.Balance"

	balance, err := l.store.Balance(accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	return balance, nil
}

// History returns the account's most recent settled rounds.
func (l *Ledger) History(accountID string, limit int) ([]*SettledRound, error) {
	const op = "ledger.Ledger.History"

	rounds, err := l.rounds.RoundsByAccount(accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rounds, nil
}

// Round returns one settled round by id.
func (l *Ledger) Round(id string) (*SettledRound, error) {
	const op = "ledger.Ledger.Round"

	round, err := l.rounds.RoundByID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return round, nil
}

// StartSession opens a session for the account.
func (l *Ledger) StartSession(accountID string) *Session {
	return l.sessions.Start(accountID)
}

// EndSession closes the session and stamps the account's balance at
// close time onto the final snapshot.
func (l *Ledger) EndSession(sessionID string) (*Session, error) {
	const op = "ledger.Ledger.EndSession"

	closed, err := l.sessions.End(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	balance, err := l.store.Balance(closed.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	closed.ClosingBalance = &balance

	l.log.Info("session closed",
		slog.String("session_id", closed.ID),
		slog.String("account_id", closed.AccountID),
		slog.Int("round_count", closed.RoundCount),
		sl.Amount("closing_balance", balance),
	)

	return closed, nil
}
