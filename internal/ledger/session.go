package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go-stakehouse/internal/engine"
)

// Session aggregates settlement totals for one account over one seated
// period. Sessions expire from the registry after the configured idle
// timeout.
type Session struct {
	mu sync.Mutex

	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	StartedAt   time.Time       `json:"started_at"`
	ClosedAt    *time.Time      `json:"closed_at,omitempty"`
	RoundCount  int             `json:"round_count"`
	RoundsWon   int             `json:"rounds_won"`
	RoundsLost  int             `json:"rounds_lost"`
	Wagered     decimal.Decimal `json:"wagered"`
	Won         decimal.Decimal `json:"won"`
	BiggestWin  decimal.Decimal `json:"biggest_win"`
	BiggestLoss decimal.Decimal `json:"biggest_loss"`

	// ClosingBalance is the account balance read at close time, set by
	// Ledger.EndSession. Nil while the session is live.
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
}

// record folds one settled round into the session totals.
func (s *Session) record(round *SettledRound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RoundCount++
	s.Wagered = s.Wagered.Add(round.Amount)
	s.Won = s.Won.Add(round.Payout)

	if round.IsWin {
		s.RoundsWon++
	} else {
		s.RoundsLost++
	}

	if round.Profit.GreaterThan(s.BiggestWin) {
		s.BiggestWin = round.Profit
	}

	if round.Profit.IsNegative() && round.Profit.Abs().GreaterThan(s.BiggestLoss) {
		s.BiggestLoss = round.Profit.Abs()
	}
}

// snapshot copies the totals without the lock state, for handing out.
func (s *Session) snapshot() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := &Session{
		ID:          s.ID,
		AccountID:   s.AccountID,
		StartedAt:   s.StartedAt,
		RoundCount:  s.RoundCount,
		RoundsWon:   s.RoundsWon,
		RoundsLost:  s.RoundsLost,
		Wagered:     s.Wagered,
		Won:         s.Won,
		BiggestWin:  s.BiggestWin,
		BiggestLoss: s.BiggestLoss,
	}

	if s.ClosedAt != nil {
		closedAt := *s.ClosedAt
		copied.ClosedAt = &closedAt
	}

	if s.ClosingBalance != nil {
		closingBalance := *s.ClosingBalance
		copied.ClosingBalance = &closingBalance
	}

	return copied
}

// SessionRegistry tracks open sessions with idle expiry.
type SessionRegistry struct {
	sessions *cache.Cache
}

func NewSessionRegistry(timeout time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: cache.New(timeout, timeout),
	}
}

// Start opens a session for the account and returns its id.
func (r *SessionRegistry) Start(accountID string) *Session {
	session := &Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		StartedAt: time.Now().UTC(),
	}

	r.sessions.Set(session.ID, session, cache.DefaultExpiration)

	return session.snapshot()
}

// Get returns a live session by id.
func (r *SessionRegistry) Get(sessionID string) (*Session, error) {
	const op = "ledger.SessionRegistry.Get"

	value, found := r.sessions.Get(sessionID)
	if !found {
		return nil, fmt.Errorf("%s: session %s not found or expired: %w",
			op, sessionID, engine.ErrInvalidArgument)
	}

	return value.(*Session), nil
}

// Record folds a settled round into its session and refreshes the idle
// timer.
func (r *SessionRegistry) Record(sessionID string, round *SettledRound) error {
	const op = "ledger.SessionRegistry.Record"

	session, err := r.Get(sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	session.record(round)
	r.sessions.Set(sessionID, session, cache.DefaultExpiration)

	return nil
}

// End closes a session and returns its final totals. The session is
// removed from the registry; further rounds against it fail.
func (r *SessionRegistry) End(sessionID string) (*Session, error) {
	const op = "ledger.SessionRegistry.End"

	session, err := r.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	closedAt := time.Now().UTC()

	session.mu.Lock()
	session.ClosedAt = &closedAt
	session.mu.Unlock()

	r.sessions.Delete(sessionID)

	return session.snapshot(), nil
}
