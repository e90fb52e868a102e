package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/rng"
)

func settledRound(amount, payout string) *SettledRound {
	a := decimal.RequireFromString(amount)
	p := decimal.RequireFromString(payout)

	return &SettledRound{
		Game:   config.Dice,
		Amount: a,
		Payout: p,
		Profit: p.Sub(a),
		IsWin:  p.GreaterThan(a),
	}
}

func TestSessionAggregates(t *testing.T) {
	registry := NewSessionRegistry(time.Minute)
	opened := registry.Start("alice")

	require.NotEmpty(t, opened.ID)
	require.Equal(t, "alice", opened.AccountID)

	rounds := []*SettledRound{
		settledRound("10.00", "0"),     // loss of 10
		settledRound("10.00", "19.60"), // win of 9.60
		settledRound("5.00", "5.00"),   // push counts as not won
		settledRound("20.00", "0"),     // loss of 20
	}

	for _, round := range rounds {
		require.NoError(t, registry.Record(opened.ID, round))
	}

	closed, err := registry.End(opened.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, closed.RoundCount)
	assert.Equal(t, 1, closed.RoundsWon)
	assert.Equal(t, 3, closed.RoundsLost)
	assert.True(t, closed.Wagered.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, closed.Won.Equal(decimal.RequireFromString("24.60")))
	assert.True(t, closed.BiggestWin.Equal(decimal.RequireFromString("9.60")))
	assert.True(t, closed.BiggestLoss.Equal(decimal.RequireFromString("20.00")))
	assert.NotNil(t, closed.ClosedAt)
}

func TestSessionEndRemovesFromRegistry(t *testing.T) {
	registry := NewSessionRegistry(time.Minute)
	opened := registry.Start("bob")

	_, err := registry.End(opened.ID)
	require.NoError(t, err)

	_, err = registry.Get(opened.ID)
	require.ErrorIs(t, err, engine.ErrInvalidArgument)

	err = registry.Record(opened.ID, settledRound("1.00", "0"))
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
}

func TestEndSession_SnapshotsClosingBalance(t *testing.T) {
	eng := engine.New()
	eng.Register(config.Dice, fixedEvaluator{payout: decimal.Zero})

	l, store := newTestLedger(t, eng)
	fund(t, store, "judy", "100.00")

	opened := l.StartSession("judy")

	_, err := l.Settle("judy", opened.ID, config.Dice,
		rng.SeedTriple{ServerSeed: "s", Nonce: 1},
		engine.Bet{Amount: decimal.RequireFromString("30.00")})
	require.NoError(t, err)

	closed, err := l.EndSession(opened.ID)
	require.NoError(t, err)

	require.NotNil(t, closed.ClosingBalance)
	assert.True(t, closed.ClosingBalance.Equal(decimal.RequireFromString("70.00")),
		"balance at close, got %s", closed.ClosingBalance)
	assert.NotNil(t, closed.ClosedAt)
	assert.Equal(t, 1, closed.RoundCount)

	// Live sessions carry no closing balance.
	live := l.StartSession("judy")
	assert.Nil(t, live.ClosingBalance)
}

func TestEndSession_UnknownSession(t *testing.T) {
	eng := engine.New()
	l, _ := newTestLedger(t, eng)

	_, err := l.EndSession("no-such-session")
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
}

func TestSessionExpiry(t *testing.T) {
	registry := NewSessionRegistry(20 * time.Millisecond)
	opened := registry.Start("carol")

	time.Sleep(60 * time.Millisecond)

	_, err := registry.Get(opened.ID)
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
}

func TestSessionsAreIndependent(t *testing.T) {
	registry := NewSessionRegistry(time.Minute)
	first := registry.Start("dave")
	second := registry.Start("dave")

	require.NotEqual(t, first.ID, second.ID)

	require.NoError(t, registry.Record(first.ID, settledRound("3.00", "6.00")))

	firstLive, err := registry.Get(first.ID)
	require.NoError(t, err)

	secondLive, err := registry.Get(second.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, firstLive.snapshot().RoundCount)
	assert.Zero(t, secondLive.snapshot().RoundCount)
}
