package play

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/engine/dice"
	"go-stakehouse/internal/engine/sicbo"
	"go-stakehouse/internal/http-server/handlers/provably_fair"
	"go-stakehouse/internal/ledger"
	"go-stakehouse/internal/rng"
	"golang.org/x/exp/slog"
)

type stubSettler struct {
	calls int
	game  config.Game
	bet   engine.Bet
	seeds rng.SeedTriple
	err   error
}

func (s *stubSettler) Settle(
	accountID, sessionID string,
	game config.Game,
	seeds rng.SeedTriple,
	bet engine.Bet,
) (*ledger.SettledRound, error) {
	s.calls++
	s.game = game
	s.bet = bet
	s.seeds = seeds

	if s.err != nil {
		return nil, s.err
	}

	return &ledger.SettledRound{
		ID:        "round-1",
		AccountID: accountID,
		SessionID: sessionID,
		Game:      game,
		Amount:    bet.Amount,
		Payout:    bet.Amount.Mul(decimal.NewFromInt(2)),
		Profit:    bet.Amount,
		IsWin:     true,
		Outcome:   "win",
		Drawn:     []string{"52"},
		Seeds:     seeds,
		SettledAt: time.Now().UTC(),
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func playRequest(t *testing.T, game string, body any) *http.Request {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	return httptest.NewRequest(http.MethodPost, "/games/"+game+"/play", bytes.NewReader(payload))
}

func newRouter(handler *Play) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/games/{game}/play", handler.New())

	return router
}

func TestPlay_SettlesRound(t *testing.T) {
	settler := &stubSettler{}
	book := provably_fair.NewSeedBook(testLogger(), nil)
	router := newRouter(NewPlay(testLogger(), settler, book))

	req := playRequest(t, "dice", map[string]any{
		"account_uuid": "acct-1",
		"session_uuid": "sess-1",
		"amount":       "10.00",
		"params":       map[string]any{"target": 50, "mode": "under"},
	})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	var response Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	require.Empty(t, response.Error)
	require.Equal(t, 1, settler.calls)

	assert.Equal(t, config.Dice, settler.game)
	assert.Equal(t, dice.Params{Target: 50, Mode: dice.Under}, settler.bet.Params)
	assert.True(t, settler.bet.Amount.Equal(decimal.RequireFromString("10.00")))

	assert.Equal(t, "round-1", response.RoundID)
	assert.Equal(t, "win", response.Outcome)
	assert.Equal(t, "20", response.Payout)
	assert.Len(t, response.ServerSeedHash, 64)
	assert.NotEmpty(t, response.ClientSeed)
	assert.Zero(t, response.Nonce)
}

func TestPlay_NonceAdvancesPerRound(t *testing.T) {
	settler := &stubSettler{}
	book := provably_fair.NewSeedBook(testLogger(), nil)
	router := newRouter(NewPlay(testLogger(), settler, book))

	body := map[string]any{
		"account_uuid": "acct-2",
		"amount":       "1.00",
		"params":       map[string]any{"side": "heads"},
	}

	for want := int64(0); want < 3; want++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, playRequest(t, "coinflip", body))

		var response Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.Empty(t, response.Error)

		assert.Equal(t, want, response.Nonce)
	}
}

func TestPlay_NeverLeaksServerSeed(t *testing.T) {
	settler := &stubSettler{}
	book := provably_fair.NewSeedBook(testLogger(), nil)
	router := newRouter(NewPlay(testLogger(), settler, book))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, playRequest(t, "holdem", map[string]any{
		"account_uuid": "acct-3",
		"amount":       "5.00",
	}))

	require.NotEmpty(t, settler.seeds.ServerSeed)
	assert.NotContains(t, rec.Body.String(), settler.seeds.ServerSeed)
}

func TestPlay_Rejections(t *testing.T) {
	cases := []struct {
		name       string
		game       string
		body       map[string]any
		settleErr  error
		wantStatus int
	}{
		{
			name:       "UnknownGame",
			game:       "blackjack",
			body:       map[string]any{"account_uuid": "a", "amount": "1"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "MissingAccount",
			game:       "dice",
			body:       map[string]any{"amount": "1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedAmount",
			game:       "dice",
			body:       map[string]any{"account_uuid": "a", "amount": "ten"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingParams",
			game:       "dice",
			body:       map[string]any{"account_uuid": "a", "amount": "1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "InsufficientFunds",
			game: "coinflip",
			body: map[string]any{
				"account_uuid": "a", "amount": "1",
				"params": map[string]any{"side": "tails"},
			},
			settleErr:  engine.ErrInsufficientFunds,
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name: "InvalidBet",
			game: "coinflip",
			body: map[string]any{
				"account_uuid": "a", "amount": "1",
				"params": map[string]any{"side": "edge"},
			},
			settleErr:  engine.ErrInvalidArgument,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			settler := &stubSettler{err: tc.settleErr}
			book := provably_fair.NewSeedBook(testLogger(), nil)
			router := newRouter(NewPlay(testLogger(), settler, book))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, playRequest(t, tc.game, tc.body))

			var response Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

			assert.Equal(t, tc.wantStatus, response.Status)
			assert.NotEmpty(t, response.Error)

			if tc.settleErr == nil {
				assert.Zero(t, settler.calls, "settler must not run on a rejected request")
			}
		})
	}
}

func TestSicboParams(t *testing.T) {
	t.Parallel()

	positions := []SicBoPositionRequest{
		{Kind: "small", Amount: "2.00"},
		{Kind: "small", Amount: "3.00"},
		{Kind: "total", Total: 10, Amount: "1.50"},
		{Kind: "combo", FaceA: 2, FaceB: 5, Amount: "0.50"},
	}

	params, err := sicboParams(positions)
	require.NoError(t, err)
	require.Len(t, params.Bets, 3)

	small := params.Bets[sicbo.BetSpec{Kind: sicbo.Small}]
	assert.True(t, small.Equal(decimal.RequireFromString("5.00")),
		"duplicate positions must merge, got %s", small)

	total := params.Bets[sicbo.BetSpec{Kind: sicbo.Total, Total: 10}]
	assert.True(t, total.Equal(decimal.RequireFromString("1.50")))

	combo := params.Bets[sicbo.BetSpec{Kind: sicbo.Combo, FaceA: 2, FaceB: 5}]
	assert.True(t, combo.Equal(decimal.RequireFromString("0.50")))
}

func TestSicboParams_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := sicboParams([]SicBoPositionRequest{{Kind: "hi-lo", Amount: "1"}})
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
}
