package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/rng"
)

type stubEvaluator struct {
	calls  int
	result *RoundResult
}

func (s *stubEvaluator) Play(seeds rng.SeedTriple, bet Bet) (*RoundResult, error) {
	s.calls++
	return s.result, nil
}

func TestPlayRound(t *testing.T) {
	seeds := rng.SeedTriple{ServerSeed: "s", ClientSeed: "c", Nonce: 1}

	t.Run("DispatchesToRegisteredEvaluator", func(t *testing.T) {
		e := New()
		stub := &stubEvaluator{result: &RoundResult{Game: config.Dice, Outcome: "win"}}
		e.Register(config.Dice, stub)

		result, err := e.PlayRound(config.Dice, seeds, Bet{Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)

		assert.Equal(t, "win", result.Outcome)
		assert.Equal(t, 1, stub.calls)
	})

	t.Run("UnknownGame", func(t *testing.T) {
		e := New()

		_, err := e.PlayRound(config.Game("pachinko"), seeds, Bet{Amount: decimal.NewFromInt(1)})
		require.ErrorIs(t, err, ErrUnknownGame)
	})

	t.Run("NonPositiveStakeRejectedBeforeDispatch", func(t *testing.T) {
		e := New()
		stub := &stubEvaluator{result: &RoundResult{}}
		e.Register(config.Dice, stub)

		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			_, err := e.PlayRound(config.Dice, seeds, Bet{Amount: amount})
			require.ErrorIs(t, err, ErrInvalidArgument)
		}

		assert.Zero(t, stub.calls, "evaluator must not run for a non-positive stake")
	})

	t.Run("RegisterReplacesEvaluator", func(t *testing.T) {
		e := New()
		old := &stubEvaluator{result: &RoundResult{Outcome: "old"}}
		replacement := &stubEvaluator{result: &RoundResult{Outcome: "new"}}

		e.Register(config.CoinFlip, old)
		e.Register(config.CoinFlip, replacement)

		result, err := e.PlayRound(config.CoinFlip, seeds, Bet{Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)

		assert.Equal(t, "new", result.Outcome)
		assert.Zero(t, old.calls)
	})

	t.Run("GamesListsRegistrations", func(t *testing.T) {
		e := New()
		e.Register(config.Dice, &stubEvaluator{})
		e.Register(config.Keno, &stubEvaluator{})

		assert.ElementsMatch(t, []config.Game{config.Dice, config.Keno}, e.Games())
	})
}
