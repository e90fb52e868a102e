package dice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/rng"
)

func TestMultiplier(t *testing.T) {
	cases := []struct {
		name   string
		target int
		mode   Mode
		want   string
	}{
		{name: "CoinflipOdds", target: 50, mode: Under, want: "1.98"},
		{name: "LongShotUnderTwo", target: 2, mode: Under, want: "49.5"},
		{name: "SafeUnderNinetyEight", target: 98, mode: Under, want: "1.0102"},
		{name: "OverNinetyEight", target: 98, mode: Over, want: "49.5"},
		{name: "OverFifty", target: 50, mode: Over, want: "1.98"},
		{name: "UnderTen", target: 10, mode: Under, want: "9.9"},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Multiplier(tc.target, tc.mode)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"want %s, got %s", tc.want, got)
		})
	}
}

func TestWinChance_SidesCoverTheSpace(t *testing.T) {
	for target := 2; target <= 98; target++ {
		sum := WinChance(target, Under).Add(WinChance(target, Over))
		require.True(t, sum.Equal(decimal.NewFromInt(1)),
			"target %d: under+over chance is %s", target, sum)
	}
}

func TestPlay(t *testing.T) {
	seeds := rng.SeedTriple{ServerSeed: "dice-server", ClientSeed: "dice-client", Nonce: 7}

	t.Run("WinPaysMultiplier", func(t *testing.T) {
		game := New(rng.NewProvider())
		stake := decimal.RequireFromString("10.00")

		result, err := game.Play(seeds, engine.Bet{
			Amount: stake,
			Params: Params{Target: 98, Mode: Under},
		})
		require.NoError(t, err)

		roll := result.Details["roll"].(int)
		require.GreaterOrEqual(t, roll, 0)
		require.Less(t, roll, 100)

		if roll < 98 {
			want := stake.Mul(Multiplier(98, Under)).Round(2)
			assert.True(t, result.Payout.Equal(want), "payout %s, want %s", result.Payout, want)
			assert.Equal(t, "win", result.Outcome)
		} else {
			assert.True(t, result.Payout.IsZero())
			assert.Equal(t, "loss", result.Outcome)
		}
	})

	t.Run("OppositeModesSplitTheSameRoll", func(t *testing.T) {
		game := New(rng.NewProvider())
		bet := decimal.NewFromInt(1)

		for nonce := int64(0); nonce < 50; nonce++ {
			roundSeeds := rng.SeedTriple{ServerSeed: "split", Nonce: nonce}

			under, err := game.Play(roundSeeds, engine.Bet{Amount: bet, Params: Params{Target: 50, Mode: Under}})
			require.NoError(t, err)

			over, err := game.Play(roundSeeds, engine.Bet{Amount: bet, Params: Params{Target: 50, Mode: Over}})
			require.NoError(t, err)

			require.Equal(t, under.Details["roll"], over.Details["roll"])
			require.NotEqual(t, under.IsWin, over.IsWin, "exactly one side wins every roll")
		}
	})

	t.Run("DeterministicReplay", func(t *testing.T) {
		game := New(rng.NewProvider())
		bet := engine.Bet{Amount: decimal.NewFromInt(5), Params: Params{Target: 33, Mode: Over}}

		first, err := game.Play(seeds, bet)
		require.NoError(t, err)

		second, err := game.Play(seeds, bet)
		require.NoError(t, err)

		assert.Equal(t, first.Drawn, second.Drawn)
		assert.True(t, first.Payout.Equal(second.Payout))
	})

	t.Run("Validation", func(t *testing.T) {
		cases := []struct {
			name   string
			params any
		}{
			{name: "TargetTooLow", params: Params{Target: 1, Mode: Under}},
			{name: "TargetTooHigh", params: Params{Target: 99, Mode: Over}},
			{name: "UnknownMode", params: Params{Target: 50, Mode: Mode("sideways")}},
			{name: "WrongParamsType", params: struct{}{}},
		}

		for _, tc := range cases {
			tc := tc

			t.Run(tc.name, func(t *testing.T) {
				game := New(rng.NewProvider())

				_, err := game.Play(seeds, engine.Bet{Amount: decimal.NewFromInt(1), Params: tc.params})
				require.ErrorIs(t, err, engine.ErrInvalidArgument)
			})
		}
	})
}
