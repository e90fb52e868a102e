package roulette

import (
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/rng"
)

func TestPlay_WinningNumberBelongsToWinningColor(t *testing.T) {
	game := New(rng.NewProvider())

	numbersByColor := make(map[config.Color]map[int]bool)
	for _, cc := range config.RouletteWheelConfig.Colors {
		set := make(map[int]bool, len(cc.Numbers))
		for _, n := range cc.Numbers {
			set[n] = true
		}

		numbersByColor[cc.Color] = set
	}

	for nonce := int64(0); nonce < 200; nonce += 2 {
		result, err := game.Play(
			rng.SeedTriple{ServerSeed: "wheel", ClientSeed: "c", Nonce: nonce},
			engine.Bet{Amount: decimal.NewFromInt(1), Params: Params{Color: config.Red}},
		)
		require.NoError(t, err)
		require.Equal(t, 2, result.DrawCount)

		winning := result.Details["winning_color"].(config.Color)
		number := result.Details["winning_number"].(int)

		require.True(t, numbersByColor[winning][number],
			"number %d is not a %s slot", number, winning)
		require.Equal(t, []string{string(winning), strconv.Itoa(number)}, result.Drawn)
	}
}

func TestPlay_AllColorsAppear(t *testing.T) {
	game := New(rng.NewProvider())
	seen := make(map[config.Color]int)

	for nonce := int64(0); nonce < 1000; nonce += 2 {
		result, err := game.Play(
			rng.SeedTriple{ServerSeed: "spread", Nonce: nonce},
			engine.Bet{Amount: decimal.NewFromInt(1), Params: Params{Color: config.Green}},
		)
		require.NoError(t, err)

		seen[result.Details["winning_color"].(config.Color)]++
	}

	assert.Positive(t, seen[config.Red])
	assert.Positive(t, seen[config.Black])
	assert.Positive(t, seen[config.Green], "green carries 6.8%% weight, 500 spins must hit it")
	assert.Greater(t, seen[config.Red], seen[config.Green])
	assert.Greater(t, seen[config.Black], seen[config.Green])
}

func TestPlay_Payouts(t *testing.T) {
	game := New(rng.NewProvider())
	stake := decimal.RequireFromString("5.00")

	var sawRedWin, sawGreenWin bool

	for nonce := int64(0); nonce < 2000 && !(sawRedWin && sawGreenWin); nonce += 2 {
		seeds := rng.SeedTriple{ServerSeed: "payout", Nonce: nonce}

		red, err := game.Play(seeds, engine.Bet{Amount: stake, Params: Params{Color: config.Red}})
		require.NoError(t, err)

		if red.IsWin {
			sawRedWin = true
			require.True(t, red.Payout.Equal(decimal.RequireFromString("10.00")),
				"red win payout %s", red.Payout)
		} else {
			require.True(t, red.Payout.IsZero())
		}

		green, err := game.Play(seeds, engine.Bet{Amount: stake, Params: Params{Color: config.Green}})
		require.NoError(t, err)

		// Same seeds, same wheel spin: red and green settlements agree
		// on the winning color.
		require.Equal(t, red.Details["winning_color"], green.Details["winning_color"])

		if green.IsWin {
			sawGreenWin = true
			require.True(t, green.Payout.Equal(decimal.RequireFromString("70.00")),
				"green win payout %s", green.Payout)
		}
	}

	assert.True(t, sawRedWin, "no red win in 1000 spins")
	assert.True(t, sawGreenWin, "no green win in 1000 spins")
}

func TestPlay_DeterministicReplay(t *testing.T) {
	game := New(rng.NewProvider())
	seeds := rng.SeedTriple{ServerSeed: "replay", ClientSeed: "x", Nonce: 40}
	bet := engine.Bet{Amount: decimal.NewFromInt(3), Params: Params{Color: config.Black}}

	first, err := game.Play(seeds, bet)
	require.NoError(t, err)

	second, err := game.Play(seeds, bet)
	require.NoError(t, err)

	assert.Equal(t, first.Drawn, second.Drawn)
	assert.True(t, first.Payout.Equal(second.Payout))
}

func TestPlay_UnknownColorRejected(t *testing.T) {
	game := New(rng.NewProvider())

	_, err := game.Play(
		rng.SeedTriple{ServerSeed: "s", Nonce: 1},
		engine.Bet{Amount: decimal.NewFromInt(1), Params: Params{Color: config.Color("blue")}},
	)
	require.ErrorIs(t, err, engine.ErrInvalidArgument)

	_, err = game.Play(
		rng.SeedTriple{ServerSeed: "s", Nonce: 1},
		engine.Bet{Amount: decimal.NewFromInt(1), Params: "color"},
	)
	require.ErrorIs(t, err, engine.ErrInvalidArgument)
}
