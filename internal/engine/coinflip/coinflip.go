// Package coinflip settles single-flip heads-or-tails rounds.
package coinflip

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/money"
	"go-stakehouse/internal/rng"
)

type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

// winMultiplier is total-return: stake times 1.96 on a correct call.
var winMultiplier = decimal.RequireFromString("1.96")

type Params struct {
	Side Side `json:"side"`
}

type Game struct {
	rand engine.Randomizer
}

func New(rand engine.Randomizer) *Game {
	return &Game{rand: rand}
}

// Play flips once: draw 0 is heads, draw 1 is tails.
func (g *Game) Play(seeds rng.SeedTriple, bet engine.Bet) (*engine.RoundResult, error) {
	const op = "coinflip.Game.Play"

	params, ok := bet.Params.(Params)
	if !ok {
		return nil, fmt.Errorf("%s: coinflip params required: %w", op, engine.ErrInvalidArgument)
	}

	if params.Side != Heads && params.Side != Tails {
		return nil, fmt.Errorf("%s: unknown side %q: %w", op, params.Side, engine.ErrInvalidArgument)
	}

	value, err := g.rand.UniformInt(seeds.ServerSeed, seeds.ClientSeed, seeds.Nonce, 2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	landed := Heads
	if value == 1 {
		landed = Tails
	}

	payout := decimal.Zero
	outcome := "loss"

	if landed == params.Side {
		payout = money.Payout(bet.Amount, winMultiplier)
		outcome = "win"
	}

	return &engine.RoundResult{
		Game:      config.CoinFlip,
		Drawn:     []string{string(landed)},
		Outcome:   outcome,
		Payout:    payout,
		Profit:    money.Profit(payout, bet.Amount),
		IsWin:     money.IsWin(payout, bet.Amount),
		Seeds:     seeds,
		DrawCount: 1,
		Details: map[string]interface{}{
			"picked_side": params.Side,
			"landed_side": landed,
			"multiplier":  winMultiplier,
		},
	}, nil
}
