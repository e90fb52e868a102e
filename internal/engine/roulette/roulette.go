// Package roulette settles color-bet rounds on the three-color wheel
// from config.RouletteWheelConfig.
package roulette

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/money"
	"go-stakehouse/internal/rng"
)

type Params struct {
	Color config.Color `json:"color"`
}

type Game struct {
	rand  engine.Randomizer
	wheel config.RouletteConfig
}

func New(rand engine.Randomizer) *Game {
	return &Game{rand: rand, wheel: config.RouletteWheelConfig}
}

// Play picks the winning color by weight at the round nonce, then picks
// the displayed slot number uniformly from that color's numbers at
// nonce+1.
func (g *Game) Play(seeds rng.SeedTriple, bet engine.Bet) (*engine.RoundResult, error) {
	const op = "roulette.Game.Play"

	params, ok := bet.Params.(Params)
	if !ok {
		return nil, fmt.Errorf("%s: roulette params required: %w", op, engine.ErrInvalidArgument)
	}

	picked := g.colorConfig(params.Color)
	if picked == nil {
		return nil, fmt.Errorf("%s: unknown color %q: %w", op, params.Color, engine.ErrInvalidArgument)
	}

	weights := make([]float64, len(g.wheel.Colors))
	for i, cc := range g.wheel.Colors {
		weights[i] = cc.Weight
	}

	index, err := g.rand.WeightedPick(seeds.ServerSeed, seeds.ClientSeed, seeds.Nonce, weights)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	winning := g.wheel.Colors[index]

	slot, err := g.rand.UniformInt(seeds.ServerSeed, seeds.ClientSeed, seeds.Nonce+1, len(winning.Numbers))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	number := winning.Numbers[slot]

	payout := decimal.Zero
	outcome := "loss"

	if winning.Color == params.Color {
		payout = money.Payout(bet.Amount, decimal.NewFromFloat(picked.Multiplier))
		outcome = "win"
	}

	return &engine.RoundResult{
		Game:      config.Roulette,
		Drawn:     []string{string(winning.Color), strconv.Itoa(number)},
		Outcome:   outcome,
		Payout:    payout,
		Profit:    money.Profit(payout, bet.Amount),
		IsWin:     money.IsWin(payout, bet.Amount),
		Seeds:     seeds,
		DrawCount: 2,
		Details: map[string]interface{}{
			"picked_color":   params.Color,
			"winning_color":  winning.Color,
			"winning_number": number,
			"multiplier":     picked.Multiplier,
		},
	}, nil
}

func (g *Game) colorConfig(color config.Color) *config.RouletteColorConfig {
	for i := range g.wheel.Colors {
		if g.wheel.Colors[i].Color == color {
			return &g.wheel.Colors[i]
		}
	}

	return nil
}
