// Package dice settles roll-under / roll-over rounds on a 0-99 roll.
package dice

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/money"
	"go-stakehouse/internal/rng"
)

const (
	minTarget = 2
	maxTarget = 98
	rollSpace = 100
)

// houseEdge keeps one percent of the fair multiplier.
var houseEdge = decimal.RequireFromString("0.99")

type Mode string

const (
	Under Mode = "under"
	Over  Mode = "over"
)

// Params selects the target and the winning side. Under wins on
// roll < target, Over on roll >= target.
type Params struct {
	Target int  `json:"target"`
	Mode   Mode `json:"mode"`
}

type Game struct {
	rand engine.Randomizer
}

func New(rand engine.Randomizer) *Game {
	return &Game{rand: rand}
}

// Play draws a single roll in [0, 100) and pays the target-derived
// multiplier on a win.
func (g *Game) Play(seeds rng.SeedTriple, bet engine.Bet) (*engine.RoundResult, error) {
	const op = "dice.Game.Play"

	params, ok := bet.Params.(Params)
	if !ok {
		return nil, fmt.Errorf("%s: dice params required: %w", op, engine.ErrInvalidArgument)
	}

	if params.Target < minTarget || params.Target > maxTarget {
		return nil, fmt.Errorf("%s: target %d out of [%d, %d]: %w",
			op, params.Target, minTarget, maxTarget, engine.ErrInvalidArgument)
	}

	if params.Mode != Under && params.Mode != Over {
		return nil, fmt.Errorf("%s: unknown mode %q: %w", op, params.Mode, engine.ErrInvalidArgument)
	}

	roll, err := g.rand.UniformInt(seeds.ServerSeed, seeds.ClientSeed, seeds.Nonce, rollSpace)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	won := params.Mode == Under && roll < params.Target ||
		params.Mode == Over && roll >= params.Target

	multiplier := Multiplier(params.Target, params.Mode)

	payout := decimal.Zero
	if won {
		payout = money.Payout(bet.Amount, multiplier)
	}

	outcome := "loss"
	if won {
		outcome = "win"
	}

	return &engine.RoundResult{
		Game:      config.Dice,
		Drawn:     []string{fmt.Sprintf("%d", roll)},
		Outcome:   outcome,
		Payout:    payout,
		Profit:    money.Profit(payout, bet.Amount),
		IsWin:     money.IsWin(payout, bet.Amount),
		Seeds:     seeds,
		DrawCount: 1,
		Details: map[string]interface{}{
			"roll":       roll,
			"target":     params.Target,
			"mode":       params.Mode,
			"multiplier": multiplier,
			"win_chance": WinChance(params.Target, params.Mode),
		},
	}, nil
}

// WinChance is the probability of the winning side as a fraction of one.
func WinChance(target int, mode Mode) decimal.Decimal {
	favorable := target
	if mode == Over {
		favorable = rollSpace - target
	}

	return decimal.NewFromInt(int64(favorable)).Div(decimal.NewFromInt(rollSpace))
}

// Multiplier is the edge-adjusted inverse of the win chance, rounded
// to four places.
func Multiplier(target int, mode Mode) decimal.Decimal {
	return houseEdge.Div(WinChance(target, mode)).Round(4)
}
