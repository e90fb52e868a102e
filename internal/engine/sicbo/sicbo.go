// Package sicbo settles multi-position three-dice rounds: one roll,
// an arbitrary map of simultaneous bet positions.
package sicbo

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/money"
	"go-stakehouse/internal/rng"
)

// Params carries the per-position stakes. Bet.Amount must equal the
// sum of the position stakes.
type Params struct {
	Bets map[BetSpec]decimal.Decimal `json:"bets"`
}

// PositionResult is the settlement of one bet position.
type PositionResult struct {
	Spec       BetSpec         `json:"spec"`
	Amount     decimal.Decimal `json:"amount"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	Won        bool            `json:"won"`
}

type Game struct {
	rand engine.Randomizer
}

func New(rand engine.Randomizer) *Game {
	return &Game{rand: rand}
}

// Play validates every position, rolls three dice at nonce..nonce+2,
// and sums the per-position payouts.
func (g *Game) Play(seeds rng.SeedTriple, bet engine.Bet) (*engine.RoundResult, error) {
	const op = "sicbo.Game.Play"

	params, ok := bet.Params.(Params)
	if !ok {
		return nil, fmt.Errorf("%s: sicbo params required: %w", op, engine.ErrInvalidArgument)
	}

	if len(params.Bets) == 0 {
		return nil, fmt.Errorf("%s: at least one bet position required: %w", op, engine.ErrInvalidArgument)
	}

	staked := decimal.Zero

	for spec, amount := range params.Bets {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if !amount.IsPositive() {
			return nil, fmt.Errorf("%s: position stake must be positive: %w", op, engine.ErrInvalidArgument)
		}

		staked = staked.Add(amount)
	}

	if !staked.Equal(bet.Amount) {
		return nil, fmt.Errorf("%s: stakes sum to %s, bet amount is %s: %w",
			op, staked, bet.Amount, engine.ErrInvalidArgument)
	}

	var roll Roll

	for i := 0; i < 3; i++ {
		face, err := g.rand.UniformInt(seeds.ServerSeed, seeds.ClientSeed, seeds.Nonce+int64(i), 6)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		roll.Dice[i] = face + 1
	}

	totalPayout := decimal.Zero
	positions := make([]PositionResult, 0, len(params.Bets))

	for spec, amount := range params.Bets {
		multiplier := spec.Evaluate(roll)
		payout := money.Payout(amount, multiplier)
		totalPayout = totalPayout.Add(payout)

		positions = append(positions, PositionResult{
			Spec:       spec,
			Amount:     amount,
			Multiplier: multiplier,
			Payout:     payout,
			Won:        multiplier.IsPositive(),
		})
	}

	// Map iteration order is random; the round record must not be.
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Spec.less(positions[j].Spec)
	})

	drawn := make([]string, 3)
	for i, die := range roll.Dice {
		drawn[i] = strconv.Itoa(die)
	}

	outcome := "loss"
	if money.IsWin(totalPayout, bet.Amount) {
		outcome = "win"
	}

	return &engine.RoundResult{
		Game:      config.SicBo,
		Drawn:     drawn,
		Outcome:   outcome,
		Payout:    totalPayout,
		Profit:    money.Profit(totalPayout, bet.Amount),
		IsWin:     money.IsWin(totalPayout, bet.Amount),
		Seeds:     seeds,
		DrawCount: 3,
		Details: map[string]interface{}{
			"dice":      roll.Dice,
			"total":     roll.Total(),
			"positions": positions,
		},
	}, nil
}
