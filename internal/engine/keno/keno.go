// Package keno settles number-draw rounds: up to ten picks against a
// twenty-number draw from 1-80.
package keno

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

const (
	maxNumber = 80
	drawCount = 20
	minPicks  = 1
	maxPicks  = 10
)

// payoutTable maps [picks-1][matches] to the total-return multiplier.
var payoutTable = [maxPicks][]int64{
	{0, 3},
	{0, 0, 15},
	{0, 0, 2, 50},
	{0, 0, 1, 5, 100},
	{0, 0, 0, 3, 15, 500},
	{0, 0, 0, 2, 5, 100, 1500},
	{0, 0, 0, 1, 3, 20, 400, 5000},
	{0, 0, 0, 0, 2, 10, 50, 1000, 10000},
	{0, 0, 0, 0, 1, 5, 25, 200, 2500, 15000},
	{0, 0, 0, 0, 0, 2, 10, 50, 500, 5000, 25000},
}

type Params struct {
	Picks []int `json:"picks"`
}

type Game struct {
	rand engine.Randomizer
}

func New(rand engine.Randomizer) *Game {
	return &Game{rand: rand}
}

// Play validates the picks, draws twenty unique numbers by
// reject-and-resample on an advancing nonce, and pays from the
// picks-by-matches table.
func (g *Game) Play(seeds rng.SeedTriple, bet engine.Bet) (*engine.RoundResult, error) {
	const op = "keno.Game.Play"

	params, ok := bet.Params.(Params)
	if !ok {
		return nil, fmt.Errorf("%s: keno params required: %w", op, engine.ErrInvalidArgument)
	}

	if err := validatePicks(params.Picks); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	drawn := make(map[int]bool, drawCount)
	order := make([]int, 0, drawCount)
	nonce := seeds.Nonce
	draws := 0

	for len(order) < drawCount {
		value, err := g.rand.UniformInt(seeds.ServerSeed, seeds.ClientSeed, nonce, maxNumber)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		nonce++
		draws++

		number := value + 1
		if drawn[number] {
			continue
		}

		drawn[number] = true
		order = append(order, number)
	}

	matched := make([]int, 0, len(params.Picks))
	for _, pick := range params.Picks {
		if drawn[pick] {
			matched = append(matched, pick)
		}
	}

	multiplier := Multiplier(len(params.Picks), len(matched))
	payout := money.Payout(bet.Amount, decimal.NewFromInt(multiplier))

	sortedDrawn := append([]int{}, order...)
	sort.Ints(sortedDrawn)
	sort.Ints(matched)

	drawnStrs := make([]string, len(sortedDrawn))
	for i, n := range sortedDrawn {
		drawnStrs[i] = strconv.Itoa(n)
	}

	outcome := "loss"
	if money.IsWin(payout, bet.Amount) {
		outcome = "win"
	}

	return &engine.RoundResult{
		Game:      config.Keno,
		Drawn:     drawnStrs,
		Outcome:   outcome,
		Payout:    payout,
		Profit:    money.Profit(payout, bet.Amount),
		IsWin:     money.IsWin(payout, bet.Amount),
		Seeds:     seeds,
		DrawCount: draws,
		Details: map[string]interface{}{
			"picked_numbers":  params.Picks,
			"drawn_numbers":   sortedDrawn,
			"matched_numbers": matched,
			"match_count":     len(matched),
			"multiplier":      multiplier,
		},
	}, nil
}

// Multiplier looks up the total-return multiplier for a picks/matches
// pair; out-of-table pairs pay nothing.
func Multiplier(picks, matches int) int64 {
	if picks < minPicks || picks > maxPicks {
		return 0
	}

	row := payoutTable[picks-1]
	if matches < 0 || matches >= len(row) {
		return 0
	}

	return row[matches]
}

func validatePicks(picks []int) error {
	const op = "keno.validatePicks"

	if len(picks) < minPicks {
		return fmt.Errorf("%s: at least one pick required: %w", op, engine.ErrInvalidArgument)
	}

	if len(picks) > maxPicks {
		return fmt.Errorf("%s: at most %d picks allowed, got %d: %w",
			op, maxPicks, len(picks), engine.ErrInvalidArgument)
	}

	seen := make(map[int]bool, len(picks))

	for _, pick := range picks {
		if pick < 1 || pick > maxNumber {
			return fmt.Errorf("%s: pick %d out of [1, %d]: %w",
				op, pick, maxNumber, engine.ErrInvalidArgument)
		}

		if seen[pick] {
			return fmt.Errorf("%s: duplicate pick %d: %w", op, pick, engine.ErrInvalidArgument)
		}

		seen[pick] = true
	}

	return nil
}
