// Package slots settles five-reel, three-row spins over a weighted
// symbol strip, with wild substitution and scatter-triggered free spins.
package slots

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/money"
	"go-stakehouse/internal/rng"
)

const (
	reelCount = 5
	rowCount  = 3
)

type Symbol string

const (
	Seven      Symbol = "seven"
	Diamond    Symbol = "diamond"
	GoldBar    Symbol = "gold_bar"
	Cherry     Symbol = "cherry"
	Lemon      Symbol = "lemon"
	Orange     Symbol = "orange"
	Plum       Symbol = "plum"
	Grape      Symbol = "grape"
	Watermelon Symbol = "watermelon"
	Wild       Symbol = "wild"
	Scatter    Symbol = "scatter"
)

// symbolConfig pairs a symbol's base line multiplier with its strip
// weight (higher weight, more common).
type symbolConfig struct {
	symbol Symbol
	payout int64
	weight int
}

var symbolConfigs = []symbolConfig{
	{symbol: Seven, payout: 100, weight: 1},
	{symbol: Diamond, payout: 50, weight: 2},
	{symbol: GoldBar, payout: 25, weight: 3},
	{symbol: Cherry, payout: 15, weight: 5},
	{symbol: Lemon, payout: 10, weight: 7},
	{symbol: Orange, payout: 8, weight: 9},
	{symbol: Plum, payout: 6, weight: 11},
	{symbol: Grape, payout: 5, weight: 13},
	{symbol: Watermelon, payout: 4, weight: 15},
	{symbol: Wild, payout: 200, weight: 1},
	{symbol: Scatter, payout: 0, weight: 3},
}

// reelStrip is the weighted expansion of symbolConfigs; one uniform
// draw over the strip is one weighted symbol pick.
var reelStrip = buildReelStrip()

func buildReelStrip() []Symbol {
	var strip []Symbol

	for _, sc := range symbolConfigs {
		for i := 0; i < sc.weight; i++ {
			strip = append(strip, sc.symbol)
		}
	}

	return strip
}

var basePayouts = buildBasePayouts()

func buildBasePayouts() map[Symbol]int64 {
	payouts := make(map[Symbol]int64, len(symbolConfigs))
	for _, sc := range symbolConfigs {
		payouts[sc.symbol] = sc.payout
	}

	return payouts
}

// paylines lists every line the engine pays. Each entry is the row
// selected on each reel, left to right. All declared lines are
// evaluated; there are no dead lines.
var paylines = [9][reelCount]int{
	{1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0},
	{2, 2, 2, 2, 2},
	{0, 1, 2, 1, 0},
	{2, 1, 0, 1, 2},
	{0, 0, 1, 2, 2},
	{2, 2, 1, 0, 0},
	{1, 0, 0, 0, 1},
	{1, 2, 2, 2, 1},
}

// freeSpinsByScatters maps a grid's scatter count to awarded spins.
var freeSpinsByScatters = map[int]int{3: 10, 4: 15, 5: 25}

// Grid is a settled spin, indexed [reel][row].
type Grid [reelCount][rowCount]Symbol

// WinLine is one paying line in a settled spin.
type WinLine struct {
	Line       int    `json:"line"`
	Symbol     Symbol `json:"symbol"`
	Count      int    `json:"count"`
	Multiplier int64  `json:"multiplier"`
}

// Params: a spin has no bet options beyond the stake.
type Params struct{}

type Game struct {
	rand engine.Randomizer
}

func New(rand engine.Randomizer) *Game {
	return &Game{rand: rand}
}

// Play fills the grid cell by cell (one draw per cell, nonce offset
// reel*3+row), evaluates every payline and the scatter bonus, and sums
// the per-line payouts.
func (g *Game) Play(seeds rng.SeedTriple, bet engine.Bet) (*engine.RoundResult, error) {
	const op = "slots.Game.Play"

	if _, ok := bet.Params.(Params); bet.Params != nil && !ok {
		return nil, fmt.Errorf("%s: slots params required: %w", op, engine.ErrInvalidArgument)
	}

	var grid Grid

	for reel := 0; reel < reelCount; reel++ {
		for row := 0; row < rowCount; row++ {
			offset := int64(reel*rowCount + row)

			index, err := g.rand.UniformInt(seeds.ServerSeed, seeds.ClientSeed, seeds.Nonce+offset, len(reelStrip))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			grid[reel][row] = reelStrip[index]
		}
	}

	winLines := EvaluateGrid(grid)

	totalPayout := decimal.Zero
	for _, line := range winLines {
		totalPayout = totalPayout.Add(money.Payout(bet.Amount, decimal.NewFromInt(line.Multiplier)))
	}

	scatters := countScatters(grid)
	freeSpins := freeSpinsByScatters[scatters]

	drawn := make([]string, 0, reelCount*rowCount)
	for reel := 0; reel < reelCount; reel++ {
		for row := 0; row < rowCount; row++ {
			drawn = append(drawn, string(grid[reel][row]))
		}
	}

	outcome := "loss"
	switch {
	case freeSpins > 0:
		outcome = "bonus_triggered"
	case totalPayout.IsPositive():
		outcome = "win"
	}

	return &engine.RoundResult{
		Game:      config.Slots,
		Drawn:     drawn,
		Outcome:   outcome,
		Payout:    totalPayout,
		Profit:    money.Profit(totalPayout, bet.Amount),
		IsWin:     money.IsWin(totalPayout, bet.Amount),
		Seeds:     seeds,
		DrawCount: reelCount * rowCount,
		Details: map[string]interface{}{
			"grid":       grid,
			"win_lines":  winLines,
			"scatters":   scatters,
			"free_spins": freeSpins,
		},
	}, nil
}

// EvaluateGrid checks every payline for a run of three or more
// matching symbols from the leftmost reel, with wilds substituting.
func EvaluateGrid(grid Grid) []WinLine {
	var winLines []WinLine

	for lineIndex, line := range paylines {
		first := grid[0][line[0]]
		if first == Scatter {
			continue // scatters pay off-line only
		}

		run := 1
		for reel := 1; reel < reelCount; reel++ {
			current := grid[reel][line[reel]]
			if current != first && current != Wild {
				break
			}

			run++
		}

		if run < 3 {
			continue
		}

		winLines = append(winLines, WinLine{
			Line:       lineIndex + 1,
			Symbol:     first,
			Count:      run,
			Multiplier: lineMultiplier(first, run),
		})
	}

	return winLines
}

// lineMultiplier scales the symbol's base payout by the run length:
// x1 for three, x3 for four, x10 for five.
func lineMultiplier(symbol Symbol, count int) int64 {
	base := basePayouts[symbol]

	switch count {
	case 3:
		return base
	case 4:
		return base * 3
	case 5:
		return base * 10
	}

	return 0
}

func countScatters(grid Grid) int {
	count := 0

	for reel := 0; reel < reelCount; reel++ {
		for row := 0; row < rowCount; row++ {
			if grid[reel][row] == Scatter {
				count++
			}
		}
	}

	return count
}
