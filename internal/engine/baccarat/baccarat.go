// Package baccarat settles player-versus-banker card duels with the
// standard third-card rule tables.
package baccarat

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/engine/cards"
	"go-stakehouse/internal/money"
	"go-stakehouse/internal/rng"
)

type BetType string

const (
	BetPlayer BetType = "player"
	BetBanker BetType = "banker"
	BetTie    BetType = "tie"
)

// Total-return multipliers: player pays even money, banker carries the
// 5% commission, tie pays 8:1.
var multipliers = map[BetType]decimal.Decimal{
	BetPlayer: decimal.NewFromInt(2),
	BetBanker: decimal.RequireFromString("1.95"),
	BetTie:    decimal.NewFromInt(9),
}

type Winner string

const (
	WinnerPlayer Winner = "player"
	WinnerBanker Winner = "banker"
	WinnerTie    Winner = "tie"
)

type Params struct {
	BetType BetType `json:"bet_type"`
}

type Game struct {
	rand engine.Randomizer
}

func New(rand engine.Randomizer) *Game {
	return &Game{rand: rand}
}

// Play deals two cards each in player-banker order, applies the
// third-card rules unless either side holds a natural 8 or 9, and
// settles the bet against the higher mod-10 total.
func (g *Game) Play(seeds rng.SeedTriple, bet engine.Bet) (*engine.RoundResult, error) {
	const op = "baccarat.Game.Play"

	params, ok := bet.Params.(Params)
	if !ok {
		return nil, fmt.Errorf("%s: baccarat params required: %w", op, engine.ErrInvalidArgument)
	}

	if _, known := multipliers[params.BetType]; !known {
		return nil, fmt.Errorf("%s: bet type %q: %w", op, params.BetType, engine.ErrInvalidArgument)
	}

	var (
		playerCards []cards.Card
		bankerCards []cards.Card
		drawCount   int
	)

	draw := func(nonce int64) (cards.Card, error) {
		card, err := cards.Draw(g.rand, seeds, nonce)
		if err != nil {
			return cards.Card{}, err
		}

		drawCount++

		return card, nil
	}

	// Deal order: player, banker, player, banker.
	for i := int64(0); i < 4; i++ {
		card, err := draw(seeds.Nonce + i)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if i%2 == 0 {
			playerCards = append(playerCards, card)
		} else {
			bankerCards = append(bankerCards, card)
		}
	}

	playerScore := handScore(playerCards)
	bankerScore := handScore(bankerCards)

	cardNonce := seeds.Nonce + 4

	if playerScore < 8 && bankerScore < 8 {
		playerDrew := false
		playerThirdValue := 0

		if playerScore <= 5 {
			third, err := draw(cardNonce)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			cardNonce++

			playerCards = append(playerCards, third)
			playerScore = handScore(playerCards)
			playerDrew = true
			playerThirdValue = third.BaccaratValue()
		}

		bankerDraws := bankerScore <= 5
		if playerDrew {
			bankerDraws = bankerShouldDraw(bankerScore, playerThirdValue)
		}

		if bankerDraws {
			third, err := draw(cardNonce)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			bankerCards = append(bankerCards, third)
			bankerScore = handScore(bankerCards)
		}
	}

	winner := WinnerTie
	switch {
	case playerScore > bankerScore:
		winner = WinnerPlayer
	case bankerScore > playerScore:
		winner = WinnerBanker
	}

	payout := settle(params.BetType, bet.Amount, winner)

	drawn := append(cards.Strings(playerCards), cards.Strings(bankerCards)...)

	return &engine.RoundResult{
		Game:      config.Baccarat,
		Drawn:     drawn,
		Outcome:   string(winner),
		Payout:    payout,
		Profit:    money.Profit(payout, bet.Amount),
		IsWin:     money.IsWin(payout, bet.Amount),
		Seeds:     seeds,
		DrawCount: drawCount,
		Details: map[string]interface{}{
			"player_cards": cards.Strings(playerCards),
			"banker_cards": cards.Strings(bankerCards),
			"player_score": playerScore,
			"banker_score": bankerScore,
			"bet_type":     params.BetType,
		},
	}, nil
}

// handScore is the mod-10 total of the hand's baccarat values.
func handScore(hand []cards.Card) int {
	total := 0
	for _, c := range hand {
		total += c.BaccaratValue()
	}

	return total % 10
}

// bankerShouldDraw is the fixed banker table, keyed by the banker's
// two-card total and the value of the player's third card.
func bankerShouldDraw(bankerScore, playerThirdValue int) bool {
	switch bankerScore {
	case 0, 1, 2:
		return true
	case 3:
		return playerThirdValue != 8
	case 4:
		return playerThirdValue >= 2 && playerThirdValue <= 7
	case 5:
		return playerThirdValue >= 4 && playerThirdValue <= 7
	case 6:
		return playerThirdValue == 6 || playerThirdValue == 7
	default:
		return false
	}
}

// settle applies the payout table: a won bet pays its multiplier, a tie
// pushes player and banker bets back at even money, everything else loses.
func settle(betType BetType, amount decimal.Decimal, winner Winner) decimal.Decimal {
	if string(betType) == string(winner) {
		return money.Payout(amount, multipliers[betType])
	}

	if winner == WinnerTie {
		return amount
	}

	return decimal.Zero
}
