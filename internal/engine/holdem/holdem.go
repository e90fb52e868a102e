// Package holdem settles heads-up Texas hold'em rounds against the
// house: shared community cards, best five of seven per side.
package holdem

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/engine/cards"
	"go-stakehouse/internal/money"
	"go-stakehouse/internal/rng"
)

// anteMultipliers is the total-return payout per winning hand tier.
var anteMultipliers = map[HandRank]decimal.Decimal{
	HighCard:      decimal.NewFromInt(2),
	Pair:          decimal.NewFromInt(2),
	TwoPair:       decimal.NewFromInt(3),
	ThreeOfAKind:  decimal.NewFromInt(4),
	Straight:      decimal.NewFromInt(5),
	Flush:         decimal.NewFromInt(6),
	FullHouse:     decimal.NewFromInt(9),
	FourOfAKind:   decimal.NewFromInt(21),
	StraightFlush: decimal.NewFromInt(51),
	RoyalFlush:    decimal.NewFromInt(101),
}

const (
	OutcomePlayerWin = "player_win"
	OutcomeDealerWin = "dealer_win"
	OutcomeTie       = "tie"
)

// Params: hold'em has no bet options beyond the ante.
type Params struct{}

type Game struct {
	rand engine.Randomizer
}

func New(rand engine.Randomizer) *Game {
	return &Game{rand: rand}
}

// Play shuffles a full deck with the provably fair Fisher-Yates pass,
// deals two hole cards each plus five community cards, and pays the
// ante by the winning hand's tier.
func (g *Game) Play(seeds rng.SeedTriple, bet engine.Bet) (*engine.RoundResult, error) {
	const op = "holdem.Game.Play"

	if _, ok := bet.Params.(Params); bet.Params != nil && !ok {
		return nil, fmt.Errorf("%s: holdem params required: %w", op, engine.ErrInvalidArgument)
	}

	deck, drawCount, err := g.shuffledDeck(seeds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	playerHole := deck[0:2]
	dealerHole := deck[2:4]
	community := deck[4:9]

	playerSeven := append(append([]cards.Card{}, playerHole...), community...)
	dealerSeven := append(append([]cards.Card{}, dealerHole...), community...)

	playerHand, err := BestOfSeven(playerSeven)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, engine.ErrEvaluatorFailure)
	}

	dealerHand, err := BestOfSeven(dealerSeven)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, engine.ErrEvaluatorFailure)
	}

	var (
		outcome string
		payout  decimal.Decimal
	)

	switch comparison := Compare(playerHand, dealerHand); {
	case comparison > 0:
		outcome = OutcomePlayerWin
		payout = money.Payout(bet.Amount, anteMultipliers[playerHand.Rank])
	case comparison < 0:
		outcome = OutcomeDealerWin
		payout = decimal.Zero
	default:
		outcome = OutcomeTie
		payout = bet.Amount
	}

	return &engine.RoundResult{
		Game:      config.Holdem,
		Drawn:     cards.Strings(deck[0:9]),
		Outcome:   outcome,
		Payout:    payout,
		Profit:    money.Profit(payout, bet.Amount),
		IsWin:     money.IsWin(payout, bet.Amount),
		Seeds:     seeds,
		DrawCount: drawCount,
		Details: map[string]interface{}{
			"player_hole":      cards.Strings(playerHole),
			"dealer_hole":      cards.Strings(dealerHole),
			"community_cards":  cards.Strings(community),
			"player_hand_rank": playerHand.Rank.String(),
			"dealer_hand_rank": dealerHand.Rank.String(),
			"player_best":      cards.Strings(playerHand.Cards),
			"dealer_best":      cards.Strings(dealerHand.Cards),
		},
	}, nil
}

// shuffledDeck runs Fisher-Yates over the full deck, drawing the swap
// index for step i at nonce base+i. Exactly 51 draws.
func (g *Game) shuffledDeck(seeds rng.SeedTriple) ([]cards.Card, int, error) {
	const op = "holdem.Game.shuffledDeck"

	deck := cards.NewDeck()
	drawCount := 0

	for i := len(deck) - 1; i > 0; i-- {
		j, err := g.rand.UniformInt(seeds.ServerSeed, seeds.ClientSeed, seeds.Nonce+int64(i), i+1)
		if err != nil {
			return nil, drawCount, fmt.Errorf("%s: %w", op, err)
		}

		drawCount++
		deck[i], deck[j] = deck[j], deck[i]
	}

	return deck, drawCount, nil
}
