// Package cards holds the 52-card deck primitives shared by the card
// game evaluators.
package cards

import (
	"fmt"

	"go-stakehouse/internal/rng"
)

type Rank int

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var (
	rankNames = [13]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	suitNames = [4]string{"♠", "♥", "♦", "♣"}
)

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return rankNames[c.Rank] + suitNames[c.Suit]
}

// BaccaratValue maps A=1, 2-9 at face, tens and faces to 0.
func (c Card) BaccaratValue() int {
	if c.Rank >= Ten {
		return 0
	}

	return int(c.Rank) + 1
}

// PokerValue maps 2-10 at face, J=11, Q=12, K=13, A=14 (ace high; the
// wheel straight is handled by the hand evaluator).
func (c Card) PokerValue() int {
	if c.Rank == Ace {
		return 14
	}

	return int(c.Rank) + 1
}

// NewDeck returns the standard 52-card deck in index order: card i is
// rank i%13 of suit i/13, matching the Draw mapping.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= King; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}

	return deck
}

// DrawSource is the one RNG operation the deck needs.
type DrawSource interface {
	UniformInt(serverSeed, clientSeed string, nonce int64, maxExclusive int) (int, error)
}

// Draw maps a single uniform draw over [0, 52) to a card.
func Draw(rand DrawSource, seeds rng.SeedTriple, nonce int64) (Card, error) {
	const op = "cards.Draw"

	index, err := rand.UniformInt(seeds.ServerSeed, seeds.ClientSeed, nonce, 52)
	if err != nil {
		return Card{}, fmt.Errorf("%s: %w", op, err)
	}

	return Card{Rank: Rank(index % 13), Suit: Suit(index / 13)}, nil
}

// Strings renders a hand for round records.
func Strings(hand []Card) []string {
	out := make([]string, len(hand))
	for i, c := range hand {
		out[i] = c.String()
	}

	return out
}
